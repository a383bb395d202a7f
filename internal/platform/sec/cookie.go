// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload embedded inside the signed session cookie.
//
// # Why a signed cookie?
//
// The cookie carries only an opaque browser session ID; all session data
// lives server-side. Signing prevents a client from forging or swapping IDs
// without the console having to store anything in the cookie itself.
type SessionClaims struct {
	jwt.RegisteredClaims

	// SessionID is the opaque browser session identifier (UUIDv7).
	SessionID string `json:"sid"`
}

// CookieSigner issues and verifies the HS256-signed browser session cookie.
type CookieSigner struct {
	secret []byte
	issuer string
}

// NewCookieSigner creates a new CookieSigner from the shared session secret.
func NewCookieSigner(secret, issuer string) (*CookieSigner, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("sec: session secret must be at least 32 bytes")
	}
	return &CookieSigner{secret: []byte(secret), issuer: issuer}, nil
}

// Issue creates a signed cookie value carrying the given session ID.
func (signer *CookieSigner) Issue(sessionID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedValue, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session cookie: %w", err)
	}

	return signedValue, nil
}

// Verify checks the signature and validity of a cookie value and returns the
// embedded session ID.
func (signer *CookieSigner) Verify(cookieValue string) (string, error) {
	token, err := jwt.ParseWithClaims(cookieValue, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return signer.secret, nil
	})

	if err != nil {
		return "", fmt.Errorf("sec: invalid session cookie: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", fmt.Errorf("sec: invalid session cookie claims")
	}

	return claims.SessionID, nil
}
