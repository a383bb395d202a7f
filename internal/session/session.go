// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

/*
Package session implements the console's session entity and its storage layer.

It is the single source of truth for "am I logged in, and as whom". Nothing
else in the console may touch raw storage keys — the "all fields change
together" invariant is enforced here, in one place.

# Architecture

  - Session: The entity, with invariants checked before every write.
  - Store: Abstracted read/write/clear contract.
  - RedisStore / FileStore: Browser sessions vs. a single-operator profile file.
*/
package session

import (
	"context"

	"github.com/evidhub/console/internal/platform/apperr"
	"github.com/evidhub/console/internal/platform/ctxkey"
	"github.com/evidhub/console/internal/platform/sec"
)

// # Domain Entity

// Session is the authenticated identity and credential held for the duration
// of a login.
//
// # Invariants
//
//   - Token and Role are set together or not at all. A session missing either
//     is never treated as authenticated.
//   - Exactly one of Address (wallet login) or Email (credential login) is
//     populated — never both, never neither.
type Session struct {
	// Token is the opaque bearer credential issued by the upstream API.
	Token string `json:"token"`

	// Role is the upstream-assigned role; one of the closed set in [sec].
	Role sec.Role `json:"role"`

	// UserID is the upstream account identifier.
	UserID string `json:"userID"`

	// Email identifies credential-based sessions. Empty for wallet sessions.
	Email string `json:"userEmail,omitempty"`

	// Address identifies wallet-based sessions (lowercase hex). Empty for
	// credential sessions.
	Address string `json:"walletAddress,omitempty"`
}

// Validate enforces the session invariants before persistence.
func (session *Session) Validate() error {

	// Token and Role must be set together — a partial session is never written.
	if session.Token == "" || session.Role == "" {
		return apperr.Internal(errIncomplete)
	}

	// Role must belong to the closed set even at this late stage.
	if _, err := sec.ParseRole(string(session.Role)); err != nil {
		return err
	}

	// Exactly one identifying field.
	hasAddress := session.Address != ""
	hasEmail := session.Email != ""
	if hasAddress == hasEmail {
		return apperr.Internal(errIdentity)
	}

	return nil
}

// IsWallet reports whether the session was established via wallet signature.
func (session *Session) IsWallet() bool {
	return session.Address != ""
}

// Redacted returns a copy of the session safe to return to the browser:
// the bearer token is never echoed back.
func (session *Session) Redacted() *Session {
	clone := *session
	clone.Token = ""
	return &clone
}

// # Context Accessors

// WithCurrent returns a new context carrying the authenticated session.
func WithCurrent(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, session)
}

// Current retrieves the authenticated session from the context.
// It returns nil for anonymous requests.
func Current(ctx context.Context) *Session {
	current, ok := ctx.Value(ctxkey.KeySession).(*Session)
	if !ok {
		return nil
	}
	return current
}

// WithID returns a new context carrying the opaque browser session ID.
func WithID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxkey.KeySessionID, sessionID)
}

// ID retrieves the opaque browser session ID from the context.
// It returns an empty string when no session cookie was presented.
func ID(ctx context.Context) string {
	sessionID, _ := ctx.Value(ctxkey.KeySessionID).(string)
	return sessionID
}
