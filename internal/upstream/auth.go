// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evidhub/console/internal/platform/sec"
	"github.com/evidhub/console/internal/session"
	"github.com/evidhub/console/internal/wallet"
)

// # Wire Shapes

// authResponse is the 2xx body of every authentication endpoint. The remote
// API varies slightly per endpoint (login carries a top-level userID, wallet
// login nests it under user), so both spots are decoded.
type authResponse struct {
	Token  string          `json:"token"`
	Role   string          `json:"role"`
	UserID string          `json:"userID"`
	User   json.RawMessage `json:"user"`
}

// userID digs the account identifier out of the response, preferring the
// top-level field over the nested profile document.
func (response *authResponse) userID() string {
	if response.UserID != "" {
		return response.UserID
	}

	var profile struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(response.User, &profile); err != nil {
		return ""
	}
	if profile.ID != "" {
		return profile.ID
	}
	return profile.AltID
}

// Authenticated is the outcome of a successful authentication call: the
// session to persist plus the raw profile document for the browser.
type Authenticated struct {
	Session *session.Session
	User    json.RawMessage
}

// # Operations

/*
LoginWithCredentials exchanges email and password for a session.

Description: POSTs to /api/auth/login. The returned role is whatever the
server assigned — no local inference from the email, ever. A rejected
attempt carries the server's message verbatim so the operator sees exactly
what the remote API said.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *Authenticated: session plus raw profile
  - error: INVALID_CREDENTIALS, AUTH_FAILED, or UNKNOWN_ROLE
*/
func (client *Client) LoginWithCredentials(context context.Context, email, password string) (*Authenticated, error) {

	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var response authResponse
	if err := client.do(context, http.MethodPost, "/api/auth/login", "", body, &response); err != nil {
		var remote *remoteError
		if errors.As(err, &remote) {
			return nil, InvalidCredentials(remote.message)
		}
		return nil, AuthFailed(err)
	}

	authenticated, err := client.accept(&response)
	if err != nil {
		return nil, err
	}
	authenticated.Session.Email = email

	return authenticated, nil
}

/*
LoginWithWallet exchanges a signed challenge for a session.

Description: POSTs the address, the exact challenge message, and its
signature to /api/auth/wallet-login. Signature verification happens entirely
on the remote side.

Parameters:
  - context: context.Context
  - identity: *wallet.SignedIdentity

Returns:
  - *Authenticated: session plus raw profile
  - error: INVALID_CREDENTIALS, AUTH_FAILED, or UNKNOWN_ROLE
*/
func (client *Client) LoginWithWallet(context context.Context, identity *wallet.SignedIdentity) (*Authenticated, error) {

	body := map[string]string{
		"wallet":    identity.Address,
		"message":   identity.Message,
		"signature": identity.Signature,
	}

	var response authResponse
	if err := client.do(context, http.MethodPost, "/api/auth/wallet-login", "", body, &response); err != nil {
		var remote *remoteError
		if errors.As(err, &remote) {
			return nil, InvalidCredentials(remote.message)
		}
		return nil, AuthFailed(err)
	}

	authenticated, err := client.accept(&response)
	if err != nil {
		return nil, err
	}
	authenticated.Session.Address = identity.Address

	return authenticated, nil
}

/*
RegisterWallet creates a new wallet-backed account.

Description: POSTs to /api/auth/register. The requested role, when present,
is forwarded verbatim — whether it is honored is entirely the server's
decision, and the session role is taken from the response, not the request.

Parameters:
  - context: context.Context
  - name: string
  - identity: *wallet.SignedIdentity
  - requestedRole: string (empty to omit)

Returns:
  - *Authenticated: session plus raw profile
  - error: REGISTRATION_FAILED, AUTH_FAILED, or UNKNOWN_ROLE
*/
func (client *Client) RegisterWallet(context context.Context, name string, identity *wallet.SignedIdentity, requestedRole string) (*Authenticated, error) {

	body := map[string]string{
		"name":          name,
		"walletAddress": identity.Address,
	}
	if requestedRole != "" {
		body["role"] = requestedRole
	}

	var response authResponse
	if err := client.do(context, http.MethodPost, "/api/auth/register", "", body, &response); err != nil {
		var remote *remoteError
		if errors.As(err, &remote) {
			return nil, RegistrationFailed(remote.message, remote)
		}
		return nil, AuthFailed(err)
	}

	authenticated, err := client.accept(&response)
	if err != nil {
		return nil, err
	}
	authenticated.Session.Address = identity.Address

	return authenticated, nil
}

/*
CurrentUser probes whether the remote API still honors a bearer token.

Description: GETs /api/auth/me. Any non-2xx answer means the token is dead
and the caller must destroy its session — a stale token is never retried.
Transport failures are reported as AUTH_FAILED instead, so a network blip
does not log anyone out.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - json.RawMessage: the profile document
  - error: SESSION_INVALID or AUTH_FAILED
*/
func (client *Client) CurrentUser(context context.Context, token string) (json.RawMessage, error) {

	var profile json.RawMessage
	if err := client.do(context, http.MethodGet, "/api/auth/me", token, nil, &profile); err != nil {
		var remote *remoteError
		if errors.As(err, &remote) {
			return nil, SessionInvalid()
		}
		return nil, AuthFailed(err)
	}

	return profile, nil
}

// accept turns a 2xx authentication response into a session, rejecting
// malformed successes: a 2xx missing token or role is a failed login, and a
// role outside the closed set is never stored.
func (client *Client) accept(response *authResponse) (*Authenticated, error) {

	if response.Token == "" || response.Role == "" {
		return nil, AuthFailed(nil)
	}

	role, err := sec.ParseRole(response.Role)
	if err != nil {
		return nil, err
	}

	return &Authenticated{
		Session: &session.Session{
			Token:  response.Token,
			Role:   role,
			UserID: response.userID(),
		},
		User: response.User,
	}, nil
}
