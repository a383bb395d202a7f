// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

// Package auth implements the login, registration, and logout use cases for
// the console.
//
// # Architecture
//
// The service orchestrates three collaborators through interfaces: the wallet
// signature requester, the remote API client, and the session store. It is
// the only place where their ordering is decided — a session is written only
// after the remote API has accepted the proof, and a destination is resolved
// only after the session is written.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/evidhub/console/internal/platform/apperr"
	"github.com/evidhub/console/internal/route"
	"github.com/evidhub/console/internal/session"
	"github.com/evidhub/console/internal/upstream"
	"github.com/evidhub/console/internal/wallet"
)

// SignatureRequester defines the contract for proving wallet ownership.
type SignatureRequester interface {
	// RequestSignedIdentity performs the account-access and challenge-signing
	// flow, returning the acting address with its signed challenge.
	RequestSignedIdentity(context context.Context) (*wallet.SignedIdentity, error)
}

// API defines the contract with the remote EvidHub API.
//
// The concrete implementation is [upstream.Client]; the interface exists so
// service tests can script remote behavior without a network.
type API interface {
	LoginWithCredentials(context context.Context, email, password string) (*upstream.Authenticated, error)
	LoginWithWallet(context context.Context, identity *wallet.SignedIdentity) (*upstream.Authenticated, error)
	RegisterWallet(context context.Context, name string, identity *wallet.SignedIdentity, requestedRole string) (*upstream.Authenticated, error)
	CurrentUser(context context.Context, token string) (json.RawMessage, error)
}

// Recorder defines the contract for the audit trail.
//
// Recording is best-effort: a failed audit write never fails the user-facing
// operation, so Record returns nothing.
type Recorder interface {
	Record(context context.Context, actor, method, outcome, detail string)
}

// Audit vocabulary. Methods name how authentication happened, outcomes
// whether it did.
const (
	MethodWallet      = "wallet"
	MethodCredentials = "credentials"
	MethodRegister    = "register"
	MethodLogout      = "logout"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to the session write
// ordering or the re-entrancy guard must be reviewed by the security team.
type Service struct {
	requester SignatureRequester
	api       API
	stores    session.Factory
	recorder  Recorder

	// inFlight tracks guard keys with a pending authentication attempt.
	// Guarded by mutex; entries live only for the duration of one service
	// call.
	mutex    sync.Mutex
	inFlight map[string]struct{}
}

// NewService constructs a new [Service] with its collaborators.
func NewService(requester SignatureRequester, api API, stores session.Factory, recorder Recorder) *Service {
	return &Service{
		requester: requester,
		api:       api,
		stores:    stores,
		recorder:  recorder,
		inFlight:  make(map[string]struct{}),
	}
}

// Login is the outcome of a successful authentication: the persisted
// session, the raw profile for the browser, and where to navigate next.
type Login struct {
	Session     *session.Session
	User        json.RawMessage
	Destination route.Destination
}

// Attempt binds one authentication attempt to a browser.
//
// SessionID is where the resulting session is written. GuardKey serializes
// concurrent attempts from the same browser: for a returning visitor it is
// the session ID itself, but a first-time visitor has no cookie yet, so the
// guard falls back to a key derived from the client address — a fresh
// per-request session ID would let a double-click through.
type Attempt struct {
	SessionID string
	GuardKey  string
}

// Bound returns the attempt for a browser that already carries a session ID.
func Bound(sessionID string) Attempt {
	return Attempt{SessionID: sessionID, GuardKey: sessionID}
}

/*
LoginWithWallet authenticates via wallet signature.

Description: Runs the strict four-step flow: prove ownership, exchange the
proof with the remote API, persist the session, resolve the destination.
No step runs before its predecessor succeeded, and a second attempt for the
same browser session is rejected while one is pending.

Parameters:
  - context: context.Context
  - attempt: Attempt (the browser session the result binds to, plus the guard key)

Returns:
  - *Login: session, profile, and dashboard destination
  - error: wallet, upstream, guard, or storage failures
*/
func (service *Service) LoginWithWallet(context context.Context, attempt Attempt) (*Login, error) {

	// ── 1. Re-Entrancy Guard ──────────────────────────────────────────────
	release, err := service.begin(attempt.GuardKey)
	if err != nil {
		return nil, err
	}
	defer release()

	// ── 2. Proof Of Ownership ─────────────────────────────────────────────
	identity, err := service.requester.RequestSignedIdentity(context)
	if err != nil {
		service.recorder.Record(context, "", MethodWallet, OutcomeFailure, reason(err))
		return nil, err
	}

	// ── 3. Remote Exchange ────────────────────────────────────────────────
	authenticated, err := service.api.LoginWithWallet(context, identity)
	if err != nil {
		service.recorder.Record(context, identity.Address, MethodWallet, OutcomeFailure, reason(err))
		return nil, err
	}

	// ── 4. Persist, Then Route ────────────────────────────────────────────
	login, err := service.establish(context, attempt.SessionID, authenticated)
	if err != nil {
		service.recorder.Record(context, identity.Address, MethodWallet, OutcomeFailure, reason(err))
		return nil, err
	}

	service.recorder.Record(context, identity.Address, MethodWallet, OutcomeSuccess, string(login.Destination))
	return login, nil
}

/*
LoginWithCredentials authenticates via email and password.

Description: The remote API is the only judge of the credentials and the
only source of the resulting role — nothing about the email shape
influences where the user lands.

Parameters:
  - context: context.Context
  - attempt: Attempt
  - email: string
  - password: string

Returns:
  - *Login: session, profile, and dashboard destination
  - error: INVALID_CREDENTIALS, AUTH_FAILED, guard, or storage failures
*/
func (service *Service) LoginWithCredentials(context context.Context, attempt Attempt, email, password string) (*Login, error) {

	// ── 1. Re-Entrancy Guard ──────────────────────────────────────────────
	release, err := service.begin(attempt.GuardKey)
	if err != nil {
		return nil, err
	}
	defer release()

	// ── 2. Remote Exchange ────────────────────────────────────────────────
	authenticated, err := service.api.LoginWithCredentials(context, email, password)
	if err != nil {
		service.recorder.Record(context, email, MethodCredentials, OutcomeFailure, reason(err))
		return nil, err
	}

	// ── 3. Persist, Then Route ────────────────────────────────────────────
	login, err := service.establish(context, attempt.SessionID, authenticated)
	if err != nil {
		service.recorder.Record(context, email, MethodCredentials, OutcomeFailure, reason(err))
		return nil, err
	}

	service.recorder.Record(context, email, MethodCredentials, OutcomeSuccess, string(login.Destination))
	return login, nil
}

/*
Register enrolls a new wallet-backed account.

Description: Proves wallet ownership first, then registers. The requested
role is forwarded verbatim; the session role is whatever the server
answered with, honored or not.

Parameters:
  - context: context.Context
  - attempt: Attempt
  - name: string
  - requestedRole: string (empty to omit)

Returns:
  - *Login: session, profile, and dashboard destination
  - error: wallet, REGISTRATION_FAILED, guard, or storage failures
*/
func (service *Service) Register(context context.Context, attempt Attempt, name, requestedRole string) (*Login, error) {

	// ── 1. Re-Entrancy Guard ──────────────────────────────────────────────
	release, err := service.begin(attempt.GuardKey)
	if err != nil {
		return nil, err
	}
	defer release()

	// ── 2. Proof Of Ownership ─────────────────────────────────────────────
	identity, err := service.requester.RequestSignedIdentity(context)
	if err != nil {
		service.recorder.Record(context, "", MethodRegister, OutcomeFailure, reason(err))
		return nil, err
	}

	// ── 3. Remote Registration ────────────────────────────────────────────
	authenticated, err := service.api.RegisterWallet(context, name, identity, requestedRole)
	if err != nil {
		service.recorder.Record(context, identity.Address, MethodRegister, OutcomeFailure, reason(err))
		return nil, err
	}

	// ── 4. Persist, Then Route ────────────────────────────────────────────
	login, err := service.establish(context, attempt.SessionID, authenticated)
	if err != nil {
		service.recorder.Record(context, identity.Address, MethodRegister, OutcomeFailure, reason(err))
		return nil, err
	}

	service.recorder.Record(context, identity.Address, MethodRegister, OutcomeSuccess, string(login.Destination))
	return login, nil
}

// Logout clears the browser session. Idempotent: logging out twice, or
// without ever logging in, succeeds.
func (service *Service) Logout(context context.Context, sessionID string) error {

	actor := ""
	if current := session.Current(context); current != nil {
		if current.IsWallet() {
			actor = current.Address
		} else {
			actor = current.Email
		}
	}

	if err := service.stores.For(sessionID).Clear(context); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.recorder.Record(context, actor, MethodLogout, OutcomeSuccess, "")
	return nil
}

// Current returns the live session together with the fresh remote profile
// and the session's dashboard destination.
//
// # Forced Invalidation
//
// When the remote API definitively rejects the stored token, the session is
// destroyed before the error is returned — a stale token is never kept
// around for a retry. A transport failure keeps the session intact.
func (service *Service) Current(context context.Context, sessionID string) (*Login, error) {

	current := session.Current(context)
	if current == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	user, err := service.api.CurrentUser(context, current.Token)
	if err != nil {
		if apperr.IsCode(err, "SESSION_INVALID") {
			if clearErr := service.stores.For(sessionID).Clear(context); clearErr != nil {
				return nil, fmt.Errorf("auth_service_invalidate_failed: %w", clearErr)
			}
		}
		return nil, err
	}

	destination, err := route.DestinationFor(current.Role)
	if err != nil {
		return nil, err
	}

	return &Login{Session: current, User: user, Destination: destination}, nil
}

// establish persists the authenticated session and resolves its destination,
// in that order. The returned Login carries the session as stored.
func (service *Service) establish(context context.Context, sessionID string, authenticated *upstream.Authenticated) (*Login, error) {

	if err := service.stores.For(sessionID).Write(context, authenticated.Session); err != nil {
		return nil, fmt.Errorf("auth_service_session_write_failed: %w", err)
	}

	destination, err := route.DestinationFor(authenticated.Session.Role)
	if err != nil {
		return nil, err
	}

	return &Login{
		Session:     authenticated.Session,
		User:        authenticated.User,
		Destination: destination,
	}, nil
}

// begin acquires the re-entrancy guard for the given key. The returned
// release function must be deferred immediately.
func (service *Service) begin(guardKey string) (func(), error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	if _, pending := service.inFlight[guardKey]; pending {
		return nil, apperr.AttemptInFlight("An authentication attempt is already in progress")
	}

	service.inFlight[guardKey] = struct{}{}
	return func() {
		service.mutex.Lock()
		defer service.mutex.Unlock()
		delete(service.inFlight, guardKey)
	}, nil
}

// reason extracts the machine-readable code for the audit trail, falling
// back to the raw error text for unexpected failures.
func reason(err error) string {
	if appError := apperr.As(err); appError != nil {
		return appError.Code
	}
	return err.Error()
}
