// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package session

import (
	"context"
	"errors"
)

var (
	// errIncomplete marks a write attempt with token or role missing.
	errIncomplete = errors.New("session: token and role must be set together")

	// errIdentity marks a write attempt violating the one-identity rule.
	errIdentity = errors.New("session: exactly one of address or email must be set")
)

// # Storage Contract

// Store defines the durable storage contract for a single client's session.
//
// # Concurrency
//
// Multiple readers may call Read concurrently. Writes are rare (login,
// logout) and last-writer-wins is acceptable — only one login or logout
// action is ever in flight per user action.
type Store interface {

	/*
		Write persists the session atomically (all fields or none).

		Description: A reader must never observe a partially-written session.
		Validate is called before any storage side effect.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Invariant violations or storage failures
	*/
	Write(context context.Context, session *Session) error

	/*
		Read returns the current session, or nil when the client is
		unauthenticated.

		Description: A stored record missing token or role is treated as
		absent, never as a usable session.

		Parameters:
		  - context: context.Context

		Returns:
		  - *Session: Hydrated session, or nil
		  - error: Storage failures only — absence is not an error
	*/
	Read(context context.Context) (*Session, error)

	/*
		Clear removes all session fields atomically.

		Description: Idempotent. After Clear the store is indistinguishable
		from a fresh, never-authenticated client.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Storage failures
	*/
	Clear(context context.Context) error
}

// Factory binds a storage backend to per-client Store instances.
type Factory interface {

	/*
		For returns the Store scoped to the given browser session ID.

		Parameters:
		  - sessionID: string

		Returns:
		  - Store: The client-scoped store
	*/
	For(sessionID string) Store
}
