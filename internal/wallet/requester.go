// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package wallet

import (
	"context"
	"fmt"
	"time"
)

// # Challenge Construction

// ChallengePrefix is the fixed, human-readable prelude of every challenge.
// The wallet prompt shows this string verbatim, so it names the product.
const ChallengePrefix = "Sign this message to authenticate with EvidHub: "

// # Signature Requester

// Requester drives the full proof-of-ownership flow against a [Provider].
type Requester struct {
	provider Provider
	now      func() time.Time
}

// NewRequester constructs a [Requester]. A nil provider is legal and yields
// ProviderUnavailable on every request — callers don't special-case an
// unconfigured wallet endpoint.
func NewRequester(provider Provider) *Requester {
	return &Requester{provider: provider, now: time.Now}
}

/*
RequestSignedIdentity proves control of an account address.

Description: Requests account access, selects the first granted address as
the acting identity, constructs a fresh timestamped challenge, and has the
provider sign that exact string. No network call is made when no provider is
present.

Parameters:
  - context: context.Context

Returns:
  - *SignedIdentity: {Address, Message, Signature}
  - error: ProviderUnavailable, NoAccountsGranted, UserRejected, or provider failures
*/
func (requester *Requester) RequestSignedIdentity(context context.Context) (*SignedIdentity, error) {

	// ── 1. Provider Presence ──────────────────────────────────────────────
	if requester.provider == nil {
		return nil, ProviderUnavailable()
	}

	// ── 2. Account Access ─────────────────────────────────────────────────
	accounts, err := requester.provider.RequestAccounts(context)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, NoAccountsGranted()
	}

	// ── 3. Acting Identity ────────────────────────────────────────────────
	// The first granted address is the acting identity, by convention.
	address, err := NormalizeAddress(accounts[0])
	if err != nil {
		return nil, ProviderFailure(fmt.Errorf("wallet_account_invalid: %w", err))
	}

	// ── 4. Challenge ──────────────────────────────────────────────────────
	// A fresh millisecond timestamp makes every challenge unique. The
	// message must never be reused across requests.
	message := fmt.Sprintf("%s%d", ChallengePrefix, requester.now().UnixMilli())

	// ── 5. Signature ──────────────────────────────────────────────────────
	signature, err := requester.provider.PersonalSign(context, message, address)
	if err != nil {
		return nil, err
	}

	return &SignedIdentity{
		Address:   address,
		Message:   message,
		Signature: signature,
	}, nil
}
