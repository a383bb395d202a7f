// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

/*
Package wallet implements signature-based proof of account ownership.

It obtains an account address and a signed challenge from an external wallet
provider without the private key ever reaching the console.

# Architecture

  - Provider: Abstracted account-listing and message-signing contract.
  - JSONRPCProvider: Concrete client for an external signer daemon.
  - Requester: Orchestrates the challenge/sign flow and its error taxonomy.

The challenge embeds a millisecond timestamp, so every challenge is unique —
this is the replay-resistance mechanism. A challenge is never reused across
requests.
*/
package wallet

import (
	"context"
	"net/http"

	"github.com/evidhub/console/internal/platform/apperr"
)

// # Contracts & Types

// Provider defines the wallet operations the console consumes.
//
// A provider holds private keys and exposes account listing and message
// signing without ever exposing the key material itself. Signing triggers a
// user-visible prompt that is entirely out of the console's control.
type Provider interface {

	/*
		RequestAccounts asks the provider for the unlocked account addresses.

		Parameters:
		  - context: context.Context

		Returns:
		  - []string: Hex account addresses, possibly empty
		  - error: Provider transport or refusal errors
	*/
	RequestAccounts(context context.Context) ([]string, error)

	/*
		PersonalSign asks the provider to sign the exact message string with
		the given address's private key.

		Parameters:
		  - context: context.Context
		  - message: string (signed verbatim, UTF-8)
		  - address: string

		Returns:
		  - string: Hex-encoded signature
		  - error: UserRejected or provider transport errors
	*/
	PersonalSign(context context.Context, message, address string) (string, error)
}

// SignedIdentity is the proof-of-ownership triple produced by a signing flow.
type SignedIdentity struct {
	// Address is the acting account identity, normalized to lowercase hex.
	Address string `json:"address"`

	// Message is the exact challenge string that was signed.
	Message string `json:"message"`

	// Signature is the hex-encoded signature over Message.
	Signature string `json:"signature"`
}

// # Error Taxonomy

// ProviderUnavailable reports that no wallet provider is configured or
// reachable. Not retryable without user action (install or start a signer).
func ProviderUnavailable() *apperr.AppError {
	return &apperr.AppError{
		Code:       "PROVIDER_UNAVAILABLE",
		Message:    "No wallet provider is available. Install or start a wallet to sign in.",
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NoAccountsGranted reports that the provider returned no unlocked accounts.
// Retry is simply "unlock an account and try again".
func NoAccountsGranted() *apperr.AppError {
	return &apperr.AppError{
		Code:       "NO_ACCOUNTS_GRANTED",
		Message:    "The wallet granted no accounts. Unlock or connect an account and try again.",
		HTTPStatus: http.StatusBadRequest,
	}
}

// UserRejected reports that the user declined the signing prompt. This is a
// deliberate refusal, kept distinct from "broken" so the UI can say so.
func UserRejected() *apperr.AppError {
	return &apperr.AppError{
		Code:       "USER_REJECTED",
		Message:    "The signing request was declined in the wallet.",
		HTTPStatus: http.StatusBadRequest,
	}
}

// ProviderFailure wraps any other provider-side error.
func ProviderFailure(cause error) *apperr.AppError {
	return apperr.BadGateway("PROVIDER_ERROR", "The wallet provider returned an error", cause)
}
