// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

/*
Package upstream implements the client for the remote EvidHub API.

The remote API is the sole authority for identity and role assignment — this
package never locally infers or assigns a role. Every call is atomic from
the caller's point of view: either a complete, invariant-satisfying
[session.Session] is returned, or an error, never a partial session.

# Architecture

  - Client: Shared HTTP plumbing (base URL, bearer auth, error envelope).
  - auth.go: Login, wallet login, registration, session probe.
  - complaints.go: Read-only complaint feed for the dashboards.

No retries are attempted anywhere; network flakiness is surfaced to the
caller, not masked.
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/evidhub/console/internal/platform/apperr"
	"github.com/evidhub/console/internal/platform/constants"
)

// requestTimeout bounds a single remote API call. There is no human in this
// loop, unlike wallet signing.
const requestTimeout = 15 * time.Second

// # Client

// Client is the typed HTTP client for the remote EvidHub API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// errorEnvelope is the remote API's non-2xx body shape.
type errorEnvelope struct {
	Message string `json:"message"`
}

/*
do performs one JSON round trip against the remote API.

Description: Marshals the body (when present), attaches the bearer token
(when present), and decodes a 2xx response into result. Non-2xx responses
are returned as [*remoteError] carrying the server-provided message.

Parameters:
  - context: context.Context
  - method: string
  - path: string
  - token: string (empty for unauthenticated calls)
  - body: any (nil for GET)
  - result: any (pointer, nil to discard)

Returns:
  - error: *remoteError for non-2xx, transport errors otherwise
*/
func (client *Client) do(context context.Context, method, path, token string, body, result any) error {

	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream_marshal_failed: %w", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(context, method, client.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("upstream_request_failed: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("upstream_transport_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		var envelope errorEnvelope
		_ = json.NewDecoder(response.Body).Decode(&envelope)
		return &remoteError{status: response.StatusCode, message: envelope.Message}
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(result); err != nil {
		return fmt.Errorf("upstream_decode_failed: %w", err)
	}

	return nil
}

// remoteError is a non-2xx response from the remote API.
type remoteError struct {
	status  int
	message string
}

func (e *remoteError) Error() string {
	return fmt.Sprintf("upstream: status %d: %s", e.status, e.message)
}

// # Error Taxonomy

// genericFailureMessage is shown whenever the server supplied no message.
// Network-level failures are deliberately not distinguished — the
// distinction offers nothing actionable to a human operator here.
const genericFailureMessage = "An error occurred"

// InvalidCredentials reports a login attempt the server rejected, carrying
// the server's message verbatim when present.
func InvalidCredentials(message string) *apperr.AppError {
	if message == "" {
		return AuthFailed(nil)
	}
	return &apperr.AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// AuthFailed reports any other authentication failure: network-level
// problems, or a malformed 2xx response missing token or role.
func AuthFailed(cause error) *apperr.AppError {
	return &apperr.AppError{
		Code:       "AUTH_FAILED",
		Message:    genericFailureMessage,
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// RegistrationFailed reports a rejected registration, carrying the server's
// message verbatim when present.
func RegistrationFailed(message string, cause error) *apperr.AppError {
	if message == "" {
		message = genericFailureMessage
	}
	return &apperr.AppError{
		Code:       "REGISTRATION_FAILED",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Cause:      cause,
	}
}

// SessionInvalid reports that the remote API no longer honors the bearer
// token. The consumer must treat the session as destroyed and force
// re-authentication — never silently retry with a stale token.
func SessionInvalid() *apperr.AppError {
	return &apperr.AppError{
		Code:       "SESSION_INVALID",
		Message:    "Your session has expired. Please sign in again.",
		HTTPStatus: http.StatusUnauthorized,
	}
}
