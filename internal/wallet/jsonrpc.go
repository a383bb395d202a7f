// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package wallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// # JSON-RPC Provider

// EIP-1193 provider error code for a user-rejected request.
const rpcCodeUserRejected = 4001

// Opinionated timeout for provider calls. Signing waits on a human tapping a
// confirmation prompt, so this is much longer than a machine-to-machine call.
const signingTimeout = 45 * time.Second

// JSONRPCProvider implements [Provider] against an external signer daemon
// speaking Ethereum JSON-RPC (eth_requestAccounts, personal_sign) — the same
// interface a browser-injected provider exposes.
type JSONRPCProvider struct {
	endpoint   string
	httpClient *http.Client
	requestSeq atomic.Int64
}

// NewJSONRPCProvider creates a provider client for the given endpoint.
func NewJSONRPCProvider(endpoint string) *JSONRPCProvider {
	return &JSONRPCProvider{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: signingTimeout},
	}
}

// rpcRequest is the JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// rpcResponse is the JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// rpcError is the JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

/*
RequestAccounts lists the provider's unlocked account addresses.

Parameters:
  - context: context.Context

Returns:
  - []string: Hex account addresses
  - error: ProviderUnavailable, UserRejected, or ProviderFailure
*/
func (provider *JSONRPCProvider) RequestAccounts(context context.Context) ([]string, error) {
	var accounts []string
	if err := provider.call(context, "eth_requestAccounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

/*
PersonalSign signs the exact message string with the given address's key.

Description: The message is hex-encoded per the personal_sign convention;
the provider prefixes and hashes it internally. The signing prompt shown to
the user displays the original UTF-8 string.

Parameters:
  - context: context.Context
  - message: string
  - address: string

Returns:
  - string: Hex-encoded signature
  - error: UserRejected or provider errors
*/
func (provider *JSONRPCProvider) PersonalSign(context context.Context, message, address string) (string, error) {
	messageHex := "0x" + hex.EncodeToString([]byte(message))

	var signature string
	if err := provider.call(context, "personal_sign", []any{messageHex, address}, &signature); err != nil {
		return "", err
	}
	return signature, nil
}

// call performs one JSON-RPC round trip and maps failures into the wallet
// error taxonomy.
func (provider *JSONRPCProvider) call(ctx context.Context, method string, params []any, result any) error {

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      provider.requestSeq.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return ProviderFailure(fmt.Errorf("wallet_rpc_marshal_failed: %w", err))
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.endpoint, bytes.NewReader(payload))
	if err != nil {
		return ProviderFailure(fmt.Errorf("wallet_rpc_request_failed: %w", err))
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := provider.httpClient.Do(request)
	if err != nil {
		// An unreachable signer daemon is "no provider present".
		unavailable := ProviderUnavailable()
		unavailable.Cause = err
		return unavailable
	}
	defer func() { _ = response.Body.Close() }()

	var envelope rpcResponse
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return ProviderFailure(fmt.Errorf("wallet_rpc_decode_failed: %w", err))
	}

	if envelope.Error != nil {
		// Deliberate refusal is not a transport failure.
		if envelope.Error.Code == rpcCodeUserRejected {
			rejected := UserRejected()
			rejected.Cause = envelope.Error
			return rejected
		}
		return ProviderFailure(envelope.Error)
	}

	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return ProviderFailure(fmt.Errorf("wallet_rpc_result_failed: %w", err))
	}

	return nil
}
