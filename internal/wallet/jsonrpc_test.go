// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package wallet_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidhub/console/internal/platform/apperr"
	"github.com/evidhub/console/internal/wallet"
)

// signerStub spins up a JSON-RPC test server with scripted per-method results.
func signerStub(t *testing.T, handle func(method string, params []json.RawMessage) (any, map[string]any)) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var envelope struct {
			ID     int64             `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(request.Body).Decode(&envelope))

		result, rpcErr := handle(envelope.Method, envelope.Params)

		response := map[string]any{"jsonrpc": "2.0", "id": envelope.ID}
		if rpcErr != nil {
			response["error"] = rpcErr
		} else {
			response["result"] = result
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(response)
	}))
}

/*
TestJSONRPCProvider_RequestAccounts verifies the eth_requestAccounts round trip.
*/
func TestJSONRPCProvider_RequestAccounts(t *testing.T) {
	server := signerStub(t, func(method string, _ []json.RawMessage) (any, map[string]any) {
		assert.Equal(t, "eth_requestAccounts", method)
		return []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}, nil
	})
	defer server.Close()

	provider := wallet.NewJSONRPCProvider(server.URL)
	accounts, err := provider.RequestAccounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}, accounts)
}

/*
TestJSONRPCProvider_PersonalSign verifies the message is hex-encoded per the
personal_sign convention and the signature is returned verbatim.
*/
func TestJSONRPCProvider_PersonalSign(t *testing.T) {
	const message = "Sign this message to authenticate with EvidHub: 1735689600000"
	const address = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

	server := signerStub(t, func(method string, params []json.RawMessage) (any, map[string]any) {
		assert.Equal(t, "personal_sign", method)
		require.Len(t, params, 2)

		var dataHex, paramAddress string
		require.NoError(t, json.Unmarshal(params[0], &dataHex))
		require.NoError(t, json.Unmarshal(params[1], &paramAddress))

		// First param is the hex-encoded UTF-8 message, second the address.
		decoded, err := hex.DecodeString(strings.TrimPrefix(dataHex, "0x"))
		require.NoError(t, err)
		assert.Equal(t, message, string(decoded))
		assert.Equal(t, address, paramAddress)

		return "0xsigned", nil
	})
	defer server.Close()

	provider := wallet.NewJSONRPCProvider(server.URL)
	signature, err := provider.PersonalSign(context.Background(), message, address)

	require.NoError(t, err)
	assert.Equal(t, "0xsigned", signature)
}

/*
TestJSONRPCProvider_UserRejected verifies EIP-1193 error code 4001 maps to
USER_REJECTED.
*/
func TestJSONRPCProvider_UserRejected(t *testing.T) {
	server := signerStub(t, func(_ string, _ []json.RawMessage) (any, map[string]any) {
		return nil, map[string]any{"code": 4001, "message": "User rejected the request."}
	})
	defer server.Close()

	provider := wallet.NewJSONRPCProvider(server.URL)
	_, err := provider.PersonalSign(context.Background(), "message", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "USER_REJECTED"))
}

/*
TestJSONRPCProvider_Unreachable verifies a dead endpoint reads as no provider.
*/
func TestJSONRPCProvider_Unreachable(t *testing.T) {
	server := signerStub(t, func(_ string, _ []json.RawMessage) (any, map[string]any) {
		return nil, nil
	})
	server.Close() // Shut down immediately: connection refused.

	provider := wallet.NewJSONRPCProvider(server.URL)
	_, err := provider.RequestAccounts(context.Background())

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "PROVIDER_UNAVAILABLE"))
}

/*
TestJSONRPCProvider_OtherError verifies non-refusal provider errors map to
PROVIDER_ERROR, keeping "declined" distinct from "broken".
*/
func TestJSONRPCProvider_OtherError(t *testing.T) {
	server := signerStub(t, func(_ string, _ []json.RawMessage) (any, map[string]any) {
		return nil, map[string]any{"code": -32603, "message": "Internal error"}
	})
	defer server.Close()

	provider := wallet.NewJSONRPCProvider(server.URL)
	_, err := provider.RequestAccounts(context.Background())

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "PROVIDER_ERROR"))
}
