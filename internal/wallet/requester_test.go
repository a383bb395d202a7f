// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package wallet_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidhub/console/internal/platform/apperr"
	"github.com/evidhub/console/internal/wallet"
)

// fakeProvider implements wallet.Provider with scripted responses and
// records every call so tests can assert that no call happened.
type fakeProvider struct {
	accounts    []string
	accountsErr error
	signature   string
	signErr     error

	accountsCalls int
	signCalls     int
	signedMessage string
	signedAddress string
}

func (provider *fakeProvider) RequestAccounts(_ context.Context) ([]string, error) {
	provider.accountsCalls++
	return provider.accounts, provider.accountsErr
}

func (provider *fakeProvider) PersonalSign(_ context.Context, message, address string) (string, error) {
	provider.signCalls++
	provider.signedMessage = message
	provider.signedAddress = address
	return provider.signature, provider.signErr
}

/*
TestRequestSignedIdentity_NoProvider verifies the flow fails fast with
PROVIDER_UNAVAILABLE when no provider is present, without any provider call.
*/
func TestRequestSignedIdentity_NoProvider(t *testing.T) {
	requester := wallet.NewRequester(nil)

	identity, err := requester.RequestSignedIdentity(context.Background())

	require.Error(t, err)
	assert.Nil(t, identity)
	assert.True(t, apperr.IsCode(err, "PROVIDER_UNAVAILABLE"))
}

/*
TestRequestSignedIdentity_NoAccounts verifies an empty account list maps to
NO_ACCOUNTS_GRANTED and skips the signing step.
*/
func TestRequestSignedIdentity_NoAccounts(t *testing.T) {
	provider := &fakeProvider{accounts: []string{}}
	requester := wallet.NewRequester(provider)

	identity, err := requester.RequestSignedIdentity(context.Background())

	require.Error(t, err)
	assert.Nil(t, identity)
	assert.True(t, apperr.IsCode(err, "NO_ACCOUNTS_GRANTED"))
	assert.Equal(t, 1, provider.accountsCalls)
	assert.Zero(t, provider.signCalls)
}

/*
TestRequestSignedIdentity_UserRejected verifies a declined signing prompt
surfaces as USER_REJECTED, not a generic failure.
*/
func TestRequestSignedIdentity_UserRejected(t *testing.T) {
	provider := &fakeProvider{
		accounts: []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		signErr:  wallet.UserRejected(),
	}
	requester := wallet.NewRequester(provider)

	identity, err := requester.RequestSignedIdentity(context.Background())

	require.Error(t, err)
	assert.Nil(t, identity)
	assert.True(t, apperr.IsCode(err, "USER_REJECTED"))
}

/*
TestRequestSignedIdentity_Success verifies the full happy path: first account
selected, address normalized, challenge signed verbatim.
*/
func TestRequestSignedIdentity_Success(t *testing.T) {
	provider := &fakeProvider{
		accounts:  []string{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"},
		signature: "0xdeadbeef",
	}
	requester := wallet.NewRequester(provider)

	before := time.Now().UnixMilli()
	identity, err := requester.RequestSignedIdentity(context.Background())
	after := time.Now().UnixMilli()

	require.NoError(t, err)
	require.NotNil(t, identity)

	// First account wins, normalized to lowercase.
	assert.Equal(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", identity.Address)
	assert.Equal(t, identity.Address, provider.signedAddress)

	// The provider signed the exact challenge string returned to the caller.
	assert.Equal(t, identity.Message, provider.signedMessage)
	assert.Equal(t, "0xdeadbeef", identity.Signature)

	// Challenge shape: fixed prefix + millisecond epoch within the call window.
	require.True(t, strings.HasPrefix(identity.Message, wallet.ChallengePrefix))
	stamp, err := strconv.ParseInt(strings.TrimPrefix(identity.Message, wallet.ChallengePrefix), 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stamp, before)
	assert.LessOrEqual(t, stamp, after)
}

/*
TestRequestSignedIdentity_FreshChallenges verifies challenges are not reused
across requests.
*/
func TestRequestSignedIdentity_FreshChallenges(t *testing.T) {
	provider := &fakeProvider{
		accounts:  []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		signature: "0xdeadbeef",
	}
	requester := wallet.NewRequester(provider)

	first, err := requester.RequestSignedIdentity(context.Background())
	require.NoError(t, err)

	// The timestamp has millisecond resolution; step past it.
	time.Sleep(2 * time.Millisecond)

	second, err := requester.RequestSignedIdentity(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Message, second.Message)
}
