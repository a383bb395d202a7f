// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidhub/console/internal/auth"
	"github.com/evidhub/console/internal/platform/constants"
	"github.com/evidhub/console/internal/platform/sec"
	"github.com/evidhub/console/internal/upstream"
	"github.com/evidhub/console/internal/wallet"
)

// parkedExchange is an API fake whose authentication calls park inside the
// remote exchange until released, signalling each entry on a channel.
type parkedExchange struct {
	authenticated *upstream.Authenticated
	entered       chan struct{}
	proceed       chan struct{}
	calls         atomic.Int32
}

func (api *parkedExchange) LoginWithWallet(_ context.Context, _ *wallet.SignedIdentity) (*upstream.Authenticated, error) {
	api.calls.Add(1)
	api.entered <- struct{}{}
	<-api.proceed
	return api.authenticated, nil
}

func (api *parkedExchange) LoginWithCredentials(_ context.Context, _, _ string) (*upstream.Authenticated, error) {
	return api.authenticated, nil
}

func (api *parkedExchange) RegisterWallet(_ context.Context, _ string, _ *wallet.SignedIdentity, _ string) (*upstream.Authenticated, error) {
	return api.authenticated, nil
}

func (api *parkedExchange) CurrentUser(_ context.Context, _ string) (json.RawMessage, error) {
	return nil, nil
}

func walletHandler(t *testing.T, api auth.API, stores *memoryStores) *auth.Handler {
	t.Helper()

	requester := &fakeRequester{identity: &wallet.SignedIdentity{
		Address:   "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		Message:   wallet.ChallengePrefix + "1",
		Signature: "0xsig",
	}}

	signer, err := sec.NewCookieSigner("0123456789abcdef0123456789abcdef", constants.SessionIssuer)
	require.NoError(t, err)

	service := auth.NewService(requester, api, stores, &fakeRecorder{})
	return auth.NewHandler(service, signer, false)
}

/*
TestWalletLogin_FirstVisitDoubleSubmit verifies that two concurrent submissions
from a cookie-less browser are serialized: the second answers 429 while the
first is parked in the remote exchange, and exactly one session is written.
*/
func TestWalletLogin_FirstVisitDoubleSubmit(t *testing.T) {
	api := &parkedExchange{
		authenticated: walletAuthenticated(sec.RoleUser),
		entered:       make(chan struct{}, 1),
		proceed:       make(chan struct{}),
	}
	stores := newMemoryStores()
	router := walletHandler(t, api, stores).Routes()

	// Both requests carry no cookie and arrive from the same client address
	// (httptest.NewRequest uses one default RemoteAddr).
	firstRecorder := httptest.NewRecorder()
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		router.ServeHTTP(firstRecorder, httptest.NewRequest(http.MethodPost, "/wallet-login", nil))
	}()

	// Wait until the first submission is parked inside the remote exchange.
	<-api.entered

	secondRecorder := httptest.NewRecorder()
	router.ServeHTTP(secondRecorder, httptest.NewRequest(http.MethodPost, "/wallet-login", nil))

	assert.Equal(t, http.StatusTooManyRequests, secondRecorder.Code)

	var envelope struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(secondRecorder.Body.Bytes(), &envelope))
	assert.Equal(t, "ATTEMPT_IN_FLIGHT", envelope.Code)

	// Release the first submission; it completes normally.
	close(api.proceed)
	<-firstDone

	assert.Equal(t, http.StatusOK, firstRecorder.Code)
	assert.Equal(t, int32(1), api.calls.Load())
	assert.Len(t, stores.sessions, 1)
}

/*
TestWalletLogin_DistinctClientsNotSerialized verifies two cookie-less browsers
at different client addresses authenticate concurrently, each receiving its
own session.
*/
func TestWalletLogin_DistinctClientsNotSerialized(t *testing.T) {
	api := &parkedExchange{
		authenticated: walletAuthenticated(sec.RoleUser),
		entered:       make(chan struct{}, 2),
		proceed:       make(chan struct{}),
	}
	stores := newMemoryStores()
	router := walletHandler(t, api, stores).Routes()

	serve := func(recorder *httptest.ResponseRecorder, clientIP string, done chan<- struct{}) {
		defer close(done)
		request := httptest.NewRequest(http.MethodPost, "/wallet-login", nil)
		request.Header.Set(constants.HeaderXRealIP, clientIP)
		router.ServeHTTP(recorder, request)
	}

	firstRecorder, firstDone := httptest.NewRecorder(), make(chan struct{})
	go serve(firstRecorder, "203.0.113.7", firstDone)
	<-api.entered

	// The second client reaches the exchange while the first is still parked,
	// so the guard did not serialize them.
	secondRecorder, secondDone := httptest.NewRecorder(), make(chan struct{})
	go serve(secondRecorder, "203.0.113.8", secondDone)
	<-api.entered

	close(api.proceed)
	<-firstDone
	<-secondDone

	assert.Equal(t, http.StatusOK, firstRecorder.Code)
	assert.Equal(t, http.StatusOK, secondRecorder.Code)
	assert.Equal(t, int32(2), api.calls.Load())
	assert.Len(t, stores.sessions, 2)
}

/*
TestWalletLogin_SessionCookie verifies a successful login sets the signed
session cookie with the browser attributes the web app depends on.
*/
func TestWalletLogin_SessionCookie(t *testing.T) {
	api := &fakeAPI{authenticated: walletAuthenticated(sec.RoleUser)}
	router := walletHandler(t, api, newMemoryStores()).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/wallet-login", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, constants.SessionCookiePath, cookie.Path)
	assert.Equal(t, int(constants.SessionTTL.Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}
