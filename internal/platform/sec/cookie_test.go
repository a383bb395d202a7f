// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidhub/console/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewCookieSigner_RejectsShortSecret(t *testing.T) {
	_, err := sec.NewCookieSigner("too-short", "console.test")
	require.Error(t, err)
}

func TestCookieSigner_RoundTrip(t *testing.T) {
	signer, err := sec.NewCookieSigner(testSecret, "console.test")
	require.NoError(t, err)

	value, err := signer.Issue("sid-123", time.Hour)
	require.NoError(t, err)

	sessionID, err := signer.Verify(value)
	require.NoError(t, err)
	assert.Equal(t, "sid-123", sessionID)
}

func TestCookieSigner_RejectsTampering(t *testing.T) {
	signer, err := sec.NewCookieSigner(testSecret, "console.test")
	require.NoError(t, err)

	value, err := signer.Issue("sid-123", time.Hour)
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(value, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + parts[2][:len(parts[2])-2] + "xx"

	_, err = signer.Verify(tampered)
	require.Error(t, err)
}

func TestCookieSigner_RejectsOtherSecret(t *testing.T) {
	signer, err := sec.NewCookieSigner(testSecret, "console.test")
	require.NoError(t, err)

	other, err := sec.NewCookieSigner("ffffffffffffffffffffffffffffffff", "console.test")
	require.NoError(t, err)

	value, err := other.Issue("sid-123", time.Hour)
	require.NoError(t, err)

	_, err = signer.Verify(value)
	require.Error(t, err)
}

func TestCookieSigner_RejectsExpired(t *testing.T) {
	signer, err := sec.NewCookieSigner(testSecret, "console.test")
	require.NoError(t, err)

	value, err := signer.Issue("sid-123", -time.Minute)
	require.NoError(t, err)

	_, err = signer.Verify(value)
	require.Error(t, err)
}
