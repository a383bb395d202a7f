// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package wallet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidhub/console/internal/wallet"
)

/*
TestChecksum verifies the EIP-55 encoding against the reference vectors.
*/
func TestChecksum(t *testing.T) {
	tests := []struct {
		name       string
		lowercase  string
		checksummed string
	}{
		{
			"vector_1",
			"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		},
		{
			"vector_2",
			"0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
			"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		},
		{
			"vector_3",
			"0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb",
			"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		},
		{
			"vector_4",
			"0xd1220a0cf47c7b9be7a2e6ba89f429762e7b9adb",
			"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.checksummed, wallet.Checksum(tt.lowercase))
		})
	}
}

/*
TestNormalizeAddress covers lowercase pass-through, checksum verification,
and rejection of malformed input.
*/
func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			"lowercase_accepted",
			"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			false,
		},
		{
			"uppercase_accepted",
			"0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED",
			"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			false,
		},
		{
			"valid_checksum_normalized",
			"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			false,
		},
		{
			"broken_checksum_rejected",
			"0x5Aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			"",
			true,
		},
		{
			"missing_prefix_rejected",
			"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			"",
			true,
		},
		{
			"too_short_rejected",
			"0x5aaeb6",
			"",
			true,
		},
		{
			"empty_rejected",
			"",
			"",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wallet.NormalizeAddress(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
