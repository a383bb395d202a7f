// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package wallet

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

// addressRegex matches a 0x-prefixed, 20-byte hex account address.
var addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// # Address Normalization

/*
NormalizeAddress validates an account address and returns its canonical
lowercase form.

Description: All-lowercase and all-uppercase inputs carry no checksum and are
accepted as-is. Mixed-case inputs are EIP-55 encoded and their checksum is
verified with Keccak-256 — a failed checksum almost always means a mangled
copy/paste, which must never become an acting identity.

Parameters:
  - address: string

Returns:
  - string: Lowercase hex address
  - error: Malformed or checksum-violating input
*/
func NormalizeAddress(address string) (string, error) {
	if !addressRegex.MatchString(address) {
		return "", fmt.Errorf("wallet: malformed account address %q", address)
	}

	hexPart := address[2:]
	lower := strings.ToLower(hexPart)
	upper := strings.ToUpper(hexPart)

	// No checksum information present.
	if hexPart == lower || hexPart == upper {
		return "0x" + lower, nil
	}

	// Mixed case: the casing IS the checksum.
	if Checksum("0x"+lower) != address {
		return "", fmt.Errorf("wallet: address checksum mismatch for %q", address)
	}

	return "0x" + lower, nil
}

/*
Checksum returns the EIP-55 checksummed form of a lowercase hex address.

Description: The Keccak-256 hash of the lowercase hex string decides the
casing: a hex letter is uppercased when the corresponding hash nibble is 8 or
above.

Parameters:
  - address: string (0x-prefixed, lowercase)

Returns:
  - string: Checksummed address
*/
func Checksum(address string) string {
	lower := strings.ToLower(strings.TrimPrefix(address, "0x"))

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(lower))
	hash := hasher.Sum(nil)

	checksummed := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		character := lower[i]

		// Digits never change case.
		if character >= '0' && character <= '9' {
			checksummed[i] = character
			continue
		}

		// Each address character maps to one nibble of the hash.
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}

		if nibble >= 8 {
			checksummed[i] = character - ('a' - 'A')
		} else {
			checksummed[i] = character
		}
	}

	return "0x" + string(checksummed)
}
