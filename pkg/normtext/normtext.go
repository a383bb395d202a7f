// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

// Package normtext folds arbitrary Unicode strings for search matching.
//
// # Usage
//
// The dashboard search box must find "Sao Paulo" inside "São Paulo" and
// "POLICE" inside "police". This package handles normalization, accent
// removal, and case folding so comparisons reduce to plain substring checks.
package normtext

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold converts a Unicode string into its accent-free, lowercase form.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, s)
	if err != nil {
		// Fall back to case folding alone rather than dropping the value.
		result = s
	}

	return strings.ToLower(result)
}

// Contains reports whether needle occurs in haystack after both are folded.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
