// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

// Package query provides helpers for parsing loosely-structured query and
// environment values.
package query

import (
	"strings"
)

// StringSlice parses a single comma-separated string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
