// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

// Package sec provides security primitives for the console: the closed role
// set and the signed browser session cookie.
//
// # Architecture
//
// This package isolates security-sensitive code from the domain logic. Roles
// are never guessed or defaulted here — parsing an unknown value is an error
// the caller must treat as a contract violation.
package sec

import (
	"fmt"
	"net/http"

	"github.com/evidhub/console/internal/platform/apperr"
)

// # User Roles

// Role represents the authorization level assigned by the upstream API.
type Role string

const (
	// Unrestricted console access, including the audit trail
	RoleAdmin Role = "admin"

	// Can review and process complaints assigned to their precinct
	RolePolice Role = "police"

	// Default role for citizens filing and tracking complaints
	RoleUser Role = "user"
)

// ParseRole validates a raw role string against the closed set.
//
// # Trust Boundary
//
// The upstream API is the sole authority for role assignment. Any value
// outside {user, police, admin} — including the empty string — indicates a
// malformed or unexpected response and is rejected with UNKNOWN_ROLE rather
// than being coerced to a default.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RolePolice, RoleUser:
		return Role(raw), nil
	default:
		return "", UnknownRole(raw)
	}
}

// UnknownRole builds the UNKNOWN_ROLE contract-violation error.
func UnknownRole(raw string) *apperr.AppError {
	return &apperr.AppError{
		Code:       "UNKNOWN_ROLE",
		Message:    "Received an unrecognized role from the authentication service",
		HTTPStatus: http.StatusBadGateway,
		Cause:      fmt.Errorf("sec: role %q is not in the closed set", raw),
	}
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RolePolice:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
