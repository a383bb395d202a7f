// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

/*
Package route maps authenticated roles to their dashboard destinations.

The mapping is total over the closed role set and fails loudly for anything
else — a new role added upstream must be wired here explicitly before its
users can land anywhere.
*/
package route

import (
	"github.com/evidhub/console/internal/platform/sec"
)

// Destination is a navigable dashboard target, expressed as the path the
// web app routes to after login.
type Destination string

const (
	DestinationUser   Destination = "/user-dashboard"
	DestinationPolice Destination = "/police-dashboard"
	DestinationAdmin  Destination = "/admin-dashboard"
)

/*
DestinationFor resolves the post-login landing page for a role.

Parameters:
  - role: sec.Role

Returns:
  - Destination: the dashboard path
  - error: UNKNOWN_ROLE for anything outside the closed set
*/
func DestinationFor(role sec.Role) (Destination, error) {
	switch role {
	case sec.RoleUser:
		return DestinationUser, nil
	case sec.RolePolice:
		return DestinationPolice, nil
	case sec.RoleAdmin:
		return DestinationAdmin, nil
	default:
		return "", sec.UnknownRole(string(role))
	}
}
