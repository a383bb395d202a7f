// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package upstream

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// # Complaint Feed

// Complaint is one complaint record as served by the remote API. The console
// never mutates complaints; it only lists and filters them for the dashboards.
type Complaint struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	Location      string    `json:"location"`
	WalletAddress string    `json:"walletAddress,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

/*
ListComplaints fetches the complaint feed visible to the bearer of the token.

Description: GETs /api/complaints. Which complaints are visible is decided
by the remote API based on the token's role; the console applies no
visibility rules of its own.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - []Complaint: the visible complaints
  - error: SESSION_INVALID when the token is rejected, AUTH_FAILED otherwise
*/
func (client *Client) ListComplaints(context context.Context, token string) ([]Complaint, error) {

	var complaints []Complaint
	if err := client.do(context, http.MethodGet, "/api/complaints", token, nil, &complaints); err != nil {
		var remote *remoteError
		if errors.As(err, &remote) {
			if remote.status == http.StatusUnauthorized {
				return nil, SessionInvalid()
			}
			return nil, AuthFailed(remote)
		}
		return nil, AuthFailed(err)
	}

	return complaints, nil
}
