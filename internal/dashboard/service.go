// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

/*
Package dashboard serves the role-specific dashboard views.

The console does not own complaint data — it proxies the remote API's feed
and applies presentation-level filtering (search, status) the web app asks
for. Which complaints a session may see is decided remotely by the bearer
token's role.
*/
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/evidhub/console/internal/upstream"
	"github.com/evidhub/console/pkg/normtext"
	"github.com/evidhub/console/pkg/slice"
)

// ComplaintSource defines the contract for fetching the complaint feed.
//
// The concrete implementation is [upstream.Client].
type ComplaintSource interface {
	ListComplaints(context context.Context, token string) ([]upstream.Complaint, error)
}

// Statuses the remote API uses for complaints. Kept in one place so the
// HTTP boundary and tests agree.
func StatusValues() []string {
	return []string{"pending", "investigating", "resolved", "rejected"}
}

// Service implements the dashboard use cases.
type Service struct {
	source ComplaintSource
}

// NewService constructs a new [Service] with its complaint source.
func NewService(source ComplaintSource) *Service {
	return &Service{source: source}
}

// Complaint is the dashboard's presentation of one upstream complaint. The
// remote API's Mongo-style "_id" becomes a plain "id" for the web app.
type Complaint struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	Location      string    `json:"location"`
	WalletAddress string    `json:"walletAddress,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Feed is the filtered complaint list plus the per-status counters backing
// the dashboard stat cards. Counts cover the whole visible feed, not the
// current filter, so the cards stay stable while the user searches.
type Feed struct {
	Complaints []Complaint    `json:"complaints"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
}

/*
Complaints fetches and filters the complaint feed for a session.

Description: The feed is fetched with the session's bearer token, then
filtered locally. Search matches title, description, and location,
accent- and case-insensitively. Status matches exactly.

Parameters:
  - context: context.Context
  - token: string (the session's bearer credential)
  - search: string (empty matches everything)
  - status: string (empty matches everything)

Returns:
  - *Feed: the filtered feed with status counters, Complaints never nil
  - error: upstream failures
*/
func (service *Service) Complaints(context context.Context, token, search, status string) (*Feed, error) {

	complaints, err := service.source.ListComplaints(context, token)
	if err != nil {
		return nil, fmt.Errorf("dashboard_service_feed_failed: %w", err)
	}

	// Every known status appears in the counters, zero or not.
	counts := make(map[string]int, len(StatusValues()))
	for _, known := range StatusValues() {
		counts[known] = 0
	}
	counts = slice.Reduce(complaints, counts, func(accumulated map[string]int, complaint upstream.Complaint) map[string]int {
		accumulated[complaint.Status]++
		return accumulated
	})

	filtered := slice.Filter(complaints, func(complaint upstream.Complaint) bool {
		return MatchesSearch(complaint, search) && matchesStatus(complaint, status)
	})

	views := slice.Map(filtered, present)

	// The web app iterates the result; hand it an empty slice, not nil.
	if views == nil {
		views = []Complaint{}
	}

	return &Feed{Complaints: views, Counts: counts, Total: len(complaints)}, nil
}

// present converts one upstream record into its dashboard view.
func present(complaint upstream.Complaint) Complaint {
	return Complaint{
		ID:            complaint.ID,
		Title:         complaint.Title,
		Description:   complaint.Description,
		Status:        complaint.Status,
		Location:      complaint.Location,
		WalletAddress: complaint.WalletAddress,
		CreatedAt:     complaint.CreatedAt,
	}
}

// MatchesSearch reports whether the complaint matches a free-text query in
// any of its searchable fields. An empty query matches everything.
func MatchesSearch(complaint upstream.Complaint, search string) bool {
	if search == "" {
		return true
	}

	return normtext.Contains(complaint.Title, search) ||
		normtext.Contains(complaint.Description, search) ||
		normtext.Contains(complaint.Location, search)
}

// matchesStatus reports whether the complaint has the given status. An empty
// status matches everything.
func matchesStatus(complaint upstream.Complaint, status string) bool {
	return status == "" || complaint.Status == status
}
