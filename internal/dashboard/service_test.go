// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidhub/console/internal/dashboard"
	"github.com/evidhub/console/internal/upstream"
)

type fakeSource struct {
	complaints []upstream.Complaint
	err        error
	token      string
}

func (source *fakeSource) ListComplaints(_ context.Context, token string) ([]upstream.Complaint, error) {
	source.token = token
	return source.complaints, source.err
}

func feed() []upstream.Complaint {
	return []upstream.Complaint{
		{ID: "c1", Title: "Noise at night", Description: "Loud construction", Location: "São Paulo", Status: "pending"},
		{ID: "c2", Title: "Pothole", Description: "Dangerous road damage", Location: "Main Street", Status: "resolved"},
		{ID: "c3", Title: "Broken lamp", Description: "Streetlight out near the park", Location: "Sao Paulo", Status: "pending"},
	}
}

func ids(complaints []dashboard.Complaint) []string {
	result := make([]string, 0, len(complaints))
	for _, complaint := range complaints {
		result = append(result, complaint.ID)
	}
	return result
}

/*
TestComplaints_Search verifies the search filter is accent- and
case-insensitive across title, description, and location.
*/
func TestComplaints_Search(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"empty_matches_all", "", []string{"c1", "c2", "c3"}},
		{"title_case_insensitive", "NOISE", []string{"c1"}},
		{"description_match", "road", []string{"c2"}},
		{"accent_insensitive_location", "sao paulo", []string{"c1", "c3"}},
		{"accented_query_unaccented_data", "São", []string{"c1", "c3"}},
		{"no_match", "flooding", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := dashboard.NewService(&fakeSource{complaints: feed()})

			result, err := service.Complaints(context.Background(), "bearer-abc", tt.search, "")
			require.NoError(t, err)

			assert.Equal(t, tt.want, ids(result.Complaints))
		})
	}
}

/*
TestComplaints_Status verifies exact status filtering combined with search.
*/
func TestComplaints_Status(t *testing.T) {
	service := dashboard.NewService(&fakeSource{complaints: feed()})

	result, err := service.Complaints(context.Background(), "bearer-abc", "paulo", "pending")
	require.NoError(t, err)

	require.Len(t, result.Complaints, 2)
	assert.Equal(t, "c1", result.Complaints[0].ID)
	assert.Equal(t, "c3", result.Complaints[1].ID)

	result, err = service.Complaints(context.Background(), "bearer-abc", "", "resolved")
	require.NoError(t, err)
	require.Len(t, result.Complaints, 1)
	assert.Equal(t, "c2", result.Complaints[0].ID)
}

/*
TestComplaints_Counts verifies the stat-card counters cover the whole visible
feed regardless of the active filter, with every known status present.
*/
func TestComplaints_Counts(t *testing.T) {
	service := dashboard.NewService(&fakeSource{complaints: feed()})

	result, err := service.Complaints(context.Background(), "bearer-abc", "pothole", "resolved")
	require.NoError(t, err)

	// The filter narrowed the list, not the counters.
	require.Len(t, result.Complaints, 1)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, map[string]int{
		"pending":       2,
		"investigating": 0,
		"resolved":      1,
		"rejected":      0,
	}, result.Counts)
}

/*
TestComplaints_TokenForwarded verifies the session's bearer token is what
reaches the remote API.
*/
func TestComplaints_TokenForwarded(t *testing.T) {
	source := &fakeSource{complaints: feed()}
	service := dashboard.NewService(source)

	_, err := service.Complaints(context.Background(), "bearer-xyz", "", "")
	require.NoError(t, err)

	assert.Equal(t, "bearer-xyz", source.token)
}

/*
TestComplaints_EmptyNeverNil verifies an all-filtered feed comes back as an
empty slice, not nil.
*/
func TestComplaints_EmptyNeverNil(t *testing.T) {
	service := dashboard.NewService(&fakeSource{complaints: nil})

	result, err := service.Complaints(context.Background(), "bearer-abc", "", "")
	require.NoError(t, err)

	require.NotNil(t, result.Complaints)
	assert.Empty(t, result.Complaints)
	assert.Zero(t, result.Total)
}
