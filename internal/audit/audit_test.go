// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package audit_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidhub/console/internal/audit"
	"github.com/evidhub/console/pkg/pagination"
)

type fakeStore struct {
	inserted  []*audit.Event
	insertErr error

	events     []audit.Event
	total      int
	listErr    error
	gotOutcome string
	gotPage    pagination.Params
}

func (store *fakeStore) Insert(_ context.Context, event *audit.Event) error {
	store.inserted = append(store.inserted, event)
	return store.insertErr
}

func (store *fakeStore) List(_ context.Context, outcome string, page pagination.Params) ([]audit.Event, int, error) {
	store.gotOutcome = outcome
	store.gotPage = page
	return store.events, store.total, store.listErr
}

/*
TestRecord verifies a recorded event carries a generated ID, a timestamp, and
the attempt's fields.
*/
func TestRecord(t *testing.T) {
	store := &fakeStore{}
	service := audit.NewService(store, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

	service.Record(context.Background(), "a@b.c", "credentials", "success", "/user-dashboard")

	require.Len(t, store.inserted, 1)
	event := store.inserted[0]
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.Equal(t, "a@b.c", event.Actor)
	assert.Equal(t, "credentials", event.Method)
	assert.Equal(t, "success", event.Outcome)
	assert.Equal(t, "/user-dashboard", event.Detail)
}

/*
TestRecord_BestEffort verifies a failing store never surfaces to the caller:
the drop is logged and swallowed.
*/
func TestRecord_BestEffort(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("connection refused")}

	var logged bytes.Buffer
	service := audit.NewService(store, slog.New(slog.NewJSONHandler(&logged, nil)))

	// Record returns nothing; the only acceptable behaviors are a stored
	// event or a logged drop — never a panic or a propagated error.
	service.Record(context.Background(), "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "wallet", "failure", "USER_REJECTED")

	require.Len(t, store.inserted, 1)
	assert.Contains(t, logged.String(), "audit_event_dropped")
	assert.Contains(t, logged.String(), "wallet")
}

/*
TestRecent verifies the listing forwards the outcome filter and page, and
builds the response metadata from the store's total.
*/
func TestRecent(t *testing.T) {
	store := &fakeStore{
		events: []audit.Event{{ID: "e1"}, {ID: "e2"}},
		total:  45,
	}
	service := audit.NewService(store, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

	events, meta, err := service.Recent(context.Background(), "failure", pagination.Params{Page: 2, Limit: 20})

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "failure", store.gotOutcome)
	assert.Equal(t, pagination.Params{Page: 2, Limit: 20}, store.gotPage)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 20, Total: 45, TotalPages: 3}, meta)
}

/*
TestRecent_StoreFailure verifies listing failures propagate — reads are not
best-effort, only writes are.
*/
func TestRecent_StoreFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection refused")}
	service := audit.NewService(store, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

	_, _, err := service.Recent(context.Background(), "", pagination.Params{Page: 1, Limit: 20})

	require.Error(t, err)
}
