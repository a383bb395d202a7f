// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

/*
Package audit implements the authentication audit trail.

Every login, registration, and logout attempt — successful or not — leaves
one durable event. The trail exists for the admins reviewing who reached
the console and how, so writes are best-effort: a broken audit store must
never lock users out.
*/
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/evidhub/console/pkg/pagination"
	"github.com/evidhub/console/pkg/uuidv7"
)

// Event is one recorded authentication attempt.
type Event struct {
	// ID is a time-sortable UUIDv7, making the table naturally ordered.
	ID string `json:"id"`

	// Actor identifies who attempted: a wallet address, an email, or empty
	// when the attempt failed before an identity was established.
	Actor string `json:"actor"`

	// Method is how authentication was attempted (wallet, credentials,
	// register, logout).
	Method string `json:"method"`

	// Outcome is success or failure.
	Outcome string `json:"outcome"`

	// Detail carries the failure code or the landing destination.
	Detail string `json:"detail,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Store defines the durable storage contract for audit events.
type Store interface {
	// Insert persists one event.
	Insert(context context.Context, event *Event) error

	// List returns one page of events, newest first, optionally filtered by
	// outcome, together with the total match count.
	List(context context.Context, outcome string, page pagination.Params) ([]Event, int, error)
}

// Service records events and serves the admin review listing.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Record persists one authentication event.
//
// # Best Effort
//
// Failures are logged and swallowed. The user-facing operation that
// triggered the event has already succeeded or failed on its own terms.
func (service *Service) Record(context context.Context, actor, method, outcome, detail string) {
	event := &Event{
		ID:        uuidv7.New(),
		Actor:     actor,
		Method:    method,
		Outcome:   outcome,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	if err := service.store.Insert(context, event); err != nil {
		service.logger.ErrorContext(context, "audit_event_dropped",
			slog.String("method", method),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)
	}
}

// Recent returns one page of the newest events for the admin review screen.
func (service *Service) Recent(context context.Context, outcome string, page pagination.Params) ([]Event, pagination.Meta, error) {
	events, total, err := service.store.List(context, outcome, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return events, pagination.NewMeta(page.Page, page.Limit, total), nil
}
