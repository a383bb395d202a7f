// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evidhub/console/pkg/pagination"
)

// PostgresStore implements the [Store] interface using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert persists a new event record into the audit.event table.
func (store *PostgresStore) Insert(ctx context.Context, event *Event) error {
	const query = `
		INSERT INTO audit.event (
			id, actor, method, outcome, detail, createdat
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := store.pool.Exec(ctx, query,
		event.ID,
		event.Actor,
		event.Method,
		event.Outcome,
		event.Detail,
		event.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_audit_store_insert_failed: %w", err)
	}

	return nil
}

// List retrieves one page of events, newest first.
//
// UUIDv7 IDs sort by creation time, so ordering by id descending is both
// correct and index-friendly.
func (store *PostgresStore) List(ctx context.Context, outcome string, page pagination.Params) ([]Event, int, error) {

	const countQuery = `
		SELECT COUNT(*)
		FROM audit.event
		WHERE ($1 = '' OR outcome = $1)`

	var total int
	if err := store.pool.QueryRow(ctx, countQuery, outcome).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_audit_store_count_failed: %w", err)
	}

	const query = `
		SELECT id, actor, method, outcome, detail, createdat
		FROM audit.event
		WHERE ($1 = '' OR outcome = $1)
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(ctx, query, outcome, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_audit_store_list_failed: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, page.Limit)
	for rows.Next() {
		var event Event
		if err := rows.Scan(
			&event.ID,
			&event.Actor,
			&event.Method,
			&event.Outcome,
			&event.Detail,
			&event.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_audit_store_scan_failed: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_audit_store_rows_failed: %w", err)
	}

	return events, total, nil
}
