// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/evidhub/console/internal/platform/constants"
	"github.com/evidhub/console/internal/platform/sec"
)

// # Redis-backed Browser Sessions

// RedisStores implements [Factory] over a shared Redis client.
//
// Each browser session is a single hash under console:session:<sid>. Using
// one hash per client keeps Write atomic: a single HSET call either lands
// all fields or none of them.
type RedisStores struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStores creates a Redis-backed session store factory.
func NewRedisStores(client *redis.Client, ttl time.Duration) *RedisStores {
	return &RedisStores{client: client, ttl: ttl}
}

// For returns the [Store] scoped to the given browser session ID.
func (stores *RedisStores) For(sessionID string) Store {
	return &redisStore{client: stores.client, ttl: stores.ttl, sessionID: sessionID}
}

type redisStore struct {
	client    *redis.Client
	ttl       time.Duration
	sessionID string
}

// key builds the Redis hash key for this client.
func (store *redisStore) key() string {
	return constants.RedisPrefixSession + store.sessionID
}

/*
Write persists all session fields in a single HSET.

Description: The hash is written with one command and its TTL refreshed in a
pipeline, so readers either see the complete session or the previous state.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Invariant violations or Redis failures
*/
func (store *redisStore) Write(context context.Context, session *Session) error {

	// Enforce invariants before any storage side effect.
	if err := session.Validate(); err != nil {
		return err
	}

	fields := map[string]any{
		constants.SessionFieldToken:           session.Token,
		constants.SessionFieldRole:            string(session.Role),
		constants.SessionFieldUserID:          session.UserID,
		constants.SessionFieldEmail:           session.Email,
		constants.SessionFieldWalletAddress:   session.Address,
		constants.SessionFieldIsAuthenticated: "true",
	}

	// Single round-trip: HSET is atomic per key, EXPIRE rides the pipeline.
	pipeline := store.client.TxPipeline()
	pipeline.HSet(context, store.key(), fields)
	pipeline.Expire(context, store.key(), store.ttl)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_write_failed: %w", err)
	}

	return nil
}

/*
Read returns the stored session, or nil when absent or incomplete.

Parameters:
  - context: context.Context

Returns:
  - *Session: Hydrated session, or nil
  - error: Redis failures
*/
func (store *redisStore) Read(context context.Context) (*Session, error) {

	values, err := store.client.HGetAll(context, store.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_session_read_failed: %w", err)
	}

	// HGetAll returns an empty map for a missing key.
	if len(values) == 0 {
		return nil, nil
	}

	// A record missing token or role is never treated as authenticated,
	// and a role outside the closed set is treated as absent, not coerced.
	role, err := sec.ParseRole(values[constants.SessionFieldRole])
	if values[constants.SessionFieldToken] == "" || err != nil {
		return nil, nil
	}

	return &Session{
		Token:   values[constants.SessionFieldToken],
		Role:    role,
		UserID:  values[constants.SessionFieldUserID],
		Email:   values[constants.SessionFieldEmail],
		Address: values[constants.SessionFieldWalletAddress],
	}, nil
}

/*
Clear deletes the whole session hash.

Description: DEL is atomic and idempotent — clearing an already-clean store
is a no-op that leaves the same null-read state.

Parameters:
  - context: context.Context

Returns:
  - error: Redis failures
*/
func (store *redisStore) Clear(context context.Context) error {
	if err := store.client.Del(context, store.key()).Err(); err != nil {
		return fmt.Errorf("redis_session_clear_failed: %w", err)
	}
	return nil
}
