// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/evidhub/console/internal/platform/sec"
)

// # File-backed Operator Profile

// FileStore implements [Store] as a single JSON profile on disk.
//
// It backs headless tooling where one operator owns the whole process, so
// there is no per-client scoping. The on-disk field names match the
// persisted session field contract exactly.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed session store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// profileRecord is the exact on-disk shape of the persisted session.
type profileRecord struct {
	Token           string `json:"token"`
	Role            string `json:"role"`
	UserID          string `json:"userID"`
	Email           string `json:"userEmail,omitempty"`
	WalletAddress   string `json:"walletAddress,omitempty"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

/*
Write persists the session with a write-then-rename.

Description: The profile is serialized to a temporary file in the same
directory and atomically renamed over the target, so a concurrent reader
sees either the old profile or the new one — never a torn write.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Invariant violations or filesystem failures
*/
func (store *FileStore) Write(_ context.Context, session *Session) error {

	// Enforce invariants before any storage side effect.
	if err := session.Validate(); err != nil {
		return err
	}

	record := profileRecord{
		Token:           session.Token,
		Role:            string(session.Role),
		UserID:          session.UserID,
		Email:           session.Email,
		WalletAddress:   session.Address,
		IsAuthenticated: true,
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("file_session_marshal_failed: %w", err)
	}

	directory := filepath.Dir(store.path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("file_session_mkdir_failed: %w", err)
	}

	// Write to a sibling temp file, then rename. Rename within one
	// directory is atomic on POSIX filesystems.
	temporary, err := os.CreateTemp(directory, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("file_session_temp_failed: %w", err)
	}

	if _, err := temporary.Write(payload); err != nil {
		_ = temporary.Close()
		_ = os.Remove(temporary.Name())
		return fmt.Errorf("file_session_write_failed: %w", err)
	}
	if err := temporary.Close(); err != nil {
		_ = os.Remove(temporary.Name())
		return fmt.Errorf("file_session_close_failed: %w", err)
	}

	if err := os.Rename(temporary.Name(), store.path); err != nil {
		_ = os.Remove(temporary.Name())
		return fmt.Errorf("file_session_rename_failed: %w", err)
	}

	return nil
}

/*
Read returns the stored session, or nil when absent or incomplete.

Parameters:
  - context: context.Context

Returns:
  - *Session: Hydrated session, or nil
  - error: Filesystem failures
*/
func (store *FileStore) Read(_ context.Context) (*Session, error) {

	payload, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("file_session_read_failed: %w", err)
	}

	var record profileRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		// A corrupt profile is treated as unauthenticated, not fatal.
		return nil, nil
	}

	// A record missing token or role is never treated as authenticated,
	// and a role outside the closed set is treated as absent, not coerced.
	role, err := sec.ParseRole(record.Role)
	if record.Token == "" || err != nil {
		return nil, nil
	}

	return &Session{
		Token:   record.Token,
		Role:    role,
		UserID:  record.UserID,
		Email:   record.Email,
		Address: record.WalletAddress,
	}, nil
}

/*
Clear removes the profile file.

Description: Idempotent — a missing file already satisfies the post-condition.

Parameters:
  - context: context.Context

Returns:
  - error: Filesystem failures other than absence
*/
func (store *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file_session_clear_failed: %w", err)
	}
	return nil
}
