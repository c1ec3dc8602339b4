package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

// Fixed keys under which all application state is persisted. Every value is
// a whole JSON document, written atomically as a single row.
const (
	KeyChats       = "solace_chat_histories"
	KeyCurrentChat = "solace_current_chat"
	KeyUserContext = "solace_user_context"
	KeyMoodEntries = "solace_mood_entries"
	KeyAPIKey      = "solace_api_key"
	KeyAPIBaseURL  = "solace_api_base_url"
)

const (
	getStatement = `
	SELECT value FROM solace_kv WHERE key = ?
	`

	setStatement = `
	INSERT INTO solace_kv (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()
	`
)

// Store is a string-keyed client over the solace_kv table. Reads tolerate
// absent keys and malformed values: callers always receive a usable zero
// value, and corruption is reported on stderr rather than returned. A read
// failure is never fatal to the caller.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get unmarshals the value stored under key into out, which must be a
// pointer. It reports whether a well-formed value was found; when it
// returns false, out is left untouched (the caller's zero value stands in
// as the empty default).
func (s *Store) Get(ctx context.Context, key string, out any) bool {
	var raw string
	err := s.db.QueryRowContext(ctx, getStatement, key).Scan(&raw)
	if err != nil {
		if err != sql.ErrNoRows {
			fmt.Fprintf(os.Stderr, "Warning: failed to read key %q: %v\n", key, err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: malformed value under key %q, using empty default: %v\n", key, err)
		return false
	}
	return true
}

// Set serializes v as JSON and writes it under key, replacing any previous
// value in a single upsert.
func (s *Store) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize value for key %q: %w", key, err)
	}
	if _, err := s.db.ExecContext(ctx, setStatement, key, string(raw)); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// APIKey returns the stored API credential override, or "" when none is set.
func (s *Store) APIKey(ctx context.Context) string {
	var key string
	s.Get(ctx, KeyAPIKey, &key)
	return key
}

func (s *Store) SaveAPIKey(ctx context.Context, key string) error {
	return s.Set(ctx, KeyAPIKey, key)
}

// APIBaseURL returns the stored endpoint override, or "" when none is set.
func (s *Store) APIBaseURL(ctx context.Context) string {
	var u string
	s.Get(ctx, KeyAPIBaseURL, &u)
	return u
}

func (s *Store) SaveAPIBaseURL(ctx context.Context, u string) error {
	return s.Set(ctx, KeyAPIBaseURL, u)
}
