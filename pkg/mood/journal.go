package mood

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/willowmind/solace/pkg/storage"
)

var (
	ErrEntryNotFound = errors.New("mood entry not found")
	ErrInvalidLevel  = errors.New("mood level must be between 1 and 5")
)

// Journal owns the mood-entry collection. Entries are keyed by calendar
// day and persisted as a whole collection through the key-value store.
type Journal struct {
	store *storage.Store
}

func NewJournal(store *storage.Store) *Journal {
	return &Journal{store: store}
}

// Entries returns the full stored collection. An absent or unreadable
// collection degrades to empty.
func (j *Journal) Entries(ctx context.Context) []Entry {
	var entries []Entry
	j.store.Get(ctx, storage.KeyMoodEntries, &entries)
	return entries
}

// Upsert records a mood for the calendar day of at (now when at is zero).
// If that day already has an entry, its level, notes, tags and date are
// replaced while its ID is preserved; otherwise a new entry is appended.
// A failed persistence write is reported on stderr and otherwise ignored;
// the resulting entry is returned either way.
func (j *Journal) Upsert(ctx context.Context, level Level, notes string, tags []string, at time.Time) (Entry, error) {
	if !level.Valid() {
		return Entry{}, ErrInvalidLevel
	}
	if at.IsZero() {
		at = time.Now()
	}
	if tags == nil {
		tags = []string{}
	}

	entries := j.Entries(ctx)
	day := dayOf(at)

	existingIndex := -1
	for i, entry := range entries {
		if dayOf(entry.Date).Equal(day) {
			existingIndex = i
			break
		}
	}

	updated := Entry{
		ID:    uuid.New(),
		Date:  at,
		Level: level,
		Notes: notes,
		Tags:  tags,
	}

	if existingIndex >= 0 {
		updated.ID = entries[existingIndex].ID
		entries[existingIndex] = updated
	} else {
		entries = append(entries, updated)
	}

	if err := j.store.Set(ctx, storage.KeyMoodEntries, entries); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist mood entries: %v\n", err)
	}
	return updated, nil
}

// EntriesInWindow returns entries dated on or after now minus days,
// ascending by date. Only the lower bound is checked, so future-dated
// entries are included.
func (j *Journal) EntriesInWindow(ctx context.Context, days int, now time.Time) []Entry {
	cutoff := now.AddDate(0, 0, -days)

	var windowed []Entry
	for _, entry := range j.Entries(ctx) {
		if !entry.Date.Before(cutoff) {
			windowed = append(windowed, entry)
		}
	}

	sort.Slice(windowed, func(i, k int) bool {
		return windowed[i].Date.Before(windowed[k].Date)
	})
	return windowed
}

// EntryForDate returns the entry whose calendar day matches date, or
// ErrEntryNotFound.
func (j *Journal) EntryForDate(ctx context.Context, date time.Time) (Entry, error) {
	day := dayOf(date)
	for _, entry := range j.Entries(ctx) {
		if dayOf(entry.Date).Equal(day) {
			return entry, nil
		}
	}
	return Entry{}, ErrEntryNotFound
}

// Summary derives statistics from the current collection.
func (j *Journal) Summary(ctx context.Context, now time.Time) Summary {
	return Summarize(j.Entries(ctx), now)
}
