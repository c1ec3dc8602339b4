package mood

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

// entryOn builds a minimal entry dated at the given time.
func entryOn(t *testing.T, at time.Time, level Level) Entry {
	t.Helper()
	return Entry{
		ID:    uuid.New(),
		Date:  at,
		Level: level,
		Notes: "",
		Tags:  []string{},
	}
}

// consecutiveEntries builds one entry per day walking backward from start.
func consecutiveEntries(t *testing.T, start time.Time, days int, level Level) []Entry {
	t.Helper()
	entries := make([]Entry, 0, days)
	for i := 0; i < days; i++ {
		entries = append(entries, entryOn(t, start.AddDate(0, 0, -i), level))
	}
	return entries
}

func TestStreakEmpty(t *testing.T) {
	if got := Streak(nil); got != 0 {
		t.Errorf("Expected streak 0 for empty collection, got %d", got)
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	latest := time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)
	entries := consecutiveEntries(t, latest, 3, Good)

	if got := Streak(entries); got != 3 {
		t.Errorf("Expected streak 3 for 3 consecutive days, got %d", got)
	}
}

func TestStreakCappedByGap(t *testing.T) {
	latest := time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)
	entries := consecutiveEntries(t, latest, 3, Good)
	// Older run separated by a 2-day gap must not extend the streak.
	entries = append(entries, consecutiveEntries(t, latest.AddDate(0, 0, -5), 4, Neutral)...)

	if got := Streak(entries); got != 3 {
		t.Errorf("Expected gap to cap streak at 3, got %d", got)
	}
}

func TestStreakIgnoresTimeOfDay(t *testing.T) {
	entries := []Entry{
		entryOn(t, time.Date(2026, 3, 10, 23, 59, 0, 0, time.Local), Good),
		entryOn(t, time.Date(2026, 3, 9, 0, 1, 0, 0, time.Local), Low),
	}

	if got := Streak(entries); got != 2 {
		t.Errorf("Expected day-granularity comparison to yield streak 2, got %d", got)
	}
}

func TestStreakAnchorsOnLatestEntryNotToday(t *testing.T) {
	// A stale journal still reports the streak of its most recent run.
	latest := time.Now().AddDate(0, 0, -10)
	entries := consecutiveEntries(t, latest, 2, Neutral)

	if got := Streak(entries); got != 2 {
		t.Errorf("Expected stale anchor to keep streak 2, got %d", got)
	}
}

func TestImprovementRateBelowFloor(t *testing.T) {
	latest := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	entries := consecutiveEntries(t, latest, 7, Excellent)

	if got := ImprovementRate(entries); got != 0 {
		t.Errorf("Expected exactly 0 for fewer than 8 entries, got %f", got)
	}
}

func TestImprovementRateRecentVersusPrevious(t *testing.T) {
	latest := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	// Recent 7 at level 4, previous 7 at level 2: (4-2)/2*100 = 100%.
	entries := consecutiveEntries(t, latest, 7, Good)
	entries = append(entries, consecutiveEntries(t, latest.AddDate(0, 0, -7), 7, Low)...)

	got := ImprovementRate(entries)
	if math.Abs(got-100) > 1e-9 {
		t.Errorf("Expected improvement rate 100, got %f", got)
	}
}

func TestImprovementRateShortPreviousWindow(t *testing.T) {
	latest := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	// 8 entries: the previous window holds a single entry.
	entries := consecutiveEntries(t, latest, 7, Good)
	entries = append(entries, entryOn(t, latest.AddDate(0, 0, -7), Low))

	got := ImprovementRate(entries)
	if math.Abs(got-100) > 1e-9 {
		t.Errorf("Expected improvement rate 100 with a 1-entry previous window, got %f", got)
	}
}

func TestVariabilityDegenerate(t *testing.T) {
	if got := Variability(nil); got != 0 {
		t.Errorf("Expected exactly 0 for no entries, got %f", got)
	}

	single := []Entry{entryOn(t, time.Now(), Neutral)}
	if got := Variability(single); got != 0 {
		t.Errorf("Expected exactly 0 for a single entry, got %f", got)
	}
}

func TestVariabilitySampleStdDev(t *testing.T) {
	now := time.Now()
	entries := []Entry{
		entryOn(t, now, VeryLow),
		entryOn(t, now.AddDate(0, 0, -1), Excellent),
	}

	// Sample standard deviation of [1, 5] is sqrt(8) ≈ 2.828.
	got := Variability(entries)
	want := math.Sqrt(8)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected variability %f, got %f", want, got)
	}
}

func TestHabitConsistencyWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	entries := []Entry{
		entryOn(t, now, Good),
		entryOn(t, now.AddDate(0, 0, -1), Good),
		entryOn(t, now.AddDate(0, 0, -2), Good),
		// Outside the 30-day window, must not count.
		entryOn(t, now.AddDate(0, 0, -40), Good),
	}

	got := HabitConsistency(entries, now)
	want := 3.0 / 30 * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected habit consistency %f, got %f", want, got)
	}
}

func TestHabitConsistencyFullWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	entries := consecutiveEntries(t, now, 30, Neutral)

	got := HabitConsistency(entries, now)
	if math.Abs(got-100) > 1e-9 {
		t.Errorf("Expected habit consistency 100 for a full window, got %f", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, time.Now())
	if summary != (Summary{}) {
		t.Errorf("Expected all-zero summary for empty collection, got %+v", summary)
	}
}

func TestSummarizeAggregates(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	entries := []Entry{
		entryOn(t, now, Low),
		entryOn(t, now.AddDate(0, 0, -1), Good),
	}

	summary := Summarize(entries, now)

	if summary.TotalEntries != len(entries) {
		t.Errorf("Expected total entries %d, got %d", len(entries), summary.TotalEntries)
	}
	if math.Abs(summary.AverageLevel-3.0) > 1e-9 {
		t.Errorf("Expected average level 3.0, got %f", summary.AverageLevel)
	}
	if summary.StreakDays != 2 {
		t.Errorf("Expected streak 2, got %d", summary.StreakDays)
	}
	if summary.ImprovementRate != 0 {
		t.Errorf("Expected improvement rate 0 below the entry floor, got %f", summary.ImprovementRate)
	}
}
