package mood

import (
	"math"
	"sort"
	"time"
)

const (
	// improvementRateFloor is the minimum number of entries before an
	// improvement rate is computed; below it the ratio is statistically
	// meaningless and reported as 0.
	improvementRateFloor = 7 + 1

	// consistencyWindowDays is the size of the habit-consistency window.
	consistencyWindowDays = 30
)

// dayOf truncates a timestamp to its local calendar day.
func dayOf(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func sortedByDateDesc(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}

func meanLevel(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, entry := range entries {
		sum += float64(entry.Level)
	}
	return sum / float64(len(entries))
}

// Streak counts consecutive calendar days with an entry, walking backward
// from the most recent entry's day. The anchor is the latest entry's date,
// not necessarily today, so a streak stays nonzero even when the journal
// has gone stale for a few days.
func Streak(entries []Entry) int {
	if len(entries) == 0 {
		return 0
	}

	sorted := sortedByDateDesc(entries)

	streak := 1
	currentDay := dayOf(sorted[0].Date)

	for _, entry := range sorted[1:] {
		entryDay := dayOf(entry.Date)
		prevDay := currentDay.AddDate(0, 0, -1)

		if !entryDay.Equal(prevDay) {
			break
		}
		streak++
		currentDay = entryDay
	}

	return streak
}

// ImprovementRate compares the mean level of the 7 most recent entries
// against the 7 before them and returns the percentage change. The windows
// are index-based over entries sorted by date, not calendar weeks. Fewer
// than 8 entries yields 0.
func ImprovementRate(entries []Entry) float64 {
	if len(entries) < improvementRateFloor {
		return 0
	}

	sorted := sortedByDateDesc(entries)

	recentWeek := sorted[:7]
	previousWeek := sorted[7:]
	if len(previousWeek) > 7 {
		previousWeek = previousWeek[:7]
	}

	recentAvg := meanLevel(recentWeek)
	previousAvg := meanLevel(previousWeek)
	if previousAvg == 0 {
		return 0
	}

	return (recentAvg - previousAvg) / previousAvg * 100
}

// Variability is the sample standard deviation of all levels. Fewer than
// two entries yields 0.
func Variability(entries []Entry) float64 {
	if len(entries) < 2 {
		return 0
	}

	mean := meanLevel(entries)
	sumSquares := 0.0
	for _, entry := range entries {
		diff := float64(entry.Level) - mean
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(entries)-1))
}

// HabitConsistency is the share of days, within the inclusive 30-day
// window ending on now's calendar day, that have at least one entry,
// as a percentage 0-100.
func HabitConsistency(entries []Entry, now time.Time) float64 {
	if len(entries) == 0 {
		return 0
	}

	end := dayOf(now)
	start := end.AddDate(0, 0, -(consistencyWindowDays - 1))

	daysWithEntry := map[time.Time]bool{}
	for _, entry := range entries {
		day := dayOf(entry.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		daysWithEntry[day] = true
	}

	consistency := float64(len(daysWithEntry)) / consistencyWindowDays * 100
	if consistency > 100 {
		consistency = 100
	}
	return consistency
}

// Summarize derives the full statistics set from an entry collection.
// An empty collection yields an all-zero Summary.
func Summarize(entries []Entry, now time.Time) Summary {
	if len(entries) == 0 {
		return Summary{}
	}

	return Summary{
		AverageLevel:     meanLevel(entries),
		TotalEntries:     len(entries),
		StreakDays:       Streak(entries),
		ImprovementRate:  ImprovementRate(entries),
		VariabilityScore: Variability(entries),
		HabitConsistency: HabitConsistency(entries, now),
	}
}
