package mood

import (
	"time"

	"github.com/google/uuid"
)

// Level is a mood rating on a five-point scale.
type Level int

const (
	VeryLow   Level = 1
	Low       Level = 2
	Neutral   Level = 3
	Good      Level = 4
	Excellent Level = 5
)

func (l Level) Valid() bool {
	return l >= VeryLow && l <= Excellent
}

func (l Level) Label() string {
	switch l {
	case VeryLow:
		return "Very Low"
	case Low:
		return "Low"
	case Neutral:
		return "Neutral"
	case Good:
		return "Good"
	case Excellent:
		return "Excellent"
	default:
		return "Unknown"
	}
}

// Color returns the hex color used when rendering this level.
func (l Level) Color() string {
	switch l {
	case VeryLow:
		return "#ef4444"
	case Low:
		return "#f97316"
	case Neutral:
		return "#eab308"
	case Good:
		return "#84cc16"
	case Excellent:
		return "#22c55e"
	default:
		return "#94a3b8"
	}
}

// Entry is a single day's mood record. At most one entry exists per
// calendar day; a write for an already-recorded day replaces the entry's
// fields in place while keeping its ID.
type Entry struct {
	ID    uuid.UUID `json:"id"`
	Date  time.Time `json:"date"`
	Level Level     `json:"level"`
	Notes string    `json:"notes"`
	Tags  []string  `json:"tags"`
}

// Summary holds statistics derived on demand from the full entry
// collection. It is never persisted.
type Summary struct {
	AverageLevel     float64 `json:"average_level"`
	TotalEntries     int     `json:"total_entries"`
	StreakDays       int     `json:"streak_days"`
	ImprovementRate  float64 `json:"improvement_rate"`
	VariabilityScore float64 `json:"variability_score"`
	HabitConsistency float64 `json:"habit_consistency"`
}
