// Package export serializes stored collections into JSON and CSV blobs
// suitable for writing out under a caller-supplied filename.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/willowmind/solace/pkg/chat"
	"github.com/willowmind/solace/pkg/mood"
)

// csvDateLayout renders dates the way a locale display string does,
// rather than ISO.
const csvDateLayout = "1/2/2006, 3:04:05 PM"

// MoodJSON serializes the mood-entry collection, pretty-printed.
func MoodJSON(entries []mood.Entry) (string, error) {
	return marshalIndented(entries)
}

// ChatJSON serializes the conversation collection, pretty-printed.
func ChatJSON(conversations []chat.Conversation) (string, error) {
	return marshalIndented(conversations)
}

// AllJSON bundles both collections under named keys.
func AllJSON(entries []mood.Entry, conversations []chat.Conversation) (string, error) {
	return marshalIndented(map[string]any{
		"mood_entries":   entries,
		"chat_histories": conversations,
	})
}

func marshalIndented(v any) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize export: %w", err)
	}
	return string(raw), nil
}

// MoodCSV renders entries as comma-separated rows with the fixed column
// order Date, Mood Level, Notes, Tags. An empty collection yields an
// empty string, not a header-only file.
func MoodCSV(entries []mood.Entry) string {
	if len(entries) == 0 {
		return ""
	}

	rows := make([]string, 0, len(entries)+1)
	rows = append(rows, "Date,Mood Level,Notes,Tags")

	for _, entry := range entries {
		fields := []string{
			entry.Date.Local().Format(csvDateLayout),
			fmt.Sprintf("%d", entry.Level),
			quote(entry.Notes),
			quote(strings.Join(entry.Tags, ",")),
		}
		rows = append(rows, strings.Join(fields, ","))
	}

	return strings.Join(rows, "\n")
}

// quote wraps a field in double quotes, doubling internal quotes per
// standard CSV escaping.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// ChartSeries extracts ascending date labels and levels for plotting.
func ChartSeries(entries []mood.Entry) ([]string, []mood.Level) {
	sorted := make([]mood.Entry, len(entries))
	copy(sorted, entries)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Date.Before(sorted[j-1].Date); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	dates := make([]string, 0, len(sorted))
	levels := make([]mood.Level, 0, len(sorted))
	for _, entry := range sorted {
		dates = append(dates, entry.Date.Local().Format("1/2/2006"))
		levels = append(levels, entry.Level)
	}
	return dates, levels
}

// WriteFile stores an exported blob under the caller-supplied filename.
func WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write export file '%s': %w", path, err)
	}
	return nil
}
