package chat

import "time"

const (
	// DefaultTitle is the sentinel a conversation starts with. The title is
	// derived exactly once, on the first assistant reply, and never
	// overwritten afterwards.
	DefaultTitle = "New Conversation"

	titleMaxRunes = 30
)

// DeriveTitle builds a conversation title from the first user message:
// its first 30 characters, ellipsized when truncated. Without a user
// message the title falls back to a date stamp.
func DeriveTitle(messages []Message, now time.Time) string {
	for _, msg := range messages {
		if msg.Role != RoleUser {
			continue
		}
		runes := []rune(msg.Content)
		if len(runes) > titleMaxRunes {
			return string(runes[:titleMaxRunes]) + "..."
		}
		return msg.Content
	}
	return "Conversation " + now.Format("1/2/2006")
}
