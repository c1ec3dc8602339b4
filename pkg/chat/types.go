package chat

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation. Messages are immutable once
// created.
type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// Conversation is an append-only message sequence. Insertion order is the
// canonical display and API-context order.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"` // epoch milliseconds
	UpdatedAt int64     `json:"updatedAt"` // epoch milliseconds
}

// UserContext is an open mapping of facts inferred about the user,
// accumulated across all conversations.
type UserContext map[string]string

// Merge returns a new mapping with updates applied over c, last write
// wins per key. Neither input is mutated.
func (c UserContext) Merge(updates UserContext) UserContext {
	merged := make(UserContext, len(c)+len(updates))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	return merged
}
