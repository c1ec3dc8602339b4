package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/willowmind/solace/pkg/dify"
	"github.com/willowmind/solace/pkg/storage"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Manager owns the conversation collection and the active-conversation
// pointer, and orchestrates the single request/response round trip per
// user turn. Sends are not serialized per conversation: two overlapping
// sends append their replies in arrival order.
type Manager struct {
	store  *storage.Store
	client *dify.Client
	now    func() time.Time
}

func NewManager(store *storage.Store, client *dify.Client) *Manager {
	return &Manager{store: store, client: client, now: time.Now}
}

// Conversations returns the stored collection. An absent or unreadable
// collection degrades to empty.
func (m *Manager) Conversations(ctx context.Context) []Conversation {
	var conversations []Conversation
	m.store.Get(ctx, storage.KeyChats, &conversations)
	return conversations
}

// CurrentID returns the active-conversation pointer, or "" when none is set.
func (m *Manager) CurrentID(ctx context.Context) string {
	var id string
	m.store.Get(ctx, storage.KeyCurrentChat, &id)
	return id
}

// Current resolves the active conversation. A cleared or dangling pointer
// yields ErrConversationNotFound.
func (m *Manager) Current(ctx context.Context) (Conversation, error) {
	id := m.CurrentID(ctx)
	if id == "" {
		return Conversation{}, ErrConversationNotFound
	}
	for _, conv := range m.Conversations(ctx) {
		if conv.ID == id {
			return conv, nil
		}
	}
	return Conversation{}, ErrConversationNotFound
}

// UserContext returns the accumulated inferred facts about the user.
func (m *Manager) UserContext(ctx context.Context) UserContext {
	userCtx := UserContext{}
	m.store.Get(ctx, storage.KeyUserContext, &userCtx)
	return userCtx
}

// NewConversation creates an empty conversation with the default title,
// appends it to the collection, and makes it active.
func (m *Manager) NewConversation(ctx context.Context) Conversation {
	conv := m.emptyConversation()
	conversations := append(m.Conversations(ctx), conv)
	m.saveConversations(ctx, conversations)
	m.saveCurrentID(ctx, conv.ID)
	return conv
}

// SelectConversation points the active conversation at id when it exists
// among the stored conversations. Unknown ids are ignored without error;
// callers observing Current simply keep seeing the previous state.
func (m *Manager) SelectConversation(ctx context.Context, id string) {
	for _, conv := range m.Conversations(ctx) {
		if conv.ID == id {
			m.saveCurrentID(ctx, id)
			return
		}
	}
}

// DeleteConversation removes a conversation by id. When the active one is
// deleted, the pointer falls to the first remaining conversation in array
// order, or is cleared if none remain.
func (m *Manager) DeleteConversation(ctx context.Context, id string) {
	conversations := m.Conversations(ctx)

	remaining := conversations[:0]
	for _, conv := range conversations {
		if conv.ID != id {
			remaining = append(remaining, conv)
		}
	}
	m.saveConversations(ctx, remaining)

	if m.CurrentID(ctx) == id {
		next := ""
		if len(remaining) > 0 {
			next = remaining[0].ID
		}
		m.saveCurrentID(ctx, next)
	}
}

// SendMessage appends content as a user message to the active conversation
// (synthesizing one if needed), performs exactly one round trip to the
// conversational API, and appends the assistant reply. The user message is
// persisted before the network call, so it survives a failed round trip;
// on failure no assistant message is appended and the error is returned
// for the caller to surface. The call is never retried here.
func (m *Manager) SendMessage(ctx context.Context, content string) (Conversation, error) {
	now := m.now()
	conversations := m.Conversations(ctx)

	// Resolve the target conversation, synthesizing one when none is active.
	idx := -1
	if id := m.CurrentID(ctx); id != "" {
		for i, conv := range conversations {
			if conv.ID == id {
				idx = i
				break
			}
		}
	}
	if idx == -1 {
		conversations = append(conversations, m.emptyConversation())
		idx = len(conversations) - 1
		m.saveCurrentID(ctx, conversations[idx].ID)
	}

	userMessage := Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: now.UnixMilli(),
	}
	conversations[idx].Messages = append(conversations[idx].Messages, userMessage)
	conversations[idx].UpdatedAt = now.UnixMilli()
	m.saveConversations(ctx, conversations)

	// Fold any newly discovered facts into the persisted user context.
	userCtx := m.UserContext(ctx)
	if extracted := ExtractUserContext([]Message{userMessage}); len(extracted) > 0 {
		userCtx = userCtx.Merge(extracted)
		if err := m.store.Set(ctx, storage.KeyUserContext, userCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to persist user context: %v\n", err)
		}
	}

	resp, err := m.client.SendMessage(ctx, content, conversations[idx].ID, userCtx)
	if err != nil {
		return conversations[idx], err
	}

	messageID := resp.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}
	assistantMessage := Message{
		ID:        messageID,
		Role:      RoleAssistant,
		Content:   resp.Answer,
		Timestamp: m.now().UnixMilli(),
	}
	conversations[idx].Messages = append(conversations[idx].Messages, assistantMessage)
	conversations[idx].UpdatedAt = m.now().UnixMilli()
	if conversations[idx].Title == DefaultTitle {
		conversations[idx].Title = DeriveTitle(conversations[idx].Messages, m.now())
	}
	m.saveConversations(ctx, conversations)

	return conversations[idx], nil
}

func (m *Manager) emptyConversation() Conversation {
	timestamp := m.now().UnixMilli()
	return Conversation{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: timestamp,
		UpdatedAt: timestamp,
	}
}

func (m *Manager) saveConversations(ctx context.Context, conversations []Conversation) {
	if err := m.store.Set(ctx, storage.KeyChats, conversations); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist conversations: %v\n", err)
	}
}

func (m *Manager) saveCurrentID(ctx context.Context, id string) {
	if err := m.store.Set(ctx, storage.KeyCurrentChat, id); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist active conversation pointer: %v\n", err)
	}
}
