package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgdb "github.com/willowmind/solace/pkg/db"
	"github.com/willowmind/solace/pkg/dify"
	"github.com/willowmind/solace/pkg/storage"
)

// setupTestManager wires a Manager against an in-memory database and a
// stub conversational API served by handler.
func setupTestManager(t *testing.T, handler http.HandlerFunc) (*Manager, *sql.DB, *httptest.Server) {
	t.Helper()

	testDB, err := pkgdb.OpenDBConnection(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("OpenDBConnection failed for in-memory DB: %v", err)
	}
	if err := pkgdb.UpgradeDB(testDB, ":memory:", pkgdb.TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed: %v", err)
	}

	server := httptest.NewServer(handler)
	store := storage.New(testDB)
	client := dify.NewClient(dify.Config{APIKey: "test-key", BaseURL: server.URL}, server.Client())

	return NewManager(store, client), testDB, server
}

// answerWith returns a handler that always replies with the given answer.
func answerWith(answer, messageID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"answer":          answer,
			"conversation_id": "conv-remote",
			"id":              messageID,
		})
	}
}

func TestNewConversation(t *testing.T) {
	manager, testDB, server := setupTestManager(t, answerWith("unused", ""))
	defer testDB.Close()
	defer server.Close()

	ctx := context.Background()
	conv := manager.NewConversation(ctx)

	if conv.Title != DefaultTitle {
		t.Errorf("Expected default title %q, got %q", DefaultTitle, conv.Title)
	}
	if len(conv.Messages) != 0 {
		t.Errorf("Expected an empty conversation, got %d messages", len(conv.Messages))
	}

	if got := manager.CurrentID(ctx); got != conv.ID {
		t.Errorf("Expected new conversation to become active, pointer is %q", got)
	}
	if got := len(manager.Conversations(ctx)); got != 1 {
		t.Errorf("Expected 1 stored conversation, got %d", got)
	}
}

func TestSelectConversation(t *testing.T) {
	manager, testDB, server := setupTestManager(t, answerWith("unused", ""))
	defer testDB.Close()
	defer server.Close()

	ctx := context.Background()
	first := manager.NewConversation(ctx)
	second := manager.NewConversation(ctx)

	manager.SelectConversation(ctx, first.ID)
	if got := manager.CurrentID(ctx); got != first.ID {
		t.Errorf("Expected pointer on %q, got %q", first.ID, got)
	}

	// Unknown ids are ignored without error.
	manager.SelectConversation(ctx, "no-such-id")
	if got := manager.CurrentID(ctx); got != first.ID {
		t.Errorf("Expected pointer to stay on %q after invalid select, got %q", first.ID, got)
	}

	_ = second
}

func TestDeleteActiveConversationFallsBackToFirstRemaining(t *testing.T) {
	manager, testDB, server := setupTestManager(t, answerWith("unused", ""))
	defer testDB.Close()
	defer server.Close()

	ctx := context.Background()
	first := manager.NewConversation(ctx)
	second := manager.NewConversation(ctx)
	third := manager.NewConversation(ctx)

	manager.SelectConversation(ctx, second.ID)
	manager.DeleteConversation(ctx, second.ID)

	if got := len(manager.Conversations(ctx)); got != 2 {
		t.Fatalf("Expected 2 remaining conversations, got %d", got)
	}
	if got := manager.CurrentID(ctx); got != first.ID {
		t.Errorf("Expected pointer to fall back to first remaining %q, got %q", first.ID, got)
	}

	_ = third
}

func TestDeleteLastConversationClearsPointer(t *testing.T) {
	manager, testDB, server := setupTestManager(t, answerWith("unused", ""))
	defer testDB.Close()
	defer server.Close()

	ctx := context.Background()
	only := manager.NewConversation(ctx)
	manager.DeleteConversation(ctx, only.ID)

	if got := manager.CurrentID(ctx); got != "" {
		t.Errorf("Expected cleared pointer after deleting the only conversation, got %q", got)
	}
	if _, err := manager.Current(ctx); err != ErrConversationNotFound {
		t.Errorf("Expected ErrConversationNotFound, got %v", err)
	}
}

func TestSendMessageSynthesizesConversationAndDerivesTitle(t *testing.T) {
	manager, testDB, server := setupTestManager(t, answerWith("Hi there", "msg-1"))
	defer testDB.Close()
	defer server.Close()

	ctx := context.Background()
	conv, err := manager.SendMessage(ctx, "Hello")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	conversations := manager.Conversations(ctx)
	if len(conversations) != 1 {
		t.Fatalf("Expected exactly 1 conversation, got %d", len(conversations))
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("Expected user + assistant messages, got %d", len(conv.Messages))
	}

	if conv.Messages[0].Role != RoleUser || conv.Messages[0].Content != "Hello" {
		t.Errorf("Expected first message to be the user's 'Hello', got %+v", conv.Messages[0])
	}
	if conv.Messages[1].Role != RoleAssistant || conv.Messages[1].Content != "Hi there" {
		t.Errorf("Expected assistant reply 'Hi there', got %+v", conv.Messages[1])
	}
	if conv.Messages[1].ID != "msg-1" {
		t.Errorf("Expected server-supplied message id to be preferred, got %q", conv.Messages[1].ID)
	}

	if conv.Title == DefaultTitle || conv.Title == "" {
		t.Errorf("Expected a derived title, got %q", conv.Title)
	}
	if conv.Title != "Hello" {
		t.Errorf("Expected title 'Hello', got %q", conv.Title)
	}
}

func TestSendMessageDoesNotRederiveTitle(t *testing.T) {
	manager, testDB, server := setupTestManager(t, answerWith("Hi there", ""))
	defer testDB.Close()
	defer server.Close()

	ctx := context.Background()
	first, err := manager.SendMessage(ctx, "Hello")
	if err != nil {
		t.Fatalf("First SendMessage failed: %v", err)
	}

	second, err := manager.SendMessage(ctx, "Another much longer message that would derive differently")
	if err != nil {
		t.Fatalf("Second SendMessage failed: %v", err)
	}

	if second.Title != first.Title {
		t.Errorf("Expected title to stay %q after second send, got %q", first.Title, second.Title)
	}
	if len(second.Messages) != 4 {
		t.Errorf("Expected 4 messages after two round trips, got %d", len(second.Messages))
	}
}

func TestSendMessageFailureKeepsUserMessage(t *testing.T) {
	manager, testDB, server := setupTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer testDB.Close()
	defer server.Close()

	ctx := context.Background()
	if _, err := manager.SendMessage(ctx, "Hello"); err == nil {
		t.Fatalf("Expected SendMessage to return the API failure")
	}

	conversations := manager.Conversations(ctx)
	if len(conversations) != 1 {
		t.Fatalf("Expected the synthesized conversation to persist, got %d", len(conversations))
	}

	conv := conversations[0]
	if len(conv.Messages) != 1 {
		t.Fatalf("Expected only the user message to survive the failure, got %d messages", len(conv.Messages))
	}
	if conv.Messages[0].Role != RoleUser {
		t.Errorf("Expected the surviving message to be the user's, got role %q", conv.Messages[0].Role)
	}
	if conv.Title != DefaultTitle {
		t.Errorf("Expected title to remain the sentinel after a failure, got %q", conv.Title)
	}
}

func TestSendMessageExtractsAndSendsUserContext(t *testing.T) {
	var gotInputs map[string]string
	manager, testDB, server := setupTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Inputs map[string]string `json:"inputs"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotInputs = body.Inputs
		json.NewEncoder(w).Encode(map[string]string{"answer": "Nice to meet you"})
	})
	defer testDB.Close()
	defer server.Close()

	ctx := context.Background()
	if _, err := manager.SendMessage(ctx, "Hi, my name is Maya"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if gotInputs["name"] != "Maya" {
		t.Errorf("Expected extracted name to travel as auxiliary input, got %v", gotInputs)
	}
	if got := manager.UserContext(ctx); got["name"] != "Maya" {
		t.Errorf("Expected extracted name to be persisted, got %v", got)
	}
}

func TestSendMessageConversationTimestampsAdvance(t *testing.T) {
	manager, testDB, server := setupTestManager(t, answerWith("Hi", ""))
	defer testDB.Close()
	defer server.Close()

	// Deterministic clock stepping one second per reading.
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tick := 0
	manager.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	ctx := context.Background()
	conv, err := manager.SendMessage(ctx, "Hello")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if conv.UpdatedAt <= conv.CreatedAt {
		t.Errorf("Expected UpdatedAt (%d) to advance past CreatedAt (%d)", conv.UpdatedAt, conv.CreatedAt)
	}
	if conv.Messages[1].Timestamp < conv.Messages[0].Timestamp {
		t.Errorf("Expected chronological message timestamps, got %d then %d", conv.Messages[0].Timestamp, conv.Messages[1].Timestamp)
	}
}
