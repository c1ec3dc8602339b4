package dify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL}, server.Client())
	return client, server
}

func TestSendMessageSuccess(t *testing.T) {
	var gotRequest chatRequest
	var gotAuth string

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat-messages" {
			t.Errorf("Expected path /chat-messages, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"answer":          "Hi there",
			"conversation_id": "conv-1",
			"id":              "msg-42",
		})
	})
	defer server.Close()

	resp, err := client.SendMessage(context.Background(), "Hello", "conv-1", map[string]string{"name": "Maya"})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer credential header, got %q", gotAuth)
	}
	if gotRequest.Query != "Hello" {
		t.Errorf("Expected query 'Hello', got %q", gotRequest.Query)
	}
	if gotRequest.ResponseMode != "blocking" {
		t.Errorf("Expected blocking response mode, got %q", gotRequest.ResponseMode)
	}
	if gotRequest.ConversationID != "conv-1" {
		t.Errorf("Expected continuation token 'conv-1', got %q", gotRequest.ConversationID)
	}
	if gotRequest.Inputs["name"] != "Maya" {
		t.Errorf("Expected user context in inputs, got %v", gotRequest.Inputs)
	}

	if resp.Answer != "Hi there" {
		t.Errorf("Expected answer 'Hi there', got %q", resp.Answer)
	}
	if resp.MessageID != "msg-42" {
		t.Errorf("Expected server message id 'msg-42', got %q", resp.MessageID)
	}
}

func TestSendMessageNilInputsSentAsEmptyObject(t *testing.T) {
	var rawBody map[string]json.RawMessage

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&rawBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "ok"})
	})
	defer server.Close()

	if _, err := client.SendMessage(context.Background(), "Hello", "", nil); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if string(rawBody["inputs"]) != "{}" {
		t.Errorf("Expected inputs to serialize as an empty object, got %s", rawBody["inputs"])
	}
}

func TestSendMessageUnauthorized(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer server.Close()

	_, err := client.SendMessage(context.Background(), "Hello", "", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for status 401, got %v", err)
	}
}

func TestSendMessageGenericFailure(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := client.SendMessage(context.Background(), "Hello", "", nil)
	if err == nil {
		t.Fatalf("Expected an error for status 502")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected a generic failure, got ErrUnauthorized: %v", err)
	}
}

func TestSendMessageMalformedResponse(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})
	defer server.Close()

	if _, err := client.SendMessage(context.Background(), "Hello", "", nil); err == nil {
		t.Fatalf("Expected an error for a malformed response body")
	}
}

func TestSendMessageMissingAPIKey(t *testing.T) {
	client := NewClient(Config{}, nil)

	if _, err := client.SendMessage(context.Background(), "Hello", "", nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}
