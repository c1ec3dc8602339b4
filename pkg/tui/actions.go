package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/willowmind/solace/pkg/chat"
)

type conversationsMsg []chat.Conversation

type sendResultMsg struct {
	conversation chat.Conversation
	err          error
}

// Load the conversation collection and return tea data.
func loadConversations(manager *chat.Manager) tea.Cmd {
	return func() tea.Msg {
		return conversationsMsg(manager.Conversations(context.Background()))
	}
}

// Send a message through the session manager. This is the only operation
// that leaves the process; it runs as a command so the UI stays responsive
// while the round trip is in flight.
func sendMessage(manager *chat.Manager, content string) tea.Cmd {
	return func() tea.Msg {
		conversation, err := manager.SendMessage(context.Background(), content)
		return sendResultMsg{conversation: conversation, err: err}
	}
}
