package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/willowmind/solace/pkg/chat"
	"github.com/willowmind/solace/pkg/dify"
)

const listPaneWidth = 30

type model struct {
	manager *chat.Manager

	conversations []chat.Conversation
	cursor        int // index of the selected conversation

	input   textinput.Model
	sending bool
	status  string // transient error/status line, the toast equivalent

	width  int
	height int

	quitting bool
}

func initModel(manager *chat.Manager) model {
	composer := textinput.New()
	composer.Placeholder = "Type a message and press Enter"
	composer.Focus()
	composer.CharLimit = 2000

	return model{
		manager: manager,
		input:   composer,
	}
}

func (m model) Init() tea.Cmd {
	return loadConversations(m.manager)
}

// selected returns the conversation under the cursor, if any.
func (m model) selected() (chat.Conversation, bool) {
	if m.cursor < 0 || m.cursor >= len(m.conversations) {
		return chat.Conversation{}, false
	}
	return m.conversations[m.cursor], true
}

// cursorOnActive moves the cursor onto the active conversation.
func (m *model) cursorOnActive() {
	id := m.manager.CurrentID(context.Background())
	for i, conv := range m.conversations {
		if conv.ID == id {
			m.cursor = i
			return
		}
	}
	m.cursor = 0
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case conversationsMsg:
		m.conversations = msg
		m.cursorOnActive()
		return m, nil

	case sendResultMsg:
		m.sending = false
		if msg.err != nil {
			// Same taxonomy the page surfaced as toasts: authorization
			// failures are distinguished from generic ones.
			if errors.Is(msg.err, dify.ErrUnauthorized) || errors.Is(msg.err, dify.ErrMissingAPIKey) {
				m.status = "API authorization failed. Check your credential (solace config set-key)."
			} else {
				m.status = "Failed to get a response. Please try again."
			}
		} else {
			m.status = ""
		}
		return m, loadConversations(m.manager)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "ctrl+n":
			m.manager.NewConversation(context.Background())
			return m, loadConversations(m.manager)

		case "ctrl+d":
			if conv, ok := m.selected(); ok {
				m.manager.DeleteConversation(context.Background(), conv.ID)
			}
			return m, loadConversations(m.manager)

		case "up":
			if m.cursor > 0 {
				m.cursor--
				if conv, ok := m.selected(); ok {
					m.manager.SelectConversation(context.Background(), conv.ID)
				}
			}
			return m, nil

		case "down":
			if m.cursor < len(m.conversations)-1 {
				m.cursor++
				if conv, ok := m.selected(); ok {
					m.manager.SelectConversation(context.Background(), conv.ID)
				}
			}
			return m, nil

		case "enter":
			content := strings.TrimSpace(m.input.Value())
			if content == "" || m.sending {
				return m, nil
			}
			m.input.Reset()
			m.sending = true
			m.status = ""
			return m, sendMessage(m.manager, content)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	transcriptWidth := m.width - listPaneWidth - 4
	if transcriptWidth < 20 {
		transcriptWidth = 20
	}

	left := m.renderConversationList()
	right := m.renderTranscript(transcriptWidth)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listPaneWidth).Render(left),
		lipgloss.NewStyle().Width(transcriptWidth).Render(right),
	)

	var b strings.Builder
	b.WriteString(titleStyle.Render("solace") + "\n\n")
	b.WriteString(body + "\n\n")
	b.WriteString(m.input.View() + "\n")
	if m.status != "" {
		b.WriteString(textRedStyle.Render(m.status) + "\n")
	}
	b.WriteString(footerStyle.Render("enter: send • ↑/↓: switch chat • ctrl+n: new • ctrl+d: delete • esc: quit"))
	return b.String()
}

func (m model) renderConversationList() string {
	if len(m.conversations) == 0 {
		return textStyle.Render("No conversations yet.")
	}

	var b strings.Builder
	for i, conv := range m.conversations {
		line := conv.Title
		if len(line) > listPaneWidth-2 {
			line = line[:listPaneWidth-2]
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(textStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderTranscript(width int) string {
	conv, ok := m.selected()
	if !ok {
		return textStyle.Render("Start a conversation by typing below.")
	}

	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for _, message := range conv.Messages {
		label := userLabelStyle.Render("you")
		if message.Role == chat.RoleAssistant {
			label = assistantLabelStyle.Render("solace")
		}
		stamp := time.UnixMilli(message.Timestamp).Format("15:04")
		b.WriteString(fmt.Sprintf("%s %s\n", label, footerStyle.Render(stamp)))
		b.WriteString(wrap.Render(message.Content) + "\n\n")
	}
	if m.sending {
		b.WriteString(assistantLabelStyle.Render("solace") + " " + textStyle.Render("...") + "\n")
	}
	return b.String()
}

// Run starts the interactive chat screen on top of the given manager.
func Run(manager *chat.Manager) error {
	p := tea.NewProgram(initModel(manager), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
