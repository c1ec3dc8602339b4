package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willowmind/solace/pkg/chat"
	"github.com/willowmind/solace/pkg/dify"
	"github.com/willowmind/solace/pkg/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk with your companion",
	Long: `Open the interactive chat interface, or use the subcommands to send messages
and manage conversations from scripts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return tui.Run(newManager(cmd.Context(), dbConn))
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a message in the active conversation",
	Long: `Send a message to the companion and print its reply. The message goes to the
active conversation; a new conversation is started if none is active.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.TrimSpace(args[0])
		if content == "" {
			return errors.New("message must not be empty")
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		manager := newManager(cmd.Context(), dbConn)
		conversation, err := manager.SendMessage(cmd.Context(), content)
		if err != nil {
			if errors.Is(err, dify.ErrUnauthorized) {
				return errors.New("API authorization failed - check your credential (solace config set-key)")
			}
			if errors.Is(err, dify.ErrMissingAPIKey) {
				return errors.New("no API key configured (solace config set-key, or set SOLACE_API_KEY)")
			}
			return fmt.Errorf("failed to get a response: %w", err)
		}

		last := conversation.Messages[len(conversation.Messages)-1]
		fmt.Println(last.Content)
		return nil
	},
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		manager := newManager(cmd.Context(), dbConn)
		conversations := manager.Conversations(cmd.Context())
		if len(conversations) == 0 {
			fmt.Println("No conversations yet.")
			return nil
		}

		currentID := manager.CurrentID(cmd.Context())
		for _, conversation := range conversations {
			marker := " "
			if conversation.ID == currentID {
				marker = "*"
			}
			fmt.Printf("%s %s  %-30s  %d messages  updated %s\n",
				marker, conversation.ID, conversation.Title,
				len(conversation.Messages), formatEpochMillis(conversation.UpdatedAt))
		}
		return nil
	},
}

var chatNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new conversation and make it active",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		manager := newManager(cmd.Context(), dbConn)
		conversation := manager.NewConversation(cmd.Context())
		fmt.Printf("Started conversation %s\n", conversation.ID)
		return nil
	},
}

var chatSelectCmd = &cobra.Command{
	Use:   "select [conversation-id]",
	Short: "Make a conversation the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		manager := newManager(cmd.Context(), dbConn)
		manager.SelectConversation(cmd.Context(), args[0])
		if manager.CurrentID(cmd.Context()) != args[0] {
			return fmt.Errorf("conversation not found: %s", args[0])
		}
		fmt.Printf("Selected conversation %s\n", args[0])
		return nil
	},
}

var chatDeleteCmd = &cobra.Command{
	Use:   "delete [conversation-id]",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		manager := newManager(cmd.Context(), dbConn)
		manager.DeleteConversation(cmd.Context(), args[0])
		fmt.Printf("Deleted conversation %s\n", args[0])
		return nil
	},
}

var chatShowCmd = &cobra.Command{
	Use:   "show [conversation-id]",
	Short: "Print a conversation transcript",
	Long:  `Print the transcript of a conversation. With no argument, shows the active conversation.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		manager := newManager(cmd.Context(), dbConn)

		var conversation chat.Conversation
		if len(args) == 1 {
			found := false
			for _, c := range manager.Conversations(cmd.Context()) {
				if c.ID == args[0] {
					conversation = c
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("conversation not found: %s", args[0])
			}
		} else {
			var err error
			conversation, err = manager.Current(cmd.Context())
			if errors.Is(err, chat.ErrConversationNotFound) {
				return errors.New("no active conversation")
			}
			if err != nil {
				return err
			}
		}

		printConversation(conversation)
		return nil
	},
}

func printConversation(conversation chat.Conversation) {
	fmt.Printf("%s (%s)\n", conversation.Title, conversation.ID)
	fmt.Printf("Created: %s  Updated: %s\n\n",
		formatEpochMillis(conversation.CreatedAt), formatEpochMillis(conversation.UpdatedAt))
	for _, message := range conversation.Messages {
		label := "You"
		if message.Role == chat.RoleAssistant {
			label = "Solace"
		}
		fmt.Printf("[%s] %s:\n%s\n\n", formatEpochMillis(message.Timestamp), label, message.Content)
	}
}

func initChatCmd() {
	chatCmd.AddCommand(
		chatSendCmd,
		chatListCmd,
		chatNewCmd,
		chatSelectCmd,
		chatDeleteCmd,
		chatShowCmd,
	)
}
