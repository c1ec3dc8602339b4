package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/willowmind/solace/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Solace MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the chat and
mood-journal functionality as MCP tools via STDIO.

The --db flag is optional. If not provided, a system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\solace\solace.db
- macOS: ~/Library/Application Support/solace/solace.db
- Linux: ~/.local/share/solace/solace.db

Example:
  solace mcp
  solace mcp --db solace.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := mcp.NewSolaceMCPServer(dbPath)
		if err != nil {
			return err
		}
		defer srv.Close()

		s := srv.MCPRawServer()
		manager := srv.Manager()
		journal := srv.Journal()

		mcp.RegisterPingTool(s)

		mcp.RegisterSendMessageTool(s, manager)
		mcp.RegisterListConversationsTool(s, manager)
		mcp.RegisterNewConversationTool(s, manager)
		mcp.RegisterSelectConversationTool(s, manager)
		mcp.RegisterDeleteConversationTool(s, manager)

		mcp.RegisterLogMoodTool(s, journal)
		mcp.RegisterMoodSummaryTool(s, journal)
		mcp.RegisterExportMoodTool(s, journal)

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "Solace MCP server started. DB: %s\n", srv.DbPath)
		fmt.Fprintln(os.Stderr, "Available tools: ping, send_message, list_conversations, new_conversation, select_conversation, delete_conversation, log_mood, mood_summary, export_mood")
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		// Run the server (blocks until stdio closes).
		return srv.Start()
	},
}
