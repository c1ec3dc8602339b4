package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/willowmind/solace/pkg/chat"
	"github.com/willowmind/solace/pkg/dify"
	"github.com/willowmind/solace/pkg/export"
	"github.com/willowmind/solace/pkg/mood"
)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Solace MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_solace"), nil
}

// RegisterSendMessageTool registers the send_message tool.
func RegisterSendMessageTool(s *server.MCPServer, manager *chat.Manager) {
	sendMessageTool := mcp.NewTool("send_message",
		mcp.WithDescription("Sends a message in the active conversation (creating one if needed) and returns the updated conversation including the assistant's reply."),
		mcp.WithString("content", mcp.Required(), mcp.Description("The message text to send.")),
	)
	s.AddTool(sendMessageTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, contentOk := request.Params.Arguments["content"].(string)
		if !contentOk || strings.TrimSpace(content) == "" {
			return mcp.NewToolResultError("'content' parameter is required and must be a non-empty string."), nil
		}

		conversation, err := manager.SendMessage(ctx, content)
		if err != nil {
			if errors.Is(err, dify.ErrUnauthorized) || errors.Is(err, dify.ErrMissingAPIKey) {
				return mcp.NewToolResultError(fmt.Sprintf("API authorization failed, check the configured credential: %v", err)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get a response: %v", err)), nil
		}

		jsonResult, err := json.Marshal(conversation)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize conversation to JSON: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// RegisterListConversationsTool registers the list_conversations tool.
func RegisterListConversationsTool(s *server.MCPServer, manager *chat.Manager) {
	listTool := mcp.NewTool("list_conversations",
		mcp.WithDescription("Lists all stored conversations."),
	)
	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		conversations := manager.Conversations(ctx)
		if len(conversations) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}

		jsonResult, err := json.Marshal(conversations)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize conversations to JSON: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// RegisterNewConversationTool registers the new_conversation tool.
func RegisterNewConversationTool(s *server.MCPServer, manager *chat.Manager) {
	newTool := mcp.NewTool("new_conversation",
		mcp.WithDescription("Creates a new empty conversation and makes it active."),
	)
	s.AddTool(newTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		conversation := manager.NewConversation(ctx)

		jsonResult, err := json.Marshal(conversation)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize conversation to JSON: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// RegisterSelectConversationTool registers the select_conversation tool.
func RegisterSelectConversationTool(s *server.MCPServer, manager *chat.Manager) {
	selectTool := mcp.NewTool("select_conversation",
		mcp.WithDescription("Makes the conversation with the given id active."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The conversation id to activate.")),
	)
	s.AddTool(selectTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, idOk := request.Params.Arguments["id"].(string)
		if !idOk || id == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}

		manager.SelectConversation(ctx, id)
		return mcp.NewToolResultText(fmt.Sprintf("Active conversation pointer: %s", manager.CurrentID(ctx))), nil
	})
}

// RegisterDeleteConversationTool registers the delete_conversation tool.
func RegisterDeleteConversationTool(s *server.MCPServer, manager *chat.Manager) {
	deleteTool := mcp.NewTool("delete_conversation",
		mcp.WithDescription("Deletes the conversation with the given id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The conversation id to delete.")),
	)
	s.AddTool(deleteTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, idOk := request.Params.Arguments["id"].(string)
		if !idOk || id == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}

		manager.DeleteConversation(ctx, id)
		return mcp.NewToolResultText(fmt.Sprintf("Deleted conversation %s.", id)), nil
	})
}

// RegisterLogMoodTool registers the log_mood tool.
func RegisterLogMoodTool(s *server.MCPServer, journal *mood.Journal) {
	logMoodTool := mcp.NewTool("log_mood",
		mcp.WithDescription("Records a mood rating for a day. A second write for the same calendar day replaces the previous one."),
		mcp.WithNumber("level", mcp.Required(), mcp.Description("Mood level from 1 (very low) to 5 (excellent).")),
		mcp.WithString("notes", mcp.Description("Optional free-form notes.")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated tags.")),
		mcp.WithString("date", mcp.Description("Optional RFC 3339 date; defaults to now.")),
	)
	s.AddTool(logMoodTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		levelFloat, levelOk := request.Params.Arguments["level"].(float64)
		if !levelOk {
			return mcp.NewToolResultError("'level' parameter is required and must be a number from 1 to 5."), nil
		}

		notes, _ := request.Params.Arguments["notes"].(string)

		var tags []string
		if rawTags, ok := request.Params.Arguments["tags"].(string); ok && rawTags != "" {
			for _, tag := range strings.Split(rawTags, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					tags = append(tags, tag)
				}
			}
		}

		var at time.Time
		if rawDate, ok := request.Params.Arguments["date"].(string); ok && rawDate != "" {
			parsed, err := time.Parse(time.RFC3339, rawDate)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid 'date' parameter, expected RFC 3339: %v", err)), nil
			}
			at = parsed
		}

		entry, err := journal.Upsert(ctx, mood.Level(levelFloat), notes, tags, at)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to log mood: %v", err)), nil
		}

		jsonResult, err := json.Marshal(entry)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize mood entry to JSON: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// RegisterMoodSummaryTool registers the mood_summary tool.
func RegisterMoodSummaryTool(s *server.MCPServer, journal *mood.Journal) {
	summaryTool := mcp.NewTool("mood_summary",
		mcp.WithDescription("Returns derived mood statistics: average level, streak, improvement rate, variability and habit consistency."),
	)
	s.AddTool(summaryTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary := journal.Summary(ctx, time.Now())

		jsonResult, err := json.Marshal(summary)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize summary to JSON: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}

// RegisterExportMoodTool registers the export_mood tool.
func RegisterExportMoodTool(s *server.MCPServer, journal *mood.Journal) {
	exportTool := mcp.NewTool("export_mood",
		mcp.WithDescription("Exports the mood journal as a JSON or CSV blob."),
		mcp.WithString("format", mcp.Description("Export format: 'json' (default) or 'csv'.")),
	)
	s.AddTool(exportTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format, _ := request.Params.Arguments["format"].(string)

		entries := journal.Entries(ctx)
		switch format {
		case "", "json":
			blob, err := export.MoodJSON(entries)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to export mood entries: %v", err)), nil
			}
			return mcp.NewToolResultText(blob), nil
		case "csv":
			return mcp.NewToolResultText(export.MoodCSV(entries)), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("Unknown export format %q, expected 'json' or 'csv'.", format)), nil
		}
	})
}
