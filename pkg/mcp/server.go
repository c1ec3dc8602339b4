package mcp

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	solacepkg "github.com/willowmind/solace/pkg"
	"github.com/willowmind/solace/pkg/chat"
	pkgdb "github.com/willowmind/solace/pkg/db"
	"github.com/willowmind/solace/pkg/dify"
	"github.com/willowmind/solace/pkg/mood"
	"github.com/willowmind/solace/pkg/storage"
	"github.com/willowmind/solace/pkg/utils"
)

// SolaceMCPServer exposes the chat and mood-journal operations as MCP
// tools over stdio, backed by the SQLite key-value store at dbPath.
type SolaceMCPServer struct {
	mcpServer *server.MCPServer
	db        *sql.DB
	DbPath    string

	manager *chat.Manager
	journal *mood.Journal
}

// NewSolaceMCPServer opens (and migrates if needed) the database at dbPath
// and wires the domain components on top of it. An empty dbPath falls back
// to the platform default location.
func NewSolaceMCPServer(dbPath string) (*SolaceMCPServer, error) {
	resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"Solace MCP Server",
		solacepkg.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	dbConn, err := pkgdb.OpenDBConnection(resolvedPath, true, "FULL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := pkgdb.UpgradeDB(dbConn, resolvedPath, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", resolvedPath, err)
	}

	store := storage.New(dbConn)
	client := dify.NewClient(dify.ResolveConfig(context.Background(), store), nil)

	return &SolaceMCPServer{
		mcpServer: s,
		db:        dbConn,
		DbPath:    resolvedPath,
		manager:   chat.NewManager(store, client),
		journal:   mood.NewJournal(store),
	}, nil
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *SolaceMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// DB returns the underlying *sql.DB.
func (s *SolaceMCPServer) DB() *sql.DB {
	return s.db
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *SolaceMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Manager returns the chat session manager bound to this server's store.
func (s *SolaceMCPServer) Manager() *chat.Manager {
	return s.manager
}

// Journal returns the mood journal bound to this server's store.
func (s *SolaceMCPServer) Journal() *mood.Journal {
	return s.journal
}

// Close cleans up allocated resources.
func (s *SolaceMCPServer) Close() error {
	if s.db != nil {
		// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
		_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: WAL checkpoint failed during close: %v\n", err)
		}
		return s.db.Close()
	}
	return nil
}
