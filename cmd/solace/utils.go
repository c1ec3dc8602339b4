package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/willowmind/solace/pkg/chat"
	pkgdb "github.com/willowmind/solace/pkg/db"
	"github.com/willowmind/solace/pkg/dify"
	"github.com/willowmind/solace/pkg/mood"
	"github.com/willowmind/solace/pkg/storage"
	"github.com/willowmind/solace/pkg/utils"
)

// openDB resolves the database path (falling back to the system default when
// --db was not provided), opens the connection, and brings the schema up to
// the current version.
func openDB() (*sql.DB, error) {
	resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	dbConn, err := pkgdb.OpenDBConnection(resolvedPath, walMode, syncMode)
	if err != nil {
		return nil, err
	}

	if err := pkgdb.UpgradeDB(dbConn, resolvedPath, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}

func newManager(ctx context.Context, dbConn *sql.DB) *chat.Manager {
	store := storage.New(dbConn)
	client := dify.NewClient(dify.ResolveConfig(ctx, store), nil)
	return chat.NewManager(store, client)
}

func newJournal(dbConn *sql.DB) *mood.Journal {
	return mood.NewJournal(storage.New(dbConn))
}

func formatEpochMillis(ms int64) string {
	return time.UnixMilli(ms).Format(time.RFC3339)
}

// parseTags splits a comma-separated tag list, trimming whitespace and
// dropping empty items.
func parseTags(tagsStr string) []string {
	if tagsStr == "" {
		return nil
	}
	tags := []string{}
	for _, tag := range strings.Split(tagsStr, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
