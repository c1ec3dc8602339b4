package dify

import (
	"context"
	"os"
	"strings"

	"github.com/willowmind/solace/pkg/storage"
)

// Environment variables consulted when no stored override exists.
const (
	EnvAPIKey     = "SOLACE_API_KEY"
	EnvAPIBaseURL = "SOLACE_API_BASE_URL"
	EnvUser       = "SOLACE_USER_ID"
)

// ResolveConfig builds the effective API configuration. Precedence per
// setting: value stored in the persistence substrate, then environment,
// then built-in default.
func ResolveConfig(ctx context.Context, store *storage.Store) Config {
	cfg := Config{
		APIKey:  strings.TrimSpace(os.Getenv(EnvAPIKey)),
		BaseURL: strings.TrimSpace(os.Getenv(EnvAPIBaseURL)),
		User:    strings.TrimSpace(os.Getenv(EnvUser)),
	}

	if stored := store.APIKey(ctx); stored != "" {
		cfg.APIKey = stored
	}
	if stored := store.APIBaseURL(ctx); stored != "" {
		cfg.BaseURL = stored
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.User == "" {
		cfg.User = DefaultUser
	}
	return cfg
}
