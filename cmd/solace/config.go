package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willowmind/solace/pkg/dify"
	"github.com/willowmind/solace/pkg/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage API configuration",
	Long: `Manage the stored API configuration. Stored values take precedence over the
SOLACE_API_KEY and SOLACE_API_BASE_URL environment variables.`,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [api-key]",
	Short: "Store the API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.TrimSpace(args[0])
		if key == "" {
			return errors.New("API key must not be empty")
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := storage.New(dbConn).SaveAPIKey(cmd.Context(), key); err != nil {
			return fmt.Errorf("failed to store API key: %w", err)
		}
		fmt.Println("API key stored.")
		return nil
	},
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url [base-url]",
	Short: "Store the API base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL := strings.TrimSpace(args[0])
		if baseURL == "" {
			return errors.New("base URL must not be empty")
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := storage.New(dbConn).SaveAPIBaseURL(cmd.Context(), baseURL); err != nil {
			return fmt.Errorf("failed to store base URL: %w", err)
		}
		fmt.Println("API base URL stored.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective API configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		cfg := dify.ResolveConfig(cmd.Context(), storage.New(dbConn))

		keyStatus := "(not set)"
		if cfg.APIKey != "" {
			keyStatus = maskKey(cfg.APIKey)
		}
		fmt.Printf("API key:  %s\n", keyStatus)
		fmt.Printf("Base URL: %s\n", cfg.BaseURL)
		fmt.Printf("User:     %s\n", cfg.User)
		return nil
	},
}

// maskKey keeps just enough of the credential to recognise it.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func initConfigCmd() {
	configCmd.AddCommand(configSetKeyCmd, configSetURLCmd, configShowCmd)
}
