package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	solace "github.com/willowmind/solace/pkg"
	pkgdb "github.com/willowmind/solace/pkg/db"
	"github.com/willowmind/solace/pkg/utils"
)

var (
	dbPath   string
	walMode  bool
	syncMode string
)

var rootCmd = &cobra.Command{
	Use:     "solace",
	Short:   "A local-first companion chat and mood journal.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", solace.Version),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for solace.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(solace completion bash)

  Bash (persist):
    $ solace completion bash > /etc/bash_completion.d/solace

  Zsh:
    $ solace completion zsh > "${fpath[1]}/_solace"

  Fish:
    $ solace completion fish | source
    $ solace completion fish > ~/.config/fish/completions/solace.fish

  PowerShell:
    PS> solace completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of solace",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(solace.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the solace database",
	Long:  `Provides commands for managing the Solace SQLite database, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the Solace database schema to the latest version",
	Long: `Connects to the SQLite database (at the --db path, or the system default location)
and applies any necessary schema migrations to bring the solacedb component up to the
current application schema version. If the database does not exist or is uninitialized,
it will be created and initialized with the latest schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
		if err != nil {
			return fmt.Errorf("failed to resolve database path: %w", err)
		}

		fmt.Printf("Attempting to upgrade solacedb component in database at: %s (WAL: %t, Sync: %s)\n", resolvedPath, walMode, syncMode)

		dbConn, err := pkgdb.OpenDBConnection(resolvedPath, walMode, syncMode)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, resolvedPath, pkgdb.TargetSchemaVersion)
	},
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (uses a system-specific default if not provided)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", true, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initChatCmd()
	initMoodCmd()
	initExportCmd()
	initConfigCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, chatCmd, moodCmd, exportCmd, configCmd, mcpCmd)
}

func main() {
	// Environment configuration may live in a local .env file.
	_ = godotenv.Load()

	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
