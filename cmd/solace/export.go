package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willowmind/solace/pkg/export"
)

var (
	exportFormatFlag string
	exportOutFlag    string
)

var exportCmd = &cobra.Command{
	Use:   "export mood|chats|all",
	Short: "Export your data",
	Long: `Export mood entries and chat histories. Mood entries can be exported as JSON
or CSV; chat histories and combined exports are always JSON. Output goes to
stdout unless --out is given.`,
	ValidArgs: []string{"mood", "chats", "all"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormatFlag != "json" && exportFormatFlag != "csv" {
			return fmt.Errorf("unsupported format: %s (expected json or csv)", exportFormatFlag)
		}
		if exportFormatFlag == "csv" && args[0] != "mood" {
			return fmt.Errorf("csv format is only available for mood exports")
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		ctx := cmd.Context()

		var content string
		switch args[0] {
		case "mood":
			entries := newJournal(dbConn).Entries(ctx)
			if exportFormatFlag == "csv" {
				content = export.MoodCSV(entries)
			} else {
				content, err = export.MoodJSON(entries)
			}
		case "chats":
			content, err = export.ChatJSON(newManager(ctx, dbConn).Conversations(ctx))
		case "all":
			content, err = export.AllJSON(newJournal(dbConn).Entries(ctx), newManager(ctx, dbConn).Conversations(ctx))
		}
		if err != nil {
			return fmt.Errorf("failed to build export: %w", err)
		}

		if exportOutFlag != "" {
			if err := export.WriteFile(exportOutFlag, content); err != nil {
				return fmt.Errorf("failed to write %s: %w", exportOutFlag, err)
			}
			fmt.Printf("Wrote %s\n", exportOutFlag)
			return nil
		}

		fmt.Println(content)
		return nil
	},
}

func initExportCmd() {
	exportCmd.Flags().StringVar(&exportFormatFlag, "format", "json", "Export format: json or csv (csv is mood-only)")
	exportCmd.Flags().StringVar(&exportOutFlag, "out", "", "Write to a file instead of stdout")
}
