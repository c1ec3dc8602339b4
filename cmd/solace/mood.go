package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/willowmind/solace/pkg/mood"
)

var (
	moodLevelFlag int
	moodNotesFlag string
	moodTagsFlag  string
	moodDateFlag  string
	moodDaysFlag  int
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Track your mood",
	Long:  `Log daily mood entries and review trends over time.`,
}

var moodLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a mood entry for a day",
	Long: `Record how you are feeling on a 1-5 scale (1 = very low, 5 = excellent).
Logging again for the same day replaces that day's entry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := mood.Level(moodLevelFlag)
		if !level.Valid() {
			return fmt.Errorf("invalid mood level %d: must be between 1 and 5", moodLevelFlag)
		}

		var at time.Time
		if moodDateFlag != "" {
			var err error
			at, err = time.ParseInLocation("2006-01-02", moodDateFlag, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", moodDateFlag)
			}
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		entry, err := newJournal(dbConn).Upsert(cmd.Context(), level, moodNotesFlag, parseTags(moodTagsFlag), at)
		if err != nil {
			return fmt.Errorf("failed to log mood: %w", err)
		}

		printMoodEntry(entry)
		return nil
	},
}

var moodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mood entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		journal := newJournal(dbConn)

		var entries []mood.Entry
		if moodDaysFlag > 0 {
			entries = journal.EntriesInWindow(cmd.Context(), moodDaysFlag, time.Now())
		} else {
			entries = journal.Entries(cmd.Context())
		}

		if len(entries) == 0 {
			fmt.Println("No mood entries yet.")
			return nil
		}
		for _, entry := range entries {
			line := fmt.Sprintf("%s  %d (%s)", entry.Date.Format("2006-01-02"), entry.Level, entry.Level.Label())
			if entry.Notes != "" {
				line += "  " + entry.Notes
			}
			if len(entry.Tags) > 0 {
				line += "  [" + strings.Join(entry.Tags, ", ") + "]"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var moodShowCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the entry for a date (YYYY-MM-DD, defaults to today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now()
		if len(args) == 1 {
			var err error
			date, err = time.ParseInLocation("2006-01-02", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", args[0])
			}
		}

		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		entry, err := newJournal(dbConn).EntryForDate(cmd.Context(), date)
		if errors.Is(err, mood.ErrEntryNotFound) {
			return fmt.Errorf("no mood entry for %s", date.Format("2006-01-02"))
		}
		if err != nil {
			return err
		}

		printMoodEntry(entry)
		return nil
	},
}

var moodSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show mood statistics",
	Long: `Show statistics derived from your mood history: average level, logging streak,
week-over-week improvement, variability, and 30-day habit consistency.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		summary := newJournal(dbConn).Summary(cmd.Context(), time.Now())

		fmt.Println("Mood Summary:")
		fmt.Printf("Entries:           %d\n", summary.TotalEntries)
		fmt.Printf("Average level:     %.2f\n", summary.AverageLevel)
		fmt.Printf("Streak:            %d days\n", summary.StreakDays)
		fmt.Printf("Improvement rate:  %.1f%%\n", summary.ImprovementRate)
		fmt.Printf("Variability:       %.2f\n", summary.VariabilityScore)
		fmt.Printf("Habit consistency: %.1f%%\n", summary.HabitConsistency)
		return nil
	},
}

func printMoodEntry(entry mood.Entry) {
	fmt.Println("Mood Entry:")
	fmt.Printf("ID:    %s\n", entry.ID)
	fmt.Printf("Date:  %s\n", entry.Date.Format("2006-01-02"))
	fmt.Printf("Level: %d (%s)\n", entry.Level, entry.Level.Label())
	if entry.Notes != "" {
		fmt.Printf("Notes: %s\n", entry.Notes)
	}
	if len(entry.Tags) > 0 {
		fmt.Printf("Tags:  %s\n", strings.Join(entry.Tags, ", "))
	}
}

func initMoodCmd() {
	moodLogCmd.Flags().IntVar(&moodLevelFlag, "level", 0, "Mood level, 1 (very low) to 5 (excellent)")
	moodLogCmd.Flags().StringVar(&moodNotesFlag, "notes", "", "Free-form notes for the entry")
	moodLogCmd.Flags().StringVar(&moodTagsFlag, "tags", "", "Comma-separated tags (e.g. work,sleep)")
	moodLogCmd.Flags().StringVar(&moodDateFlag, "date", "", "Day to record (YYYY-MM-DD, defaults to today)")
	moodLogCmd.MarkFlagRequired("level")

	moodListCmd.Flags().IntVar(&moodDaysFlag, "days", 0, "Only show entries from the last N days")

	moodCmd.AddCommand(moodLogCmd, moodListCmd, moodShowCmd, moodSummaryCmd)
}
