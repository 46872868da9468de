package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/internal/pkg/config"
	"github.com/gitquill/gitquill/internal/pkg/history"
)

const (
	// DefaultHistoryLimit is the default number of history entries to display.
	DefaultHistoryLimit = 20
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View generated message history",
		Long: `View the history of generated commit messages.

By default, displays the most recent 20 entries.

Examples:
  gitquill history           # Show last 20 entries
  gitquill history --limit 5 # Show last 5 entries
  gitquill history clear     # Clear all history`,
		RunE: runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "l", DefaultHistoryLimit, "Number of entries to display")

	historyCmd.AddCommand(newHistoryClearCmd())

	return historyCmd
}

// runHistoryList displays the history entries.
func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadHistoryConfig(cmd)
	if err != nil {
		return err
	}

	if !cfg.History.Enabled {
		fmt.Println("History is disabled. Enable it with: gitquill config set history.enabled true")
		return nil
	}

	historyMgr := history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)

	entries, err := historyMgr.List(limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	fmt.Printf("Showing %d most recent entries:\n\n", len(entries))

	// Most recent first
	for i := len(entries) - 1; i >= 0; i-- {
		printHistoryEntry(entries[i], len(entries)-i)
	}

	return nil
}

// printHistoryEntry formats and prints a single history entry.
func printHistoryEntry(entry *history.Entry, index int) {
	status := "not committed"
	switch {
	case entry.Pushed:
		status = "committed and pushed"
	case entry.Committed:
		status = "committed"
	}

	fmt.Printf("[%d] %s (%s, %s)\n", index, entry.Timestamp.Format(time.RFC3339), entry.Mode, status)
	if entry.Model != "" {
		fmt.Printf("    Model: %s\n", entry.Model)
	}
	fmt.Printf("    %s\n\n", entry.Message)
}

// newHistoryClearCmd creates the 'history clear' subcommand.
func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all history entries",
		Long: `Delete all entries from the history file.

This action cannot be undone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadHistoryConfig(cmd)
			if err != nil {
				return err
			}

			historyMgr := history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)

			if err := historyMgr.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			fmt.Println("History cleared.")
			return nil
		},
	}
}

// loadHistoryConfig loads the configuration for the history commands.
func loadHistoryConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
