package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/wire"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the record change log",
	Long:  "View and prune the change log: who created, changed or deleted which record",
}

var logShowCmd = &cobra.Command{
	Use:   "show [record-id]",
	Short: "Show recent changes",
	Long:  "Show recent changes, newest last. Give a record ID to see the history of one order or unit.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		dataset, _ := cmd.Flags().GetString("dataset")
		by, _ := cmd.Flags().GetString("by")
		action, _ := cmd.Flags().GetString("action")
		limit, _ := cmd.Flags().GetInt("limit")

		filters := primary.LogFilters{
			Dataset: dataset,
			Actor:   by,
			Action:  action,
			Limit:   limit,
		}

		// If record ID provided, filter by it
		if len(args) > 0 {
			filters.RecordID = args[0]
		}

		entries, err := wire.LogService().ListLogs(ctx, filters)
		if err != nil {
			return fmt.Errorf("failed to fetch logs: %w", err)
		}

		printLogEntries(entries)
		return nil
	},
}

var logPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old log entries (supervisor)",
	Long:  "Delete log entries older than the specified number of days (default 90)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		days, _ := cmd.Flags().GetInt("days")
		if err := requireSupervisor(); err != nil {
			return err
		}

		count, err := wire.LogService().PruneLogs(ctx, days)
		if err != nil {
			return fmt.Errorf("failed to prune logs: %w", err)
		}

		if count == 0 {
			fmt.Printf("No log entries older than %d days found.\n", days)
		} else {
			fmt.Printf("Pruned %d log entries older than %d days.\n", count, days)
		}
		return nil
	},
}

func printLogEntries(entries []*primary.LogEntry) {
	if len(entries) == 0 {
		fmt.Println("No log entries found.")
		return
	}

	fmt.Printf("Found %d log entries:\n\n", len(entries))

	// Oldest first
	for i := len(entries) - 1; i >= 0; i-- {
		printLogEntry(entries[i])
	}
}

func printLogEntry(entry *primary.LogEntry) {
	actor := entry.Actor
	if actor == "" {
		actor = "-"
	}

	fmt.Printf("%s | %-12s | %s %-6s | %s/%s",
		formatTimestamp(entry.CreatedAt),
		actor,
		actionIcon(entry.Action),
		entry.Action,
		entry.Dataset,
		entry.RecordID,
	)

	if entry.Action == "update" && entry.Field != "" {
		fmt.Printf(" | %s: %s -> %s", entry.Field, orEmpty(entry.OldValue), orEmpty(entry.NewValue))
	}

	fmt.Println()
}

func actionIcon(action string) string {
	switch action {
	case "create":
		return "+"
	case "update":
		return "~"
	case "delete":
		return "-"
	default:
		return "?"
	}
}

func orEmpty(v string) string {
	if v == "" {
		return `""`
	}
	return v
}

// formatTimestamp renders a stored UTC timestamp in the workspace timezone.
func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	if loc, err := wire.Config().Location(); err == nil {
		t = t.In(loc)
	}
	return t.Format("2006-01-02 15:04:05")
}

func init() {
	// log show flags
	logShowCmd.Flags().StringP("dataset", "D", "", "Filter by dataset (orders, equipment)")
	logShowCmd.Flags().String("by", "", "Filter by actor")
	logShowCmd.Flags().String("action", "", "Filter by action (create, update, delete)")
	logShowCmd.Flags().IntP("limit", "n", 50, "Maximum entries to show")

	// log prune flags
	logPruneCmd.Flags().Int("days", 90, "Delete entries older than N days")

	logCmd.AddCommand(logShowCmd)
	logCmd.AddCommand(logPruneCmd)
}

// LogCmd returns the log command with all subcommands attached.
func LogCmd() *cobra.Command {
	return logCmd
}
