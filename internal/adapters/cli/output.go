// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/maintlog/internal/ports/primary"
)

// Display layouts, matching the on-disk order dates.
const (
	displayDate     = "02/01/2006"
	displayDateTime = "02/01/2006 15:04"
)

var (
	warnMark  = color.New(color.FgYellow).Sprint("⚠")
	urgentTag = color.New(color.FgRed).Sprint("!")
)

// printSave reports where a save landed and anything that went wrong after
// the local write.
func printSave(out io.Writer, save *primary.SaveResult) {
	if save == nil {
		return
	}
	if save.BackupPath != "" {
		fmt.Fprintf(out, "  Backup: %s\n", save.BackupPath)
	}
	if len(save.Pruned) > 0 {
		fmt.Fprintf(out, "  Pruned %d old backup(s)\n", len(save.Pruned))
	}
	if save.Push != nil {
		if save.Push.Noop {
			fmt.Fprintf(out, "  Remote already up to date (%s)\n", shortRevision(save.Push.Revision))
		} else {
			fmt.Fprintf(out, "  Pushed revision %s\n", shortRevision(save.Push.Revision))
		}
	}
	for _, w := range save.Warnings {
		fmt.Fprintf(out, "  %s %v\n", warnMark, w)
	}
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	if rev == "" {
		return "-"
	}
	return rev
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(displayDate)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(displayDateTime)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
