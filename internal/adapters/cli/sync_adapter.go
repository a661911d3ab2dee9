package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/ports/primary"
)

// SyncAdapter translates sync commands for one dataset. Pushes read the
// current table through the record store.
type SyncAdapter struct {
	sync  primary.SyncService
	store primary.RecordStore
	out   io.Writer
}

// NewSyncAdapter creates a new SyncAdapter.
func NewSyncAdapter(sync primary.SyncService, store primary.RecordStore, out io.Writer) *SyncAdapter {
	return &SyncAdapter{
		sync:  sync,
		store: store,
		out:   out,
	}
}

// Status prints how the local file relates to the last sync.
func (a *SyncAdapter) Status(ctx context.Context) error {
	status, err := a.sync.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", color.New(color.Bold).Sprint(status.Dataset))
	if !status.Enabled {
		fmt.Fprintln(a.out, "  Sync:    disabled (local only)")
		return nil
	}
	fmt.Fprintf(a.out, "  Sync:    %s\n", status.State)
	fmt.Fprintf(a.out, "  Remote:  %s\n", status.RemotePath)
	if status.LastSync != nil {
		fmt.Fprintf(a.out, "  Last:    %s %s at %s (%s)\n",
			status.LastSync.Action, status.LastSync.Outcome, shortRevision(status.LastSync.Revision), status.LastSync.CreatedAt)
	} else {
		fmt.Fprintln(a.out, "  Last:    never synced")
	}
	if status.LocalChanged {
		fmt.Fprintf(a.out, "  Local:   %s\n", color.New(color.FgYellow).Sprint("changed since last sync"))
	} else {
		fmt.Fprintf(a.out, "  Local:   %s\n", color.New(color.FgGreen).Sprint("in sync"))
	}
	return nil
}

// Pull fetches the remote table and, unless dryRun, replaces the live file.
func (a *SyncAdapter) Pull(ctx context.Context, dryRun bool) error {
	res, err := a.sync.Pull(ctx)
	if err != nil {
		return err
	}
	if res.Table == nil {
		fmt.Fprintf(a.out, "Remote file does not exist yet; nothing to pull for %s\n", a.store.Dataset())
		return nil
	}

	if dryRun {
		fmt.Fprintf(a.out, "Would replace %s with %d rows from revision %s\n",
			a.store.Dataset(), res.Table.Len(), shortRevision(res.Revision))
		return nil
	}

	save, err := a.sync.ApplyPull(ctx, res)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Pulled %d rows into %s (revision %s)\n", res.Table.Len(), a.store.Dataset(), shortRevision(res.Revision))
	printSave(a.out, save)
	return nil
}

// Push uploads the current table. A dataset whose file could not be read is
// never pushed, even with force.
func (a *SyncAdapter) Push(ctx context.Context, force bool) error {
	loaded := a.store.Load(ctx)
	if loaded.Unreadable() {
		return &failure.StorageError{
			Op:  "push",
			Err: fmt.Errorf("%w: %v; refusing to push an empty table", primary.ErrUnreadableDataset, loaded.Warning),
		}
	}
	if loaded.Warning != nil {
		fmt.Fprintf(a.out, "%s %v\n", warnMark, loaded.Warning)
	}

	res, err := a.sync.Push(ctx, loaded.Table, force)
	if err != nil {
		return err
	}
	if res.Noop {
		fmt.Fprintf(a.out, "Remote already up to date for %s (revision %s)\n", a.store.Dataset(), shortRevision(res.Revision))
		return nil
	}
	fmt.Fprintf(a.out, "✓ Pushed %d rows of %s (revision %s)\n", loaded.Table.Len(), a.store.Dataset(), shortRevision(res.Revision))
	return nil
}

// History prints recent sync attempts.
func (a *SyncAdapter) History(ctx context.Context, limit int) error {
	events, err := a.sync.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintf(a.out, "No sync history for %s\n", a.store.Dataset())
		return nil
	}

	fmt.Fprintf(a.out, "\n%-28s %-5s %-10s %-8s %s\n", "WHEN", "OP", "OUTCOME", "REV", "DETAIL")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────")
	for _, e := range events {
		outcome := fmt.Sprintf("%-10s", e.Outcome)
		switch e.Outcome {
		case "conflict", "failed":
			outcome = color.New(color.FgRed).Sprint(outcome)
		case "ok":
			outcome = color.New(color.FgGreen).Sprint(outcome)
		}
		fmt.Fprintf(a.out, "%-28s %-5s %s %-8s %s\n", e.CreatedAt, e.Action, outcome, shortRevision(e.Revision), e.Detail)
	}
	fmt.Fprintln(a.out)
	return nil
}
