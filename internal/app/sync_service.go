package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/core/syncstate"
	"github.com/example/maintlog/internal/core/table"
	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/ports/secondary"
)

// SyncServiceConfig holds the dependencies of a SyncServiceImpl.
type SyncServiceConfig struct {
	Schema     *table.Schema
	RemotePath string
	Remote     secondary.RemoteStore // nil disables sync
	Journal    secondary.SyncJournal
	File       secondary.TableFile
	Backups    secondary.BackupStore
	MaxBackups int
	Codec      secondary.TableCodec // remote encoding, always UTF-8
	Logger     *zap.Logger
}

// SyncServiceImpl implements the SyncService interface for one dataset.
type SyncServiceImpl struct {
	dataset    string
	schema     *table.Schema
	remotePath string
	remote     secondary.RemoteStore
	journal    secondary.SyncJournal
	file       secondary.TableFile
	backups    secondary.BackupStore
	maxBackups int
	codec      secondary.TableCodec
	state      syncstate.State
	logger     *zap.Logger
}

// NewSyncService creates a new SyncService with injected dependencies.
func NewSyncService(cfg SyncServiceConfig) *SyncServiceImpl {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncServiceImpl{
		dataset:    cfg.Schema.Name,
		schema:     cfg.Schema,
		remotePath: cfg.RemotePath,
		remote:     cfg.Remote,
		journal:    cfg.Journal,
		file:       cfg.File,
		backups:    cfg.Backups,
		maxBackups: cfg.MaxBackups,
		codec:      cfg.Codec,
		state:      syncstate.Initial(cfg.Remote != nil),
		logger:     logger.With(zap.String("dataset", cfg.Schema.Name)),
	}
}

// Enabled reports whether a remote is configured.
func (s *SyncServiceImpl) Enabled() bool {
	return s.remote != nil
}

// State returns the session sync state.
func (s *SyncServiceImpl) State() syncstate.State {
	return s.state
}

// Status summarizes local and remote agreement without contacting the
// remote.
func (s *SyncServiceImpl) Status(ctx context.Context) (*primary.SyncStatus, error) {
	status := &primary.SyncStatus{
		Dataset:    s.dataset,
		Enabled:    s.Enabled(),
		State:      s.state,
		RemotePath: s.remotePath,
	}

	local, err := s.file.Read(ctx)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &failure.StorageError{Op: "status", Path: s.file.Path(), Err: err}
	}
	if local != nil && len(local.Columns) > 0 {
		_, fp, err := s.encode(local)
		if err != nil {
			return nil, err
		}
		status.LocalFingerprint = fp
	}

	last, err := s.journal.LastSuccess(ctx, s.dataset)
	if err != nil {
		return nil, err
	}
	if last != nil {
		status.LastSync = recordToSyncEvent(last)
	}
	status.LocalChanged = last == nil || last.Fingerprint != status.LocalFingerprint
	return status, nil
}

// Pull fetches and reconciles the remote table. Nothing is written locally
// or journaled on success; ApplyPull does that.
func (s *SyncServiceImpl) Pull(ctx context.Context) (*primary.PullResult, error) {
	if !s.Enabled() {
		return nil, &failure.SyncError{Op: "pull", Err: primary.ErrSyncDisabled}
	}

	remote, err := s.remote.Fetch(ctx, s.remotePath)
	if errors.Is(err, secondary.ErrRemoteNotFound) {
		s.transition(syncstate.SyncSucceeded)
		s.record(ctx, secondary.SyncActionPull, secondary.SyncOutcomeNotFound, "", "", s.remotePath)
		return &primary.PullResult{}, nil
	}
	if err != nil {
		return nil, s.fail(ctx, "pull", secondary.SyncActionPull, err)
	}

	t, err := s.codec.Decode(remote.Content)
	if err != nil {
		return nil, s.fail(ctx, "pull", secondary.SyncActionPull, err)
	}
	t = s.schema.Reconcile(t)
	_, fp, err := s.encode(t)
	if err != nil {
		return nil, s.fail(ctx, "pull", secondary.SyncActionPull, err)
	}

	s.transition(syncstate.SyncSucceeded)
	return &primary.PullResult{Table: t, Revision: remote.Revision, Fingerprint: fp}, nil
}

// ApplyPull replaces the live file with a pulled table after backing up the
// local one. The pulled revision becomes the last-seen revision.
func (s *SyncServiceImpl) ApplyPull(ctx context.Context, pulled *primary.PullResult) (*primary.SaveResult, error) {
	if pulled == nil || pulled.Table == nil {
		return nil, fmt.Errorf("nothing to apply: the remote file does not exist")
	}
	if err := s.schema.Validate(pulled.Table); err != nil {
		return nil, err
	}

	result := &primary.SaveResult{Path: s.file.Path()}
	backup, err := s.backups.Create(ctx)
	if err != nil {
		return nil, &failure.StorageError{Op: "backup", Path: s.file.Path(), Err: err}
	}
	result.BackupPath = backup

	if err := s.file.Write(ctx, pulled.Table); err != nil {
		return nil, &failure.StorageError{Op: "write", Path: s.file.Path(), Err: err}
	}

	pruned, err := s.backups.Prune(ctx, s.maxBackups)
	if err != nil {
		result.Warnings = append(result.Warnings, &failure.StorageError{Op: "prune", Err: err})
	}
	result.Pruned = pruned

	s.record(ctx, secondary.SyncActionPull, secondary.SyncOutcomeOK, pulled.Revision, pulled.Fingerprint, "")
	return result, nil
}

// Push uploads t. Without force the remote must still be at the revision of
// the last successful sync; identical content is not uploaded again.
func (s *SyncServiceImpl) Push(ctx context.Context, t *table.Table, force bool) (*primary.PushResult, error) {
	if !s.Enabled() {
		return nil, &failure.SyncError{Op: "push", Err: primary.ErrSyncDisabled}
	}

	data, fp, err := s.encode(t)
	if err != nil {
		return nil, &failure.SyncError{Op: "push", Err: err}
	}

	last, err := s.journal.LastSuccess(ctx, s.dataset)
	if err != nil {
		return nil, &failure.SyncError{Op: "push", Err: err}
	}
	expected := ""
	if last != nil {
		expected = last.Revision
	}

	current := ""
	remote, err := s.remote.Fetch(ctx, s.remotePath)
	switch {
	case errors.Is(err, secondary.ErrRemoteNotFound):
	case err != nil:
		return nil, s.fail(ctx, "push", secondary.SyncActionPush, err)
	default:
		current = remote.Revision
		if bytes.Equal(remote.Content, data) {
			s.transition(syncstate.SyncSucceeded)
			s.record(ctx, secondary.SyncActionPush, secondary.SyncOutcomeNoop, current, fp, "")
			return &primary.PushResult{Revision: current, Fingerprint: fp, Noop: true}, nil
		}
	}

	if !force && current != expected {
		detail := fmt.Sprintf("remote is at %s, last synced %s", orNone(current), orNone(expected))
		s.transition(syncstate.SyncFailed)
		s.record(ctx, secondary.SyncActionPush, secondary.SyncOutcomeConflict, current, fp, detail)
		return nil, &failure.SyncError{
			Op:  "push",
			Err: fmt.Errorf("%w: %s (pull first, or push with --force)", secondary.ErrRemoteConflict, detail),
		}
	}

	message := fmt.Sprintf("Update %s (maintlog)", path.Base(s.remotePath))
	if current == "" {
		message = fmt.Sprintf("Create %s (maintlog)", path.Base(s.remotePath))
	}
	rev, err := s.remote.Put(ctx, s.remotePath, data, current, message)
	if err != nil {
		return nil, s.fail(ctx, "push", secondary.SyncActionPush, err)
	}

	s.transition(syncstate.SyncSucceeded)
	detail := ""
	if force && current != expected {
		detail = "forced over " + orNone(current)
	}
	s.record(ctx, secondary.SyncActionPush, secondary.SyncOutcomeOK, rev, fp, detail)
	s.logger.Info("pushed dataset", zap.String("revision", rev), zap.Bool("force", force))
	return &primary.PushResult{Revision: rev, Fingerprint: fp}, nil
}

// History lists recent sync attempts, newest first.
func (s *SyncServiceImpl) History(ctx context.Context, limit int) ([]*primary.SyncEvent, error) {
	records, err := s.journal.List(ctx, s.dataset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync history: %w", err)
	}
	events := make([]*primary.SyncEvent, len(records))
	for i, r := range records {
		events[i] = recordToSyncEvent(r)
	}
	return events, nil
}

// encode renders t in canonical shape and returns its fingerprint.
func (s *SyncServiceImpl) encode(t *table.Table) ([]byte, string, error) {
	data, err := s.codec.Encode(s.schema.Reconcile(t))
	if err != nil {
		return nil, "", err
	}
	return data, Fingerprint(data), nil
}

func (s *SyncServiceImpl) fail(ctx context.Context, op, action string, err error) error {
	s.transition(syncstate.SyncFailed)
	outcome := secondary.SyncOutcomeFailed
	if errors.Is(err, secondary.ErrRemoteConflict) {
		outcome = secondary.SyncOutcomeConflict
	}
	s.record(ctx, action, outcome, "", "", err.Error())
	return &failure.SyncError{Op: op, Err: err}
}

func (s *SyncServiceImpl) transition(e syncstate.Event) {
	s.state = syncstate.Next(s.state, e)
}

// record journals an attempt; journal failures never fail the sync itself.
func (s *SyncServiceImpl) record(ctx context.Context, action, outcome, revision, fingerprint, detail string) {
	err := s.journal.Record(ctx, &secondary.SyncEventRecord{
		Dataset:     s.dataset,
		Action:      action,
		Outcome:     outcome,
		Revision:    revision,
		Fingerprint: fingerprint,
		Detail:      detail,
	})
	if err != nil {
		s.logger.Warn("failed to journal sync event", zap.String("action", action), zap.Error(err))
	}
}

// Fingerprint returns the content hash used to detect unchanged data.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

// VerifyRemote checks a remote configuration before it is saved. A missing
// file is acceptable: the first push creates it.
func VerifyRemote(ctx context.Context, remote secondary.RemoteStore, remotePath string) error {
	_, err := remote.Fetch(ctx, remotePath)
	if err == nil || errors.Is(err, secondary.ErrRemoteNotFound) {
		return nil
	}
	return &failure.SyncError{Op: "verify", Err: err}
}

func orNone(rev string) string {
	if rev == "" {
		return "(none)"
	}
	return rev
}

func recordToSyncEvent(r *secondary.SyncEventRecord) *primary.SyncEvent {
	return &primary.SyncEvent{
		ID:          r.ID,
		Dataset:     r.Dataset,
		Action:      r.Action,
		Outcome:     r.Outcome,
		Revision:    r.Revision,
		Fingerprint: r.Fingerprint,
		Detail:      r.Detail,
		CreatedAt:   r.CreatedAt,
	}
}

// Ensure SyncServiceImpl implements the interface
var _ primary.SyncService = (*SyncServiceImpl)(nil)
