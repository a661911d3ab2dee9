package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/core/table"
	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/ports/secondary"
)

// Syncer mirrors the dataset to its remote copy.
type Syncer interface {
	Enabled() bool
	Pull(ctx context.Context) (*primary.PullResult, error)
	ApplyPull(ctx context.Context, pulled *primary.PullResult) (*primary.SaveResult, error)
	Push(ctx context.Context, t *table.Table, force bool) (*primary.PushResult, error)
}

// RecordStoreImpl implements the RecordStore interface.
type RecordStoreImpl struct {
	schema     *table.Schema
	file       secondary.TableFile
	backups    secondary.BackupStore
	syncer     Syncer
	maxBackups int
	logger     *zap.Logger

	// unreadable is set when the last Load found a corrupt file and no
	// backup; saving would replace the only copy with a partial table.
	unreadable *failure.StorageError
}

// NewRecordStore creates a new RecordStore with injected dependencies.
// syncer may be nil.
func NewRecordStore(schema *table.Schema, file secondary.TableFile, backups secondary.BackupStore, syncer Syncer, maxBackups int, logger *zap.Logger) *RecordStoreImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordStoreImpl{
		schema:     schema,
		file:       file,
		backups:    backups,
		syncer:     syncer,
		maxBackups: maxBackups,
		logger:     logger.With(zap.String("dataset", schema.Name)),
	}
}

// Dataset returns the dataset name.
func (s *RecordStoreImpl) Dataset() string {
	return s.schema.Name
}

// Schema returns the canonical schema.
func (s *RecordStoreImpl) Schema() *table.Schema {
	return s.schema
}

// Load reads the dataset, falling back to the latest backup and then to an
// empty table. A missing or empty file is filled from the remote copy when
// sync is enabled.
func (s *RecordStoreImpl) Load(ctx context.Context) *primary.LoadResult {
	t, err := s.file.Read(ctx)
	if err == nil {
		s.unreadable = nil
		if len(t.Columns) == 0 {
			return s.loadRemote(ctx)
		}
		return &primary.LoadResult{Table: s.schema.Reconcile(t), Source: primary.LoadSourceFile}
	}
	if errors.Is(err, fs.ErrNotExist) {
		s.unreadable = nil
		return s.loadRemote(ctx)
	}

	warning := &failure.StorageError{Op: "load", Path: s.file.Path(), Err: err}
	s.logger.Warn("failed to load dataset file", zap.Error(err))
	s.unreadable = warning

	latest, lerr := s.backups.Latest(ctx)
	if lerr != nil || latest == "" {
		return &primary.LoadResult{Table: s.schema.Empty(), Source: primary.LoadSourceEmpty, Warning: warning}
	}

	bt, berr := s.file.ReadFrom(ctx, latest)
	if berr != nil {
		s.logger.Warn("failed to load latest backup", zap.String("backup", latest), zap.Error(berr))
		return &primary.LoadResult{Table: s.schema.Empty(), Source: primary.LoadSourceEmpty, Warning: warning}
	}

	s.unreadable = nil
	restored := s.schema.Reconcile(bt)
	if werr := s.file.Write(ctx, restored); werr != nil {
		s.logger.Warn("failed to restore dataset file from backup", zap.String("backup", latest), zap.Error(werr))
	} else {
		s.logger.Info("restored dataset file from backup", zap.String("backup", latest))
	}
	return &primary.LoadResult{
		Table:        restored,
		Source:       primary.LoadSourceBackup,
		RestoredFrom: latest,
		Warning:      warning,
	}
}

// Save validates and writes t, then backs it up, prunes old backups and
// pushes to the remote when sync is enabled.
func (s *RecordStoreImpl) Save(ctx context.Context, t *table.Table) (*primary.SaveResult, error) {
	if s.unreadable != nil {
		return nil, &failure.StorageError{
			Op:   "save",
			Path: s.file.Path(),
			Err:  fmt.Errorf("%w (%v); restore a backup or run sync pull first", primary.ErrUnreadableDataset, s.unreadable.Err),
		}
	}
	if err := s.schema.Validate(t); err != nil {
		return nil, err
	}
	out := s.schema.Reconcile(t)

	if err := s.file.Write(ctx, out); err != nil {
		return nil, &failure.StorageError{Op: "write", Path: s.file.Path(), Err: err}
	}
	result := &primary.SaveResult{Path: s.file.Path()}

	backup, err := s.backups.Create(ctx)
	if err != nil {
		return nil, &failure.StorageError{Op: "backup", Path: s.file.Path(), Err: err}
	}
	result.BackupPath = backup

	pruned, err := s.backups.Prune(ctx, s.maxBackups)
	if err != nil {
		s.logger.Warn("failed to prune backups", zap.Error(err))
		result.Warnings = append(result.Warnings, &failure.StorageError{Op: "prune", Err: err})
	}
	result.Pruned = pruned

	if s.syncer != nil && s.syncer.Enabled() {
		push, err := s.syncer.Push(ctx, out, false)
		if err != nil {
			s.logger.Warn("saved locally but push failed", zap.Error(err))
			result.Warnings = append(result.Warnings, err)
		} else {
			result.Push = push
		}
	}

	s.logger.Debug("saved dataset",
		zap.Int("rows", out.Len()),
		zap.String("backup", backup),
		zap.Int("pruned", len(pruned)),
	)
	return result, nil
}

// loadRemote seeds a missing or empty dataset from the remote copy. Remote
// failures leave the empty table in place and are reported as a warning.
func (s *RecordStoreImpl) loadRemote(ctx context.Context) *primary.LoadResult {
	empty := &primary.LoadResult{Table: s.schema.Empty(), Source: primary.LoadSourceEmpty}
	if s.syncer == nil || !s.syncer.Enabled() {
		return empty
	}

	pulled, err := s.syncer.Pull(ctx)
	if err != nil {
		s.logger.Warn("failed to seed dataset from remote", zap.Error(err))
		empty.Warning = err
		return empty
	}
	if pulled.Table == nil {
		return empty
	}
	if _, err := s.syncer.ApplyPull(ctx, pulled); err != nil {
		s.logger.Warn("failed to write pulled dataset", zap.Error(err))
		empty.Warning = err
		return empty
	}

	s.logger.Info("seeded dataset from remote", zap.String("revision", pulled.Revision), zap.Int("rows", pulled.Table.Len()))
	return &primary.LoadResult{Table: pulled.Table, Source: primary.LoadSourceRemote}
}

// NextIdentifier returns the identifier for the next record of t.
func (s *RecordStoreImpl) NextIdentifier(t *table.Table) int {
	return s.schema.NextIdentifier(t)
}

// FindBy returns the rows of t whose field matches query.
func (s *RecordStoreImpl) FindBy(t *table.Table, field, query string) (*table.Table, error) {
	return s.schema.FindBy(t, field, query)
}

// Ensure RecordStoreImpl implements the interface
var _ primary.RecordStore = (*RecordStoreImpl)(nil)
