package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/example/maintlog/internal/ports/secondary"
)

// BackupTimeLayout is the timestamp embedded in backup names.
const BackupTimeLayout = "20060102_150405"

// BackupStore implements secondary.BackupStore with timestamped copies of the
// live file in a backup directory.
type BackupStore struct {
	source  string
	dir     string
	prefix  string
	pattern *regexp.Regexp
	now     func() time.Time
	logger  *zap.Logger
}

// NewBackupStore creates a backup store for source. Backups are named
// <prefix>_<YYYYMMDD_HHMMSS>.csv inside dir.
func NewBackupStore(source, dir, prefix string, logger *zap.Logger) *BackupStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupStore{
		source:  source,
		dir:     dir,
		prefix:  prefix,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `_\d{8}_\d{6}(_\d{2,})?\.csv$`),
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock replaces the clock used to stamp backups.
func (b *BackupStore) WithClock(now func() time.Time) *BackupStore {
	b.now = now
	return b
}

// Create copies the live file into a new backup slot.
func (b *BackupStore) Create(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(b.source)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", b.source, err)
	}
	if len(data) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := b.prefix + "_" + b.now().Format(BackupTimeLayout)
	path := filepath.Join(b.dir, stamp+".csv")
	for n := 1; exists(path); n++ {
		path = filepath.Join(b.dir, fmt.Sprintf("%s_%02d.csv", stamp, n))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", path, err)
	}
	return path, nil
}

// Prune deletes the oldest backups until at most max remain. A max below
// one disables pruning.
func (b *BackupStore) Prune(ctx context.Context, max int) ([]string, error) {
	if max < 1 {
		return nil, nil
	}
	names, err := b.names()
	if err != nil {
		return nil, err
	}

	var removed []string
	for len(names) > max {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		path := filepath.Join(b.dir, names[0])
		names = names[1:]
		if err := os.Remove(path); err != nil {
			b.logger.Warn("failed to remove old backup", zap.String("path", path), zap.Error(err))
			continue
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// Latest returns the most recent backup path, or "".
func (b *BackupStore) Latest(ctx context.Context) (string, error) {
	names, err := b.names()
	if err != nil || len(names) == 0 {
		return "", err
	}
	return filepath.Join(b.dir, names[len(names)-1]), nil
}

// List returns the backups, newest first.
func (b *BackupStore) List(ctx context.Context) ([]*secondary.BackupRecord, error) {
	names, err := b.names()
	if err != nil {
		return nil, err
	}

	records := make([]*secondary.BackupRecord, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		path := filepath.Join(b.dir, names[i])
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		records = append(records, &secondary.BackupRecord{
			Name:    names[i],
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return records, nil
}

// Restore overwrites the live file with the named backup's bytes.
func (b *BackupStore) Restore(ctx context.Context, name string) error {
	name = filepath.Base(name)
	if !b.pattern.MatchString(name) {
		return fmt.Errorf("backup %s not found", name)
	}
	path := filepath.Join(b.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("backup %s not found", name)
	}
	if err != nil {
		return fmt.Errorf("failed to read backup %s: %w", name, err)
	}
	return writeFileAtomic(b.source, data)
}

// names returns the backup file names, oldest first.
func (b *BackupStore) names() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && b.pattern.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var _ secondary.BackupStore = (*BackupStore)(nil)
