package app

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/example/maintlog/internal/core/table"
	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/ports/secondary"
)

// ============================================================================
// Table file
// ============================================================================

var _ secondary.TableFile = (*mockTableFile)(nil)

// mockTableFile keeps the live table and every backup in memory.
type mockTableFile struct {
	path     string
	table    *table.Table // nil means the file does not exist
	files    map[string]*table.Table
	readErr  error
	writeErr error
	writes   int
}

func newMockTableFile(name string) *mockTableFile {
	return &mockTableFile{
		path:  name,
		files: make(map[string]*table.Table),
	}
}

func (m *mockTableFile) Path() string { return m.path }

func (m *mockTableFile) Read(ctx context.Context) (*table.Table, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.table == nil {
		return nil, fmt.Errorf("failed to read %s: %w", m.path, fs.ErrNotExist)
	}
	return m.table.Clone(), nil
}

func (m *mockTableFile) ReadFrom(ctx context.Context, p string) (*table.Table, error) {
	t, ok := m.files[p]
	if !ok {
		return nil, fmt.Errorf("failed to read %s: %w", p, fs.ErrNotExist)
	}
	return t.Clone(), nil
}

func (m *mockTableFile) Write(ctx context.Context, t *table.Table) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.table = t.Clone()
	m.readErr = nil
	m.writes++
	return nil
}

// ============================================================================
// Backup store
// ============================================================================

var _ secondary.BackupStore = (*mockBackupStore)(nil)

// mockBackupStore snapshots the table held by a mockTableFile.
type mockBackupStore struct {
	file      *mockTableFile
	paths     []string // oldest first
	seq       int
	createErr error
}

func newMockBackupStore(file *mockTableFile) *mockBackupStore {
	return &mockBackupStore{file: file}
}

func (m *mockBackupStore) Create(ctx context.Context) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	if m.file.table == nil || len(m.file.table.Columns) == 0 {
		return "", nil
	}
	m.seq++
	p := path.Join("backups", fmt.Sprintf("backup_%03d.csv", m.seq))
	m.file.files[p] = m.file.table.Clone()
	m.paths = append(m.paths, p)
	return p, nil
}

func (m *mockBackupStore) Prune(ctx context.Context, max int) ([]string, error) {
	if max < 1 || len(m.paths) <= max {
		return nil, nil
	}
	n := len(m.paths) - max
	removed := append([]string{}, m.paths[:n]...)
	for _, p := range removed {
		delete(m.file.files, p)
	}
	m.paths = m.paths[n:]
	return removed, nil
}

func (m *mockBackupStore) Latest(ctx context.Context) (string, error) {
	if len(m.paths) == 0 {
		return "", nil
	}
	return m.paths[len(m.paths)-1], nil
}

func (m *mockBackupStore) List(ctx context.Context) ([]*secondary.BackupRecord, error) {
	var out []*secondary.BackupRecord
	for i := len(m.paths) - 1; i >= 0; i-- {
		out = append(out, &secondary.BackupRecord{Name: path.Base(m.paths[i]), Path: m.paths[i]})
	}
	return out, nil
}

func (m *mockBackupStore) Restore(ctx context.Context, name string) error {
	t, ok := m.file.files[path.Join("backups", name)]
	if !ok {
		return fmt.Errorf("backup %s not found", name)
	}
	m.file.table = t.Clone()
	return nil
}

// ============================================================================
// Remote store
// ============================================================================

var _ secondary.RemoteStore = (*mockRemoteStore)(nil)

// mockRemoteStore behaves like a contents API: puts must name the revision
// they replace.
type mockRemoteStore struct {
	files    map[string]*secondary.RemoteFile
	rev      int
	fetchErr error
	putErr   error
	puts     int
	messages []string
}

func newMockRemoteStore() *mockRemoteStore {
	return &mockRemoteStore{files: make(map[string]*secondary.RemoteFile)}
}

func (m *mockRemoteStore) Fetch(ctx context.Context, p string) (*secondary.RemoteFile, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	f, ok := m.files[p]
	if !ok {
		return nil, secondary.ErrRemoteNotFound
	}
	return &secondary.RemoteFile{Path: f.Path, Content: append([]byte{}, f.Content...), Revision: f.Revision}, nil
}

func (m *mockRemoteStore) Put(ctx context.Context, p string, content []byte, revision, message string) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	current, ok := m.files[p]
	switch {
	case !ok && revision != "":
		return "", fmt.Errorf("%w: file does not exist", secondary.ErrRemoteConflict)
	case ok && current.Revision != revision:
		return "", fmt.Errorf("%w: at %s", secondary.ErrRemoteConflict, current.Revision)
	}
	m.messages = append(m.messages, message)
	return m.set(p, content), nil
}

// set stores content directly, as another client would.
func (m *mockRemoteStore) set(p string, content []byte) string {
	m.rev++
	m.puts++
	rev := fmt.Sprintf("rev-%d", m.rev)
	m.files[p] = &secondary.RemoteFile{Path: p, Content: append([]byte{}, content...), Revision: rev}
	return rev
}

// ============================================================================
// Sync journal
// ============================================================================

var _ secondary.SyncJournal = (*mockSyncJournal)(nil)

type mockSyncJournal struct {
	events    []*secondary.SyncEventRecord // oldest first
	recordErr error
}

func newMockSyncJournal() *mockSyncJournal {
	return &mockSyncJournal{}
}

func (m *mockSyncJournal) Record(ctx context.Context, e *secondary.SyncEventRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	c := *e
	if c.ID == "" {
		c.ID = fmt.Sprintf("EV-%03d", len(m.events)+1)
	}
	m.events = append(m.events, &c)
	return nil
}

func (m *mockSyncJournal) LastSuccess(ctx context.Context, dataset string) (*secondary.SyncEventRecord, error) {
	for i := len(m.events) - 1; i >= 0; i-- {
		if e := m.events[i]; e.Dataset == dataset && e.Succeeded() {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockSyncJournal) List(ctx context.Context, dataset string, limit int) ([]*secondary.SyncEventRecord, error) {
	var out []*secondary.SyncEventRecord
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].Dataset != dataset {
			continue
		}
		out = append(out, m.events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockSyncJournal) last() *secondary.SyncEventRecord {
	if len(m.events) == 0 {
		return nil
	}
	return m.events[len(m.events)-1]
}

// ============================================================================
// Change log
// ============================================================================

var _ secondary.LogWriter = (*mockLogWriter)(nil)

// mockLogWriter records entries as "action dataset id [field old->new]".
type mockLogWriter struct {
	entries []string
}

func (m *mockLogWriter) LogCreate(ctx context.Context, dataset, recordID string) error {
	m.entries = append(m.entries, fmt.Sprintf("create %s %s", dataset, recordID))
	return nil
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, dataset, recordID, field, oldValue, newValue string) error {
	m.entries = append(m.entries, fmt.Sprintf("update %s %s %s %s->%s", dataset, recordID, field, oldValue, newValue))
	return nil
}

func (m *mockLogWriter) LogDelete(ctx context.Context, dataset, recordID string) error {
	m.entries = append(m.entries, fmt.Sprintf("delete %s %s", dataset, recordID))
	return nil
}

var _ secondary.ChangeLogRepository = (*mockChangeLogRepository)(nil)

type mockChangeLogRepository struct {
	records  []*secondary.ChangeLogRecord
	pruned   int
	lastDays int
}

func (m *mockChangeLogRepository) Create(ctx context.Context, entry *secondary.ChangeLogRecord) error {
	m.records = append(m.records, entry)
	return nil
}

func (m *mockChangeLogRepository) List(ctx context.Context, filters secondary.ChangeLogFilters) ([]*secondary.ChangeLogRecord, error) {
	var out []*secondary.ChangeLogRecord
	for _, r := range m.records {
		if filters.Dataset != "" && r.Dataset != filters.Dataset {
			continue
		}
		if filters.RecordID != "" && r.RecordID != filters.RecordID {
			continue
		}
		if filters.Actor != "" && r.Actor != filters.Actor {
			continue
		}
		if filters.Action != "" && r.Action != filters.Action {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *mockChangeLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	m.lastDays = days
	return m.pruned, nil
}

// ============================================================================
// Syncer and record store
// ============================================================================

var _ Syncer = (*mockSyncer)(nil)

type mockSyncer struct {
	enabled bool
	err     error
	pushed  []*table.Table

	pulled   *primary.PullResult // nil means the remote file does not exist
	pullErr  error
	applied  []*table.Table
	applyErr error
}

func (m *mockSyncer) Enabled() bool { return m.enabled }

func (m *mockSyncer) Pull(ctx context.Context) (*primary.PullResult, error) {
	if m.pullErr != nil {
		return nil, m.pullErr
	}
	if m.pulled == nil {
		return &primary.PullResult{}, nil
	}
	return m.pulled, nil
}

func (m *mockSyncer) ApplyPull(ctx context.Context, pulled *primary.PullResult) (*primary.SaveResult, error) {
	if m.applyErr != nil {
		return nil, m.applyErr
	}
	m.applied = append(m.applied, pulled.Table.Clone())
	return &primary.SaveResult{}, nil
}

func (m *mockSyncer) Push(ctx context.Context, t *table.Table, force bool) (*primary.PushResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.pushed = append(m.pushed, t.Clone())
	return &primary.PushResult{Revision: fmt.Sprintf("rev-%d", len(m.pushed))}, nil
}

// testStack is one dataset wired over in-memory adapters.
type testStack struct {
	file    *mockTableFile
	backups *mockBackupStore
	store   *RecordStoreImpl
	log     *mockLogWriter
}

func newTestStack(schema *table.Schema, maxBackups int, syncer Syncer) *testStack {
	file := newMockTableFile(schema.Name + ".csv")
	backups := newMockBackupStore(file)
	return &testStack{
		file:    file,
		backups: backups,
		store:   NewRecordStore(schema, file, backups, syncer, maxBackups, nil),
		log:     &mockLogWriter{},
	}
}
