// Package wire provides dependency injection for the maintlog application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/maintlog/internal/adapters/cli"
	"github.com/example/maintlog/internal/adapters/excel"
	"github.com/example/maintlog/internal/adapters/filesystem"
	"github.com/example/maintlog/internal/adapters/github"
	"github.com/example/maintlog/internal/adapters/sqlite"
	"github.com/example/maintlog/internal/app"
	"github.com/example/maintlog/internal/config"
	"github.com/example/maintlog/internal/core/equipment"
	"github.com/example/maintlog/internal/core/order"
	"github.com/example/maintlog/internal/core/table"
	"github.com/example/maintlog/internal/db"
	"github.com/example/maintlog/internal/logging"
	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/ports/secondary"
)

// Dataset names accepted by DatasetFor.
const (
	Orders    = "orders"
	Equipment = "equipment"
)

// Options select the workspace and logging for the current invocation.
type Options struct {
	Dir      string // workspace directory
	LogLevel string // overrides the configured level when set
}

// Dataset groups the services of one dataset.
type Dataset struct {
	Store    primary.RecordStore
	Sync     primary.SyncService
	Backups  primary.BackupService
	Exchange primary.ExchangeService
}

var (
	opts Options

	cfg              *config.Config
	logger           *zap.Logger
	database         *sql.DB
	datasets         map[string]*Dataset
	orderService     primary.OrderService
	equipmentService primary.EquipmentService
	logService       primary.LogService
	supervisor       primary.SupervisorGate

	once    sync.Once
	initErr error
)

// Configure sets the options used by the first service lookup. It has no
// effect once services are initialized.
func Configure(o Options) {
	opts = o
}

// Init initializes all services and returns the first error met.
func Init() error {
	once.Do(initServices)
	return initErr
}

// Workspace returns the configured workspace directory.
func Workspace() string {
	if opts.Dir != "" {
		return opts.Dir
	}
	if dir := os.Getenv(config.EnvDir); dir != "" {
		return dir
	}
	return "."
}

// Config returns the loaded workspace configuration.
func Config() *config.Config {
	mustInit()
	return cfg
}

// Logger returns the shared logger.
func Logger() *zap.Logger {
	mustInit()
	return logger
}

// OrderService returns the singleton OrderService instance.
func OrderService() primary.OrderService {
	mustInit()
	return orderService
}

// EquipmentService returns the singleton EquipmentService instance.
func EquipmentService() primary.EquipmentService {
	mustInit()
	return equipmentService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	mustInit()
	return logService
}

// Supervisor returns the supervisor password gate.
func Supervisor() primary.SupervisorGate {
	mustInit()
	return supervisor
}

// DatasetFor returns the services of the named dataset.
func DatasetFor(name string) (*Dataset, error) {
	mustInit()
	d, ok := datasets[name]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q (valid: %s, %s)", name, Orders, Equipment)
	}
	return d, nil
}

// Close releases the journal database and flushes the logger.
func Close() {
	if database != nil {
		_ = database.Close()
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

// Reload closes the initialized services so the next lookup builds them
// again from the saved configuration.
func Reload() {
	Close()
	cfg, logger, database, datasets = nil, nil, nil, nil
	orderService, equipmentService, logService, supervisor = nil, nil, nil, nil
	once = sync.Once{}
	initErr = nil
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	dir := Workspace()

	cfg, initErr = config.LoadConfig(dir)
	if initErr != nil {
		return
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, initErr = logging.NewLogger(level, cfg.LogFormat, "maintlog")
	if initErr != nil {
		return
	}

	loc, err := cfg.Location()
	if err != nil {
		initErr = err
		return
	}

	database, initErr = db.Open(config.JournalPath(dir))
	if initErr != nil {
		initErr = fmt.Errorf("failed to open journal: %w", initErr)
		return
	}
	journal := sqlite.NewSyncJournalRepository(database)
	changeLogRepo := sqlite.NewChangeLogRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(changeLogRepo)

	remote, err := newRemote()
	if err != nil {
		// Local operations continue without sync.
		logger.Warn("remote sync disabled", zap.Error(err))
	}

	orders, err := newDataset(dir, order.Schema, cfg.OrdersFile, cfg.GitHubFilepath, remote, journal)
	if err != nil {
		initErr = err
		return
	}
	units, err := newDataset(dir, equipment.Schema, cfg.EquipmentFile, cfg.EquipmentFilepath, remote, journal)
	if err != nil {
		initErr = err
		return
	}
	datasets = map[string]*Dataset{Orders: orders, Equipment: units}

	orderService = app.NewOrderService(orders.Store, logWriter, loc, cfg.Executors, logger)
	equipmentService = app.NewEquipmentService(units.Store, logWriter, loc, logger)
	logService = app.NewLogService(changeLogRepo)
	supervisor = app.NewSupervisor(cfg.SupervisorPasswordHash)
}

// newRemote returns nil when sync is not configured.
func newRemote() (secondary.RemoteStore, error) {
	if !cfg.SyncEnabled() {
		return nil, nil
	}
	return remoteFor(cfg)
}

// RemoteFor builds a remote store for c regardless of the saved
// configuration. Used to verify settings before they are saved.
func RemoteFor(c *config.Config) (secondary.RemoteStore, error) {
	mustInit()
	return remoteFor(c)
}

func remoteFor(c *config.Config) (secondary.RemoteStore, error) {
	client, err := github.NewClient(github.Config{
		APIURL:  c.GitHubAPIURL,
		Repo:    c.GitHubRepo,
		Branch:  c.GitHubBranch,
		Token:   c.Token(),
		Timeout: c.HTTPTimeout(),
	}, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newDataset(dir string, schema *table.Schema, fileName, remotePath string, remote secondary.RemoteStore, journal secondary.SyncJournal) (*Dataset, error) {
	codec, err := filesystem.NewCSVCodec(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	remoteCodec, err := filesystem.NewCSVCodec("")
	if err != nil {
		return nil, err
	}

	livePath := filepath.Join(cfg.DataPath(dir), fileName)
	prefix := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	dsLogger := logger.With(zap.String("dataset", schema.Name))

	file := filesystem.NewTableFile(livePath, codec)
	backups := filesystem.NewBackupStore(livePath, cfg.BackupPath(dir), prefix, dsLogger)

	syncService := app.NewSyncService(app.SyncServiceConfig{
		Schema:     schema,
		RemotePath: remotePath,
		Remote:     remote,
		Journal:    journal,
		File:       file,
		Backups:    backups,
		MaxBackups: cfg.MaxBackups,
		Codec:      remoteCodec,
		Logger:     logger,
	})
	store := app.NewRecordStore(schema, file, backups, syncService, cfg.MaxBackups, logger)

	return &Dataset{
		Store:    store,
		Sync:     syncService,
		Backups:  app.NewBackupService(backups, cfg.MaxBackups, dsLogger),
		Exchange: app.NewExchangeService(store, excel.NewWorkbook()),
	}, nil
}

func mustInit() {
	if err := Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize maintlog: %v\n", err)
		os.Exit(1)
	}
}

// OrderAdapter returns a new OrderAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func OrderAdapter() *cliadapter.OrderAdapter {
	return OrderAdapterWithOutput(os.Stdout)
}

// OrderAdapterWithOutput returns a new OrderAdapter writing to the given output.
func OrderAdapterWithOutput(out io.Writer) *cliadapter.OrderAdapter {
	return cliadapter.NewOrderAdapter(OrderService(), out)
}

// EquipmentAdapter returns a new EquipmentAdapter writing to stdout.
func EquipmentAdapter() *cliadapter.EquipmentAdapter {
	return cliadapter.NewEquipmentAdapter(EquipmentService(), os.Stdout)
}

// SyncAdapter returns a SyncAdapter for the named dataset writing to stdout.
func SyncAdapter(name string) (*cliadapter.SyncAdapter, error) {
	d, err := DatasetFor(name)
	if err != nil {
		return nil, err
	}
	return cliadapter.NewSyncAdapter(d.Sync, d.Store, os.Stdout), nil
}

// BackupAdapter returns a BackupAdapter for the named dataset writing to stdout.
func BackupAdapter(name string) (*cliadapter.BackupAdapter, error) {
	d, err := DatasetFor(name)
	if err != nil {
		return nil, err
	}
	return cliadapter.NewBackupAdapter(d.Backups, os.Stdout), nil
}
