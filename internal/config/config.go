// Package config loads and saves the workspace configuration kept in
// .maintlog/config.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"
)

// Environment overrides.
const (
	EnvGitHubToken = "MAINTLOG_GITHUB_TOKEN"
	EnvDir         = "MAINTLOG_DIR"
	EnvPassword    = "MAINTLOG_PASSWORD"
)

// StateDir is the per-workspace directory holding config and journal.
const StateDir = ".maintlog"

// Defaults.
const (
	CurrentVersion        = "1"
	DefaultOrdersFile     = "ordens_servico4.0.csv"
	DefaultEquipmentFile  = "pmoc.csv"
	DefaultBackupDir      = "backups"
	DefaultMaxBackups     = 10
	DefaultTimezone       = "America/Sao_Paulo"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "console"
	DefaultHTTPTimeoutSec = 30
)

// Config represents the workspace configuration.
type Config struct {
	Version string `json:"version"`

	// Local storage
	DataDir       string `json:"data_dir,omitempty"`  // relative to the workspace
	BackupDir     string `json:"backup_dir,omitempty"` // relative to the data dir
	OrdersFile    string `json:"orders_file,omitempty"`
	EquipmentFile string `json:"equipment_file,omitempty"`
	MaxBackups    int    `json:"max_backups,omitempty"`
	Encoding      string `json:"encoding,omitempty"` // utf-8 or windows-1252
	Timezone      string `json:"timezone,omitempty"`

	// Remote sync
	GitHubRepo        string `json:"github_repo,omitempty"` // owner/name
	GitHubFilepath    string `json:"github_filepath,omitempty"`
	EquipmentFilepath string `json:"equipment_filepath,omitempty"`
	GitHubToken       string `json:"github_token,omitempty"`
	GitHubBranch      string `json:"github_branch,omitempty"`
	GitHubAPIURL      string `json:"github_api_url,omitempty"`
	HTTPTimeoutSecs   int    `json:"http_timeout_seconds,omitempty"`

	// Orders
	Executors []string `json:"executors,omitempty"` // empty means anyone

	// Logging
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	SupervisorPasswordHash string `json:"supervisor_password_hash,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if c.BackupDir == "" {
		c.BackupDir = DefaultBackupDir
	}
	if c.OrdersFile == "" {
		c.OrdersFile = DefaultOrdersFile
	}
	if c.EquipmentFile == "" {
		c.EquipmentFile = DefaultEquipmentFile
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = DefaultMaxBackups
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.GitHubFilepath == "" {
		c.GitHubFilepath = DefaultOrdersFile
	}
	if c.EquipmentFilepath == "" {
		c.EquipmentFilepath = DefaultEquipmentFile
	}
	if c.HTTPTimeoutSecs == 0 {
		c.HTTPTimeoutSecs = DefaultHTTPTimeoutSec
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
}

// Path returns the config file location for a workspace.
func Path(dir string) string {
	return filepath.Join(dir, StateDir, "config.json")
}

// LoadConfig reads .maintlog/config.json from the specified directory.
// A missing file yields the defaults.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig writes config.json to the workspace directory.
func SaveConfig(dir string, cfg *Config) error {
	stateDir := filepath.Join(dir, StateDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", StateDir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file may hold a credential
	if err := os.WriteFile(Path(dir), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Exists reports whether the workspace has a config file.
func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.MaxBackups < 0 {
		return fmt.Errorf("max_backups must not be negative (got %d)", c.MaxBackups)
	}
	if c.HTTPTimeoutSecs < 0 {
		return fmt.Errorf("http_timeout_seconds must not be negative (got %d)", c.HTTPTimeoutSecs)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.GitHubRepo != "" {
		owner, name, ok := strings.Cut(c.GitHubRepo, "/")
		if !ok || owner == "" || name == "" {
			return fmt.Errorf("github_repo must be owner/name (got %q)", c.GitHubRepo)
		}
	}
	return nil
}

// Token returns the GitHub credential, preferring the environment.
func (c *Config) Token() string {
	if t := strings.TrimSpace(os.Getenv(EnvGitHubToken)); t != "" {
		return t
	}
	return c.GitHubToken
}

// SyncEnabled reports whether remote sync can run.
func (c *Config) SyncEnabled() bool {
	return c.GitHubRepo != "" && c.Token() != ""
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// HTTPTimeout returns the remote request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSecs) * time.Second
}

// DataPath resolves the data directory against the workspace.
func (c *Config) DataPath(dir string) string {
	if filepath.IsAbs(c.DataDir) {
		return c.DataDir
	}
	return filepath.Join(dir, c.DataDir)
}

// BackupPath resolves the backup directory against the data directory.
func (c *Config) BackupPath(dir string) string {
	if filepath.IsAbs(c.BackupDir) {
		return c.BackupDir
	}
	return filepath.Join(c.DataPath(dir), c.BackupDir)
}

// JournalPath returns the journal database location.
func JournalPath(dir string) string {
	return filepath.Join(dir, StateDir, "journal.db")
}
