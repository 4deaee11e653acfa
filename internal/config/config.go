// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and GRADEBOARD_* env vars over those defaults.
// - External errors must be wrapped with this package's sentinels.
package config

import (
	"fmt"
	"path/filepath"
	"slices"
)

// Store backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Fingerprint commit policies.
const (
	// PolicyAfterStore records a fingerprint only once its records were appended.
	PolicyAfterStore = "after_store"
	// PolicyBeforeExtract records a fingerprint right after the duplicate check.
	PolicyBeforeExtract = "before_extract"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
	backends   = []string{BackendCSV, BackendSQLite}
	policies   = []string{PolicyAfterStore, PolicyBeforeExtract}
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir holds the record log, fingerprint log and sqlite database.
	DataDir string `koanf:"data_dir"`

	// StoreBackend selects csv or sqlite persistence.
	StoreBackend string `koanf:"store_backend"`

	// RecordLog, FingerprintLog and SQLiteFile are file names inside DataDir.
	RecordLog      string `koanf:"record_log"`
	FingerprintLog string `koanf:"fingerprint_log"`
	SQLiteFile     string `koanf:"sqlite_file"`

	// FingerprintPolicy is after_store or before_extract.
	FingerprintPolicy string `koanf:"fingerprint_policy"`

	// LockDataDir takes an exclusive lock on DataDir for the process lifetime.
	LockDataDir bool `koanf:"lock_data_dir"`

	// MaxUploadBytes caps POST /submissions request bodies.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// HistogramBucketWidth sets the score histogram bin width for group records.
	HistogramBucketWidth int `koanf:"histogram_bucket_width"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		DataDir:              "data",
		StoreBackend:         BackendCSV,
		RecordLog:            "all_scores.csv",
		FingerprintLog:       "fingerprints.log",
		SQLiteFile:           "grades.db",
		FingerprintPolicy:    PolicyAfterStore,
		LockDataDir:          true,
		MaxUploadBytes:       20 << 20,
		HistogramBucketWidth: 10,
	}
}

// RecordLogPath returns the record log location.
func (c *Config) RecordLogPath() string {
	return filepath.Join(c.DataDir, c.RecordLog)
}

// FingerprintLogPath returns the fingerprint log location.
func (c *Config) FingerprintLogPath() string {
	return filepath.Join(c.DataDir, c.FingerprintLog)
}

// SQLitePath returns the sqlite database location.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, c.SQLiteFile)
}

// Validate checks field values. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case !slices.Contains(logLevels, c.LogLevel):
		return fmt.Errorf("%w: log_level %q not one of %v", ErrInvalidConfig, c.LogLevel, logLevels)
	case !slices.Contains(logFormats, c.LogFormat):
		return fmt.Errorf("%w: log_format %q not one of %v", ErrInvalidConfig, c.LogFormat, logFormats)
	case !slices.Contains(backends, c.StoreBackend):
		return fmt.Errorf("%w: store_backend %q not one of %v", ErrInvalidConfig, c.StoreBackend, backends)
	case !slices.Contains(policies, c.FingerprintPolicy):
		return fmt.Errorf("%w: fingerprint_policy %q not one of %v", ErrInvalidConfig, c.FingerprintPolicy, policies)
	case c.StoreBackend == BackendCSV && (c.RecordLog == "" || c.FingerprintLog == ""):
		return fmt.Errorf("%w: record_log and fingerprint_log must not be empty", ErrInvalidConfig)
	case c.StoreBackend == BackendSQLite && c.SQLiteFile == "":
		return fmt.Errorf("%w: sqlite_file must not be empty", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.HistogramBucketWidth <= 0:
		return fmt.Errorf("%w: histogram_bucket_width must be positive", ErrInvalidConfig)
	}
	return nil
}
