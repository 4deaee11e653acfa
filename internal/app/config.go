package service

import (
	"github.com/okian/gradeboard/internal/config"
	"github.com/okian/gradeboard/pkg/logger"
)

// ConfigOptions maps a loaded configuration onto service options.
func ConfigOptions(cfg *config.Config, log logger.Logger) []Option {
	return []Option{
		WithLogger(log),
		WithDataDir(cfg.DataDir),
		WithStoreBackend(cfg.StoreBackend),
		WithFileNames(cfg.RecordLog, cfg.FingerprintLog, cfg.SQLiteFile),
		WithFingerprintPolicy(cfg.FingerprintPolicy),
		WithLockDataDir(cfg.LockDataDir),
		WithHistogramBucketWidth(cfg.HistogramBucketWidth),
	}
}
