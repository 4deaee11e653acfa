package repository

import (
	"os"

	"github.com/spf13/afero"
)

// Default permissions for files and directories created by the file backend.
const (
	defaultFileMode os.FileMode = 0o644
	defaultDirMode  os.FileMode = 0o755
)

// Option applies a configuration option to the file-backed logs.
type Option func(*fileConfig)

type fileConfig struct {
	fs   afero.Fs
	mode os.FileMode
}

func newFileConfig(opts []Option) fileConfig {
	cfg := fileConfig{
		fs:   afero.NewOsFs(),
		mode: defaultFileMode,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithFs sets the filesystem the logs live on.
func WithFs(fs afero.Fs) Option {
	return func(c *fileConfig) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithFileMode sets the permission used when a log file is created.
func WithFileMode(mode os.FileMode) Option {
	return func(c *fileConfig) {
		if mode != 0 {
			c.mode = mode
		}
	}
}
