package repository

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/okian/gradeboard/internal/domain/model"
	"github.com/okian/gradeboard/pkg/metrics"
	"github.com/spf13/afero"
)

// FingerprintFile is the file-backed FingerprintLog: one fingerprint per line.
type FingerprintFile struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
	file afero.File
}

// OpenFingerprintFile opens path for appending, creating it and its directory if needed.
func OpenFingerprintFile(path string, opts ...Option) (*FingerprintFile, error) {
	cfg := newFileConfig(opts)
	if err := cfg.fs.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	f, err := cfg.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, cfg.mode)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	return &FingerprintFile{fs: cfg.fs, path: path, file: f}, nil
}

// Path returns the location of the log.
func (l *FingerprintFile) Path() string {
	return l.path
}

// Load returns every fingerprint in log order. Blank lines are ignored.
func (l *FingerprintFile) Load(ctx context.Context) ([]model.Fingerprint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := l.fs.Open(l.path)
	if err != nil {
		metrics.RecordErrorByComponent("fingerprint_log", "read")
		return nil, &StorageError{Op: "read", Path: l.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	var out []model.Fingerprint
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		out = append(out, model.Fingerprint(line))
	}
	if err := sc.Err(); err != nil {
		metrics.RecordErrorByComponent("fingerprint_log", "read")
		return nil, &StorageError{Op: "read", Path: l.path, Err: err}
	}
	return out, nil
}

// Append writes fp as a new line at the end of the log.
func (l *FingerprintFile) Append(ctx context.Context, fp model.Fingerprint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return &StorageError{Op: "append", Path: l.path, Err: ErrClosed}
	}
	if _, err := l.file.WriteString(string(fp) + "\n"); err != nil {
		metrics.RecordErrorByComponent("fingerprint_log", "append")
		return &StorageError{Op: "append", Path: l.path, Err: err}
	}
	return nil
}

// Close syncs and closes the append handle. It is safe to call more than once.
func (l *FingerprintFile) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	syncErr := l.file.Sync()
	closeErr := l.file.Close()
	l.file = nil
	if syncErr != nil {
		return &StorageError{Op: "sync", Path: l.path, Err: syncErr}
	}
	if closeErr != nil {
		return &StorageError{Op: "close", Path: l.path, Err: closeErr}
	}
	return nil
}
