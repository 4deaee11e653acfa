package repository

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the data directory while a writer holds it.
const LockFileName = ".gradeboard.lock"

// DirLock is an advisory, non-blocking, cross-process lock on a data directory.
// It enforces the single-writer assumption; it does not make concurrent writers safe.
type DirLock struct {
	path string
	lock *flock.Flock
}

// NewDirLock prepares a lock for dir. Nothing is acquired until TryLock.
func NewDirLock(dir string) *DirLock {
	path := filepath.Join(dir, LockFileName)
	return &DirLock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *DirLock) Path() string {
	return l.path
}

// TryLock acquires the lock or fails immediately with ErrLocked.
func (l *DirLock) TryLock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), defaultDirMode); err != nil {
		return &StorageError{Op: "lock", Path: l.path, Err: err}
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return &StorageError{Op: "lock", Path: l.path, Err: err}
	}
	if !ok {
		return &StorageError{Op: "lock", Path: l.path, Err: ErrLocked}
	}
	return nil
}

// Unlock releases the lock if held.
func (l *DirLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		return &StorageError{Op: "unlock", Path: l.path, Err: err}
	}
	return nil
}
