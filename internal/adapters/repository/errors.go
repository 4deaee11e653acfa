package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for repository errors.
var (
	ErrStorage       = errors.New("storage failure")
	ErrCorruptRecord = errors.New("corrupt record")
	ErrClosed        = errors.New("store closed")
	ErrLocked        = errors.New("data directory locked by another process")
)

// StorageError is returned when a log cannot be opened, read or appended.
type StorageError struct {
	Op   string // open, append, read, sync, close, lock
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports every StorageError as ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// CorruptRecordError is returned when a stored row cannot be parsed.
type CorruptRecordError struct {
	Path string
	Line int // 1-based line (file backend) or row id (sqlite backend)
	Err  error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt record %s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *CorruptRecordError) Unwrap() error {
	return e.Err
}

// Is reports every CorruptRecordError as ErrCorruptRecord.
func (e *CorruptRecordError) Is(target error) bool {
	return target == ErrCorruptRecord
}
