// Package repository persists grade records and submission fingerprints.
//
// Two backends are provided. The file backend keeps two append-only text logs
// (a CSV record log and a line-per-fingerprint log) on an afero filesystem.
// The SQLite backend keeps the same data in insert-only tables. Neither
// backend coordinates concurrent writers; see DirLock for the single-writer
// guard used by the service.
package repository

import (
	"context"

	"github.com/okian/gradeboard/internal/domain/model"
)

// RecordStore is an append-only log of grade records.
type RecordStore interface {
	// Append writes records to the end of the log. It is a no-op returning
	// false when records is empty.
	Append(ctx context.Context, records []model.GradeRecord) (bool, error)

	// LoadAll reads every stored record from the beginning of the log.
	// Any unparsable row fails the whole load with a CorruptRecordError.
	LoadAll(ctx context.Context) ([]model.GradeRecord, error)

	Close() error
}

// FingerprintLog is an append-only sequence of accepted submission fingerprints.
type FingerprintLog interface {
	Load(ctx context.Context) ([]model.Fingerprint, error)
	Append(ctx context.Context, fp model.Fingerprint) error
	Close() error
}
