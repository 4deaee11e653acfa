package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/gradeboard/internal/domain/model"
	"github.com/okian/gradeboard/pkg/metrics"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps grade records and fingerprints in a SQLite database.
// It implements RecordStore; Fingerprints returns the matching FingerprintLog.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "schema", Path: path, Err: err}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Append inserts all records in a single transaction.
func (s *SQLiteStore) Append(ctx context.Context, records []model.GradeRecord) (bool, error) {
	if len(records) == 0 {
		return false, nil
	}
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordErrorByComponent("sqlite", "append")
		return false, &StorageError{Op: "append", Path: s.path, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO grade_records (subject_code, subject_name, score, year) VALUES (?, ?, ?, ?)`)
	if err != nil {
		metrics.RecordErrorByComponent("sqlite", "append")
		return false, &StorageError{Op: "append", Path: s.path, Err: err}
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.SubjectCode, r.SubjectName, r.Score, r.Year); err != nil {
			metrics.RecordErrorByComponent("sqlite", "append")
			return false, &StorageError{Op: "append", Path: s.path, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		metrics.RecordErrorByComponent("sqlite", "append")
		return false, &StorageError{Op: "commit", Path: s.path, Err: err}
	}

	metrics.RecordRecordsAppended(len(records))
	metrics.RecordStoreAppendLatency(float64(time.Since(start).Microseconds()) / 1000)
	return true, nil
}

// LoadAll returns every record in insertion order.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]model.GradeRecord, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject_code, subject_name, score, year FROM grade_records ORDER BY id`)
	if err != nil {
		metrics.RecordErrorByComponent("sqlite", "read")
		return nil, &StorageError{Op: "read", Path: s.path, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var records []model.GradeRecord
	for rows.Next() {
		var (
			id  int64
			rec model.GradeRecord
		)
		if err := rows.Scan(&id, &rec.SubjectCode, &rec.SubjectName, &rec.Score, &rec.Year); err != nil {
			metrics.RecordErrorByComponent("sqlite", "corrupt")
			return nil, &CorruptRecordError{Path: s.path, Line: int(id), Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordErrorByComponent("sqlite", "read")
		return nil, &StorageError{Op: "read", Path: s.path, Err: err}
	}

	metrics.UpdateRecordsTotal(len(records))
	metrics.RecordStoreLoadLatency(float64(time.Since(start).Microseconds()) / 1000)
	return records, nil
}

// Fingerprints returns the fingerprint log stored in the same database.
// Closing the returned log is a no-op; Close the store instead.
func (s *SQLiteStore) Fingerprints() FingerprintLog {
	return &sqliteFingerprints{store: s}
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return &StorageError{Op: "close", Path: s.path, Err: err}
	}
	return nil
}

type sqliteFingerprints struct {
	store *SQLiteStore
}

func (f *sqliteFingerprints) Load(ctx context.Context) ([]model.Fingerprint, error) {
	rows, err := f.store.db.QueryContext(ctx, `SELECT fingerprint FROM fingerprints ORDER BY id`)
	if err != nil {
		metrics.RecordErrorByComponent("sqlite", "read")
		return nil, &StorageError{Op: "read", Path: f.store.path, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []model.Fingerprint
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, &StorageError{Op: "read", Path: f.store.path, Err: err}
		}
		out = append(out, model.Fingerprint(fp))
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "read", Path: f.store.path, Err: err}
	}
	return out, nil
}

func (f *sqliteFingerprints) Append(ctx context.Context, fp model.Fingerprint) error {
	if _, err := f.store.db.ExecContext(ctx, `INSERT INTO fingerprints (fingerprint) VALUES (?)`, string(fp)); err != nil {
		metrics.RecordErrorByComponent("sqlite", "append")
		return &StorageError{Op: "append", Path: f.store.path, Err: err}
	}
	return nil
}

func (f *sqliteFingerprints) Close() error {
	return nil
}
