package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/okian/gradeboard/internal/domain/model"
	"github.com/okian/gradeboard/pkg/metrics"
	"github.com/spf13/afero"
)

// recordFields is the fixed column order: subject_code,subject_name,score,year.
const recordFields = 4

// RecordLog is the CSV-backed RecordStore. Rows are only ever appended.
type RecordLog struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
	file afero.File
	w    *csv.Writer
}

// OpenRecordLog opens path for appending, creating it and its directory if needed.
func OpenRecordLog(path string, opts ...Option) (*RecordLog, error) {
	cfg := newFileConfig(opts)
	if err := cfg.fs.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	f, err := cfg.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, cfg.mode)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	return &RecordLog{
		fs:   cfg.fs,
		path: path,
		file: f,
		w:    csv.NewWriter(f),
	}, nil
}

// Path returns the location of the log.
func (l *RecordLog) Path() string {
	return l.path
}

// Append writes one row per record to the end of the log.
func (l *RecordLog) Append(ctx context.Context, records []model.GradeRecord) (bool, error) {
	if len(records) == 0 {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	start := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return false, &StorageError{Op: "append", Path: l.path, Err: ErrClosed}
	}
	for _, r := range records {
		if err := l.w.Write(encodeRecord(r)); err != nil {
			metrics.RecordErrorByComponent("record_log", "append")
			return false, &StorageError{Op: "append", Path: l.path, Err: err}
		}
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		metrics.RecordErrorByComponent("record_log", "append")
		return false, &StorageError{Op: "append", Path: l.path, Err: err}
	}

	metrics.RecordRecordsAppended(len(records))
	metrics.RecordStoreAppendLatency(float64(time.Since(start).Microseconds()) / 1000)
	return true, nil
}

// LoadAll reads the whole log from the beginning through a separate handle.
func (l *RecordLog) LoadAll(ctx context.Context) ([]model.GradeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	f, err := l.fs.Open(l.path)
	if err != nil {
		metrics.RecordErrorByComponent("record_log", "read")
		return nil, &StorageError{Op: "read", Path: l.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records []model.GradeRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				metrics.RecordErrorByComponent("record_log", "corrupt")
				return nil, &CorruptRecordError{Path: l.path, Line: pe.StartLine, Err: err}
			}
			metrics.RecordErrorByComponent("record_log", "read")
			return nil, &StorageError{Op: "read", Path: l.path, Err: err}
		}
		rec, err := decodeRecord(row)
		if err != nil {
			line, _ := r.FieldPos(0)
			metrics.RecordErrorByComponent("record_log", "corrupt")
			return nil, &CorruptRecordError{Path: l.path, Line: line, Err: err}
		}
		records = append(records, rec)
	}

	metrics.UpdateRecordsTotal(len(records))
	metrics.RecordStoreLoadLatency(float64(time.Since(start).Microseconds()) / 1000)
	return records, nil
}

// Close flushes and closes the append handle. It is safe to call more than once.
func (l *RecordLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	l.w.Flush()
	flushErr := l.w.Error()
	syncErr := l.file.Sync()
	closeErr := l.file.Close()
	l.file = nil

	if err := errors.Join(flushErr, syncErr, closeErr); err != nil {
		return &StorageError{Op: "close", Path: l.path, Err: err}
	}
	return nil
}

func encodeRecord(r model.GradeRecord) []string {
	return []string{
		r.SubjectCode,
		r.SubjectName,
		strconv.Itoa(r.Score),
		strconv.Itoa(r.Year),
	}
}

func decodeRecord(row []string) (model.GradeRecord, error) {
	if len(row) != recordFields {
		return model.GradeRecord{}, fmt.Errorf("want %d fields, got %d", recordFields, len(row))
	}
	score, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return model.GradeRecord{}, fmt.Errorf("score: %w", err)
	}
	year, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return model.GradeRecord{}, fmt.Errorf("year: %w", err)
	}
	return model.GradeRecord{
		SubjectCode: row[0],
		SubjectName: row[1],
		Score:       score,
		Year:        year,
	}, nil
}
