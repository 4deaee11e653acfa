// Package service provides the submission pipeline and the summary views
// consumed by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/gradeboard/internal/adapters/document"
	"github.com/okian/gradeboard/internal/adapters/repository"
	"github.com/okian/gradeboard/internal/config"
	"github.com/okian/gradeboard/internal/domain/aggregate"
	"github.com/okian/gradeboard/internal/domain/dedupe"
	"github.com/okian/gradeboard/internal/domain/extract"
	"github.com/okian/gradeboard/internal/domain/layout"
	"github.com/okian/gradeboard/internal/domain/model"
	"github.com/okian/gradeboard/internal/domain/scoring"
	"github.com/okian/gradeboard/pkg/logger"
	"github.com/okian/gradeboard/pkg/metrics"
	"github.com/spf13/afero"
)

// Store backends and fingerprint policies understood by the service.
const (
	BackendCSV    = config.BackendCSV
	BackendSQLite = config.BackendSQLite

	PolicyAfterStore    = config.PolicyAfterStore
	PolicyBeforeExtract = config.PolicyBeforeExtract
)

// Summary is the aggregated view of every stored record.
type Summary struct {
	Records []model.GradeRecord
	Lookup  map[string]model.GroupKey
	Groups  []model.GroupSummary
}

// GroupDetail is one group's records with their score distribution.
type GroupDetail struct {
	Label        string
	Key          model.GroupKey
	Records      []model.GradeRecord
	Distribution scoring.Distribution
}

// Service wires the fingerprint guard, layout detection, extraction and storage.
type Service struct {
	mu sync.RWMutex
	// submitMu serializes Submit so check, extract and append run as one unit.
	submitMu sync.Mutex

	// Core components
	records      repository.RecordStore
	fingerprints repository.FingerprintLog
	guard        dedupe.Guard
	reader       document.Reader
	describer    *scoring.Describer
	lock         *repository.DirLock

	// Configuration
	fs             afero.Fs
	dataDir        string
	backend        string
	recordLog      string
	fingerprintLog string
	sqliteFile     string
	policy         string
	lockDataDir    bool
	bucketWidth    int

	// State
	started  bool
	owned    []interface{ Close() error }
	accepted atomic.Int64
	rejected atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDataDir sets the directory holding the logs or database.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithStoreBackend selects csv or sqlite persistence.
func WithStoreBackend(backend string) Option {
	return func(s *Service) {
		if backend != "" {
			s.backend = backend
		}
	}
}

// WithFileNames sets the record log, fingerprint log and sqlite file names inside the data dir.
// Empty names keep the defaults.
func WithFileNames(recordLog, fingerprintLog, sqliteFile string) Option {
	return func(s *Service) {
		if recordLog != "" {
			s.recordLog = recordLog
		}
		if fingerprintLog != "" {
			s.fingerprintLog = fingerprintLog
		}
		if sqliteFile != "" {
			s.sqliteFile = sqliteFile
		}
	}
}

// WithFingerprintPolicy sets when fingerprints are committed: after_store or before_extract.
func WithFingerprintPolicy(policy string) Option {
	return func(s *Service) {
		if policy != "" {
			s.policy = policy
		}
	}
}

// WithLockDataDir enables the exclusive data directory lock.
func WithLockDataDir(enabled bool) Option {
	return func(s *Service) {
		s.lockDataDir = enabled
	}
}

// WithFs sets the filesystem used by the csv backend.
func WithFs(fs afero.Fs) Option {
	return func(s *Service) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithReader sets the document reader applied when a submission carries no text.
func WithReader(r document.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.reader = r
		}
	}
}

// WithRecordStore injects a record store. Start will not open or close one.
func WithRecordStore(store repository.RecordStore) Option {
	return func(s *Service) {
		s.records = store
	}
}

// WithFingerprintLog injects a fingerprint log. Start will not open or close one.
func WithFingerprintLog(log repository.FingerprintLog) Option {
	return func(s *Service) {
		s.fingerprints = log
	}
}

// WithHistogramBucketWidth sets the score histogram bin width for GroupDetail.
func WithHistogramBucketWidth(width int) Option {
	return func(s *Service) {
		if width > 0 {
			s.bucketWidth = width
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		fs:             afero.NewOsFs(),
		dataDir:        "data",
		backend:        BackendCSV,
		recordLog:      "all_scores.csv",
		fingerprintLog: "fingerprints.log",
		sqliteFile:     "grades.db",
		policy:         PolicyAfterStore,
		lockDataDir:    true,
		bucketWidth:    10,
		reader:         document.PlainText{},
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the stores, primes the fingerprint guard and takes the data dir lock.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.policy != PolicyAfterStore && s.policy != PolicyBeforeExtract {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, s.policy)
	}

	s.logger.Info(ctx, "starting grade service...",
		logger.String("dataDir", s.dataDir),
		logger.String("backend", s.backend),
		logger.String("policy", s.policy),
	)

	if s.lockDataDir {
		lock := repository.NewDirLock(s.dataDir)
		if err := lock.TryLock(); err != nil {
			return fmt.Errorf("lock data dir: %w", err)
		}
		s.lock = lock
	}

	if err := s.openStores(ctx); err != nil {
		s.release(ctx)
		return err
	}

	guard, err := dedupe.NewGuard(ctx, s.fingerprints)
	if err != nil {
		s.release(ctx)
		return err
	}
	s.guard = guard
	s.describer = scoring.NewDescriber(scoring.WithBucketWidth(s.bucketWidth))

	s.started = true
	s.logger.Info(ctx, "grade service started",
		logger.Int64("fingerprints", guard.Size()),
		logger.Bool("locked", s.lock != nil),
	)
	return nil
}

// openStores opens whatever was not injected. Must be called with s.mu held.
func (s *Service) openStores(ctx context.Context) error {
	if s.records != nil && s.fingerprints != nil {
		return nil
	}

	switch s.backend {
	case BackendCSV:
		if s.records == nil {
			rl, err := repository.OpenRecordLog(filepath.Join(s.dataDir, s.recordLog), repository.WithFs(s.fs))
			if err != nil {
				return err
			}
			s.records = rl
			s.owned = append(s.owned, rl)
		}
		if s.fingerprints == nil {
			fl, err := repository.OpenFingerprintFile(filepath.Join(s.dataDir, s.fingerprintLog), repository.WithFs(s.fs))
			if err != nil {
				return err
			}
			s.fingerprints = fl
			s.owned = append(s.owned, fl)
		}
	case BackendSQLite:
		db, err := repository.OpenSQLite(ctx, filepath.Join(s.dataDir, s.sqliteFile))
		if err != nil {
			return err
		}
		s.owned = append(s.owned, db)
		if s.records == nil {
			s.records = db
		}
		if s.fingerprints == nil {
			s.fingerprints = db.Fingerprints()
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, s.backend)
	}
	return nil
}

// release closes owned stores and drops the lock. Must be called with s.mu held.
func (s *Service) release(ctx context.Context) {
	for i := len(s.owned) - 1; i >= 0; i-- {
		if err := s.owned[i].Close(); err != nil {
			s.logger.Error(ctx, "failed to close store", logger.Error(err))
		}
	}
	if len(s.owned) > 0 {
		s.records, s.fingerprints = nil, nil
	}
	s.owned = nil

	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Error(ctx, "failed to release data dir lock", logger.Error(err))
		}
		s.lock = nil
	}
}

// Stop closes the stores opened by Start and releases the data dir lock.
func (s *Service) Stop() {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping grade service...")
	s.release(ctx)
	s.guard = nil
	s.started = false
	s.logger.Info(ctx, "grade service stopped")
}

// Submit runs one document through duplicate check, layout detection,
// extraction and storage. When text is empty the configured reader decodes raw.
// The result always carries a classified Reason when the submission is rejected.
func (s *Service) Submit(ctx context.Context, raw []byte, text string) model.SubmissionResult {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	res := model.SubmissionResult{ID: uuid.NewString()}

	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return s.reject(ctx, res, ErrNotStarted)
	}

	res.Fingerprint = s.guard.Fingerprint(raw)
	log := s.logger.Named("submit")

	dup, err := s.guard.IsDuplicate(ctx, raw)
	if err != nil {
		return s.reject(ctx, res, err)
	}
	if dup {
		return s.reject(ctx, res, fmt.Errorf("fingerprint %s: %w", res.Fingerprint, dedupe.ErrDuplicateSubmission))
	}

	if s.policy == PolicyBeforeExtract {
		if err := s.guard.Record(ctx, raw); err != nil {
			return s.reject(ctx, res, err)
		}
	}

	if text == "" {
		text, err = s.reader.Read(ctx, raw)
		if err != nil {
			return s.reject(ctx, res, fmt.Errorf("read document: %w", err))
		}
	}

	start := time.Now()
	kind, err := layout.Detect(text)
	if err != nil {
		return s.reject(ctx, res, err)
	}
	res.Layout = kind

	records, err := extract.Extract(text, kind)
	if err != nil {
		return s.reject(ctx, res, err)
	}
	metrics.RecordExtractLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordRecordsExtracted(len(records))
	if len(records) == 0 {
		return s.reject(ctx, res, ErrNoRecords)
	}

	if _, err := s.records.Append(ctx, records); err != nil {
		return s.reject(ctx, res, err)
	}

	if s.policy == PolicyAfterStore {
		// The records are in the log; the fingerprint must follow even if the caller went away.
		if err := s.guard.Record(context.WithoutCancel(ctx), raw); err != nil {
			// A resubmission will duplicate the stored records.
			log.Error(ctx, "records stored but fingerprint not recorded",
				logger.String("id", res.ID),
				logger.String("fingerprint", string(res.Fingerprint)),
				logger.Int("records", len(records)),
				logger.Error(err),
			)
			if !errors.Is(err, repository.ErrStorage) {
				err = &repository.StorageError{Op: "record fingerprint", Err: err}
			}
			return s.reject(ctx, res, err)
		}
	}

	res.Accepted = true
	res.RecordCount = len(records)
	s.accepted.Add(1)
	metrics.RecordSubmission(metrics.OutcomeAccepted)
	log.Info(ctx, "submission accepted",
		logger.String("id", res.ID),
		logger.String("layout", kind.String()),
		logger.Int("records", len(records)),
	)
	return res
}

func (s *Service) reject(ctx context.Context, res model.SubmissionResult, err error) model.SubmissionResult {
	res.Err = err
	res.Reason = Reason(err)
	s.rejected.Add(1)
	metrics.RecordSubmission(res.Reason)

	if s.logger == nil {
		return res
	}
	fields := []logger.Field{
		logger.String("id", res.ID),
		logger.String("reason", res.Reason),
		logger.Error(err),
	}
	switch res.Reason {
	case ReasonStorage, ReasonCorruptRecord, ReasonInternal:
		metrics.RecordErrorByComponent("service", res.Reason)
		s.logger.Error(ctx, "submission failed", fields...)
	default:
		s.logger.Info(ctx, "submission rejected", fields...)
	}
	return res
}

// Summaries loads every stored record and groups it for display.
func (s *Service) Summaries(ctx context.Context) (Summary, error) {
	records, err := s.loadAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	groups := aggregate.Groups(records)
	return Summary{
		Records: records,
		Lookup:  aggregate.Lookup(groups),
		Groups:  groups,
	}, nil
}

// GroupRecords returns the records behind a summary label.
func (s *Service) GroupRecords(ctx context.Context, label string) ([]model.GradeRecord, error) {
	detail, err := s.groupDetail(ctx, label, false)
	if err != nil {
		return nil, err
	}
	return detail.Records, nil
}

// GroupDetail returns the records behind a summary label and their score distribution.
func (s *Service) GroupDetail(ctx context.Context, label string) (GroupDetail, error) {
	return s.groupDetail(ctx, label, true)
}

func (s *Service) groupDetail(ctx context.Context, label string, describe bool) (GroupDetail, error) {
	sum, err := s.Summaries(ctx)
	if err != nil {
		return GroupDetail{}, err
	}
	key, ok := sum.Lookup[label]
	if !ok {
		return GroupDetail{}, fmt.Errorf("%w: %q", ErrUnknownGroup, label)
	}

	detail := GroupDetail{
		Label:   label,
		Key:     key,
		Records: aggregate.Select(sum.Records, key),
	}
	if describe {
		dist, err := s.describer.Describe(aggregate.Scores(detail.Records))
		if err != nil {
			return GroupDetail{}, err
		}
		detail.Distribution = dist
	}
	return detail, nil
}

func (s *Service) loadAll(ctx context.Context) ([]model.GradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.records.LoadAll(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  s.started,
		"backend":  s.backend,
		"policy":   s.policy,
		"dataDir":  s.dataDir,
		"locked":   s.lock != nil,
		"accepted": s.accepted.Load(),
		"rejected": s.rejected.Load(),
	}

	if s.started {
		stats["fingerprints"] = s.guard.Size()
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	return stats
}

// Size returns the number of fingerprints known to the guard.
func (s *Service) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.guard == nil {
		return 0
	}
	return s.guard.Size()
}
