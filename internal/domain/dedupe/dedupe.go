// Package dedupe rejects submissions whose raw bytes were already accepted.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/gradeboard/internal/domain/model"
	"github.com/okian/gradeboard/pkg/metrics"
)

// Log is the persistent, append-only sequence of accepted fingerprints.
type Log interface {
	Load(ctx context.Context) ([]model.Fingerprint, error)
	Append(ctx context.Context, fp model.Fingerprint) error
}

// Guard tracks accepted submissions by content fingerprint.
type Guard interface {
	// Fingerprint returns the fingerprint of raw without touching the log.
	Fingerprint(raw []byte) model.Fingerprint

	// IsDuplicate reports whether raw was already recorded.
	IsDuplicate(ctx context.Context, raw []byte) (bool, error)

	// Record appends the fingerprint of raw to the log and then to the in-memory set.
	// It fails with ErrDuplicateSubmission if the fingerprint is already known.
	Record(ctx context.Context, raw []byte) error

	Size() int64
}

// HashFunc maps raw submission bytes to a fingerprint.
type HashFunc func(raw []byte) model.Fingerprint

// Compute is the default HashFunc: lowercase hex SHA-256 of raw.
func Compute(raw []byte) model.Fingerprint {
	sum := sha256.Sum256(raw)
	return model.Fingerprint(hex.EncodeToString(sum[:]))
}

// logGuard keeps an in-memory set primed from the log. Entries are never evicted:
// forgetting a fingerprint would let a duplicate through.
type logGuard struct {
	mu   sync.RWMutex
	seen map[model.Fingerprint]struct{}
	log  Log
	hash HashFunc
	size atomic.Int64
}

// NewGuard loads every fingerprint from log and returns a Guard backed by it.
func NewGuard(ctx context.Context, log Log, opts ...Option) (Guard, error) {
	if log == nil {
		return nil, ErrNilLog
	}
	g := &logGuard{
		seen: make(map[model.Fingerprint]struct{}),
		log:  log,
		hash: Compute,
	}
	for _, opt := range opts {
		opt(g)
	}

	fps, err := log.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fingerprints: %w", err)
	}
	for _, fp := range fps {
		g.seen[fp] = struct{}{}
	}
	g.size.Store(int64(len(g.seen)))
	metrics.UpdateFingerprintsTracked(g.size.Load())
	return g, nil
}

func (g *logGuard) Fingerprint(raw []byte) model.Fingerprint {
	return g.hash(raw)
}

func (g *logGuard) IsDuplicate(ctx context.Context, raw []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fp := g.hash(raw)

	g.mu.RLock()
	_, ok := g.seen[fp]
	g.mu.RUnlock()
	return ok, nil
}

func (g *logGuard) Record(ctx context.Context, raw []byte) error {
	fp := g.hash(raw)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[fp]; ok {
		return fmt.Errorf("record %s: %w", fp, ErrDuplicateSubmission)
	}
	if err := g.log.Append(ctx, fp); err != nil {
		return fmt.Errorf("record %s: %w", fp, err)
	}
	g.seen[fp] = struct{}{}
	metrics.UpdateFingerprintsTracked(g.size.Add(1))
	return nil
}

func (g *logGuard) Size() int64 {
	return g.size.Load()
}

// MemoryLog is a Log held in memory. It does not survive restarts.
type MemoryLog struct {
	mu  sync.Mutex
	fps []model.Fingerprint
}

// NewMemoryLog returns a MemoryLog seeded with fps.
func NewMemoryLog(fps ...model.Fingerprint) *MemoryLog {
	return &MemoryLog{fps: append([]model.Fingerprint(nil), fps...)}
}

func (m *MemoryLog) Load(ctx context.Context) ([]model.Fingerprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Fingerprint(nil), m.fps...), nil
}

func (m *MemoryLog) Append(ctx context.Context, fp model.Fingerprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fps = append(m.fps, fp)
	return nil
}

// Close is a no-op so MemoryLog can stand in for a repository.FingerprintLog.
func (m *MemoryLog) Close() error {
	return nil
}
