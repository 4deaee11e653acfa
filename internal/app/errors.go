package service

import (
	"errors"

	"github.com/okian/gradeboard/internal/adapters/document"
	"github.com/okian/gradeboard/internal/adapters/repository"
	"github.com/okian/gradeboard/internal/domain/dedupe"
	"github.com/okian/gradeboard/internal/domain/layout"
)

var (
	// ErrNoRecords is returned when a recognized document yields no grade rows.
	ErrNoRecords = errors.New("no records extracted")
	// ErrNotStarted is returned when the service is used before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrUnknownGroup is returned when a label does not name any group.
	ErrUnknownGroup = errors.New("unknown group label")
	// ErrInvalidPolicy is returned by Start for an unrecognized fingerprint policy.
	ErrInvalidPolicy = errors.New("invalid fingerprint policy")
	// ErrInvalidBackend is returned by Start for an unrecognized store backend.
	ErrInvalidBackend = errors.New("invalid store backend")
)

// Submission rejection reasons reported in SubmissionResult.Reason.
const (
	ReasonDuplicate     = "duplicate"
	ReasonUnknownFormat = "unknown_format"
	ReasonUnreadable    = "unreadable"
	ReasonNoRecords     = "no_records"
	ReasonStorage       = "storage"
	ReasonCorruptRecord = "corrupt_record"
	ReasonInternal      = "internal"
)

// Reason classifies err into one of the Reason* strings. A nil error has no reason.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, dedupe.ErrDuplicateSubmission):
		return ReasonDuplicate
	case errors.Is(err, layout.ErrUnknownFormat):
		return ReasonUnknownFormat
	case errors.Is(err, document.ErrEmptyDocument), errors.Is(err, document.ErrUnsupportedEncoding):
		return ReasonUnreadable
	case errors.Is(err, ErrNoRecords):
		return ReasonNoRecords
	case errors.Is(err, repository.ErrCorruptRecord):
		return ReasonCorruptRecord
	case errors.Is(err, repository.ErrStorage):
		return ReasonStorage
	default:
		return ReasonInternal
	}
}
