package dedupe

import "errors"

var (
	// ErrDuplicateSubmission is returned when a fingerprint is already in the log.
	ErrDuplicateSubmission = errors.New("duplicate submission")
	// ErrNilLog is returned by NewGuard when no log is supplied.
	ErrNilLog = errors.New("fingerprint log is nil")
)
