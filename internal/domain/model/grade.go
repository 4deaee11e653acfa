// Package model contains domain models passed between layers.
package model

import (
	"fmt"

	"github.com/okian/gradeboard/internal/domain/layout"
)

// GradeRecord is one subject result extracted from a transcript.
// Values are created by the extractor and never mutated afterwards.
type GradeRecord struct {
	SubjectCode string // e.g. "MATH10001"
	SubjectName string // verbatim subject title
	Score       int    // 2-3 digit mark
	Year        int    // year of the block the row was found in
}

// Key returns the group the record belongs to.
func (r GradeRecord) Key() GroupKey {
	return GroupKey{Year: r.Year, SubjectCode: r.SubjectCode, SubjectName: r.SubjectName}
}

// GroupKey identifies one subject-year offering.
type GroupKey struct {
	Year        int
	SubjectCode string
	SubjectName string
}

// Label renders the display label for a group holding count records.
func (k GroupKey) Label(count int) string {
	return fmt.Sprintf("(%d) %s - %s (n=%d)", k.Year, k.SubjectCode, k.SubjectName, count)
}

// GroupSummary is a derived view of one group; rebuilt on every aggregation.
type GroupSummary struct {
	Key   GroupKey
	Count int
	Label string
}

// Fingerprint is the lowercase hex SHA-256 of a submission's raw bytes.
type Fingerprint string

// SubmissionResult reports the outcome of one submission.
type SubmissionResult struct {
	ID          string      // correlation id for logs
	Accepted    bool        // records were stored
	RecordCount int         // number of records appended
	Layout      layout.Kind // detected layout, Unknown when detection did not run or failed
	Fingerprint Fingerprint
	Reason      string // classified failure reason, empty when accepted
	Err         error
}
