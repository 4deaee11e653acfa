// Package layout classifies extracted transcript text into one of the known document layouts.
package layout

import "strings"

// Markers identifying each layout. Matching is a plain substring test.
const (
	MarkerStatementOfResults = "STATEMENT OF RESULTS"
	MarkerAcademicTranscript = "ACADEMIC TRANSCRIPT"
)

// Kind is the closed set of recognized layouts.
type Kind int

const (
	Unknown Kind = iota
	StatementOfResults
	AcademicTranscript
)

// String returns the wire name of the layout.
func (k Kind) String() string {
	switch k {
	case StatementOfResults:
		return "statement_of_results"
	case AcademicTranscript:
		return "academic_transcript"
	default:
		return "unknown"
	}
}

// Detect returns the layout of text. Statement of Results is checked first,
// so text carrying both markers is treated as a Statement of Results.
func Detect(text string) (Kind, error) {
	switch {
	case strings.Contains(text, MarkerStatementOfResults):
		return StatementOfResults, nil
	case strings.Contains(text, MarkerAcademicTranscript):
		return AcademicTranscript, nil
	default:
		return Unknown, ErrUnknownFormat
	}
}
