// Package types contains the JSON views shared by the HTTP API and the CLI.
package types

import (
	"github.com/okian/gradeboard/internal/domain/model"
	"github.com/okian/gradeboard/internal/domain/scoring"
)

// Group represents one subject offering in a summary listing.
type Group struct {
	Label       string `json:"label"`
	Year        int    `json:"year"`
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	Count       int    `json:"count"`
}

// Record represents one stored grade.
type Record struct {
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	Score       int    `json:"score"`
	Year        int    `json:"year"`
}

// GroupDetail is a group's records with their score distribution.
type GroupDetail struct {
	Label        string               `json:"label"`
	Records      []Record             `json:"records"`
	Distribution scoring.Distribution `json:"distribution"`
}

// Submission reports the outcome of one upload.
type Submission struct {
	ID          string `json:"id"`
	Accepted    bool   `json:"accepted"`
	RecordCount int    `json:"record_count"`
	Layout      string `json:"layout"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
}

// NewGroups converts summaries, keeping their order.
func NewGroups(in []model.GroupSummary) []Group {
	out := make([]Group, len(in))
	for i, g := range in {
		out[i] = Group{
			Label:       g.Label,
			Year:        g.Key.Year,
			SubjectCode: g.Key.SubjectCode,
			SubjectName: g.Key.SubjectName,
			Count:       g.Count,
		}
	}
	return out
}

// NewRecords converts grade records, keeping their order.
func NewRecords(in []model.GradeRecord) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = Record{
			SubjectCode: r.SubjectCode,
			SubjectName: r.SubjectName,
			Score:       r.Score,
			Year:        r.Year,
		}
	}
	return out
}

// NewSubmission converts a submission result.
func NewSubmission(res model.SubmissionResult) Submission {
	s := Submission{
		ID:          res.ID,
		Accepted:    res.Accepted,
		RecordCount: res.RecordCount,
		Layout:      res.Layout.String(),
		Fingerprint: string(res.Fingerprint),
		Reason:      res.Reason,
	}
	if res.Err != nil {
		s.Error = res.Err.Error()
	}
	return s
}
