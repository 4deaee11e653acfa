// Package aggregate groups stored grade records into per-subject, per-year distributions.
package aggregate

import (
	"cmp"
	"slices"
	"time"

	"github.com/okian/gradeboard/internal/domain/model"
	"github.com/okian/gradeboard/pkg/metrics"
)

// Summarize returns records unchanged together with a lookup from display label
// to the group the label names. Labels are stable for identical input.
func Summarize(records []model.GradeRecord) ([]model.GradeRecord, map[string]model.GroupKey) {
	return records, Lookup(Groups(records))
}

// Lookup maps each group's label to its key.
func Lookup(groups []model.GroupSummary) map[string]model.GroupKey {
	lookup := make(map[string]model.GroupKey, len(groups))
	for _, g := range groups {
		lookup[g.Label] = g.Key
	}
	return lookup
}

// Groups counts records per (subject_code, subject_name, year) and returns one
// summary per group ordered by year, subject code, then subject name.
func Groups(records []model.GradeRecord) []model.GroupSummary {
	start := time.Now()

	counts := make(map[model.GroupKey]int)
	for _, r := range records {
		counts[r.Key()]++
	}

	out := make([]model.GroupSummary, 0, len(counts))
	for k, n := range counts {
		out = append(out, model.GroupSummary{Key: k, Count: n, Label: k.Label(n)})
	}
	slices.SortFunc(out, func(a, b model.GroupSummary) int {
		return compareKeys(a.Key, b.Key)
	})

	metrics.UpdateGroupsTotal(len(out))
	metrics.RecordSummaryBuildLatency(float64(time.Since(start).Microseconds()) / 1000)
	return out
}

// Select returns the records belonging to key's year and subject code, in input order.
// Subject name is not compared, matching how a chosen label is resolved for display.
func Select(records []model.GradeRecord, key model.GroupKey) []model.GradeRecord {
	var out []model.GradeRecord
	for _, r := range records {
		if r.Year == key.Year && r.SubjectCode == key.SubjectCode {
			out = append(out, r)
		}
	}
	return out
}

// Scores extracts the score column of records.
func Scores(records []model.GradeRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Score
	}
	return out
}

func compareKeys(a, b model.GroupKey) int {
	return cmp.Or(
		cmp.Compare(a.Year, b.Year),
		cmp.Compare(a.SubjectCode, b.SubjectCode),
		cmp.Compare(a.SubjectName, b.SubjectName),
	)
}
