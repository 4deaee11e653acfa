// Package extract pulls grade records out of transcript text.
//
// Extraction is a two-stage scan. The text is first cut into year blocks,
// each starting at a standalone 4-digit token and running up to the next one.
// A layout-specific row pattern is then applied inside every block. Rows that
// do not fit the pattern are dropped without error.
package extract

import (
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/gradeboard/internal/domain/layout"
	"github.com/okian/gradeboard/internal/domain/model"
)

var (
	yearToken = regexp.MustCompile(`\b\d{4}\b`)

	// Row patterns capture (code, name, score).
	rowPatterns = map[layout.Kind]*regexp.Regexp{
		// CODE ATTEMPT[^] NAME \n SCORE
		layout.StatementOfResults: regexp.MustCompile(`\b([A-Z]+\d+)\s+[A-Z0-9]+\^?\s+([^\n]+)\n(\d{2,3})`),
		// ABCD12345 NAME \n CREDIT_POINTS \n SCORE
		layout.AcademicTranscript: regexp.MustCompile(`\b([A-Z]{4}\d{5})\s([^\n]+)\n[\d.]+\n(\d{2,3})`),
	}
)

// yearBlock is a span of text attributed to a single year.
type yearBlock struct {
	year int
	text string
}

// Extract returns every record found in text for the given layout, in
// document order. It fails only when kind has no row pattern.
func Extract(text string, kind layout.Kind) ([]model.GradeRecord, error) {
	if _, ok := rowPatterns[kind]; !ok {
		return nil, fmt.Errorf("extract %s: %w", kind, layout.ErrUnknownFormat)
	}
	return slices.Collect(Records(text, kind)), nil
}

// Records lazily yields the records found in text. An unsupported kind yields nothing.
func Records(text string, kind layout.Kind) iter.Seq[model.GradeRecord] {
	pattern, ok := rowPatterns[kind]
	return func(yield func(model.GradeRecord) bool) {
		if !ok {
			return
		}
		for _, block := range yearBlocks(normalizeNewlines(text)) {
			for _, m := range pattern.FindAllStringSubmatch(block.text, -1) {
				rec, ok := parseRow(m, block.year)
				if !ok {
					continue
				}
				if !yield(rec) {
					return
				}
			}
		}
	}
}

// yearBlocks splits text at every standalone 4-digit token. Text ahead of the
// first token belongs to no block.
func yearBlocks(text string) []yearBlock {
	locs := yearToken.FindAllStringIndex(text, -1)
	blocks := make([]yearBlock, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		year, err := strconv.Atoi(text[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		blocks = append(blocks, yearBlock{year: year, text: text[loc[0]:end]})
	}
	return blocks
}

// parseRow converts a (full, code, name, score) submatch into a record.
func parseRow(m []string, year int) (model.GradeRecord, bool) {
	if len(m) != 4 {
		return model.GradeRecord{}, false
	}
	score, err := strconv.Atoi(m[3])
	if err != nil {
		return model.GradeRecord{}, false
	}
	return model.GradeRecord{
		SubjectCode: m[1],
		SubjectName: m[2],
		Score:       score,
		Year:        year,
	}, true
}

func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
