package repository

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/okian/gradeboard/internal/domain/model"
	"github.com/spf13/afero"
)

func sampleRecords() []model.GradeRecord {
	return []model.GradeRecord{
		{SubjectCode: "SUBJ10001", SubjectName: "Example Subject", Score: 85, Year: 2023},
		{SubjectCode: "MATH101", SubjectName: "Calc", Score: 70, Year: 2022},
		{SubjectCode: "MATH101", SubjectName: "Calc", Score: 90, Year: 2022},
		{SubjectCode: "HIST20001", SubjectName: `Rome, "Empire" and Republic`, Score: 100, Year: 2021},
	}
}

func sortRecords(rs []model.GradeRecord) {
	sort.Slice(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.SubjectCode != b.SubjectCode {
			return a.SubjectCode < b.SubjectCode
		}
		return a.Score < b.Score
	})
}

func openMemRecordLog(t *testing.T, fs afero.Fs) *RecordLog {
	t.Helper()
	l, err := OpenRecordLog("/data/all_scores.csv", WithFs(fs))
	if err != nil {
		t.Fatalf("open record log: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordLog_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l := openMemRecordLog(t, afero.NewMemMapFs())

	in := sampleRecords()
	ok, err := l.Append(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected append to report true")
	}

	out, err := l.LoadAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := append([]model.GradeRecord(nil), in...)
	sortRecords(want)
	sortRecords(out)
	if !reflect.DeepEqual(out, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, want)
	}
}

func TestRecordLog_AppendEmpty(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	l := openMemRecordLog(t, fs)

	ok, err := l.Append(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected empty append to report false")
	}
	data, err := afero.ReadFile(fs, l.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty log, got %q", data)
	}
}

func TestRecordLog_AppendOnly(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	l := openMemRecordLog(t, fs)

	recs := sampleRecords()
	if _, err := l.Append(ctx, recs[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := afero.ReadFile(fs, l.Path())
	if string(first) != "SUBJ10001,Example Subject,85,2023\n" {
		t.Fatalf("unexpected row format %q", first)
	}

	if _, err := l.Append(ctx, recs[1:2]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := afero.ReadFile(fs, l.Path())
	if string(second) != string(first)+"MATH101,Calc,70,2022\n" {
		t.Errorf("existing rows were rewritten: %q", second)
	}
}

func TestRecordLog_ReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	l, err := OpenRecordLog("/data/all_scores.csv", WithFs(fs))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := l.Append(ctx, sampleRecords()[:2]); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}

	l2 := openMemRecordLog(t, fs)
	if _, err := l2.Append(ctx, sampleRecords()[2:3]); err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	out, err := l2.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("expected 3 records after reopen, got %d", len(out))
	}
}

func TestRecordLog_AppendAfterClose(t *testing.T) {
	l, err := OpenRecordLog("/data/all_scores.csv", WithFs(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = l.Close()

	_, err = l.Append(context.Background(), sampleRecords())
	if !errors.Is(err, ErrStorage) || !errors.Is(err, ErrClosed) {
		t.Errorf("expected closed storage error, got %v", err)
	}
}

func TestRecordLog_CorruptRows(t *testing.T) {
	cases := []struct {
		name string
		data string
		line int
	}{
		{"non-integer score", "MATH101,Calc,70,2022\nMATH101,Calc,seventy,2022\n", 2},
		{"non-integer year", "MATH101,Calc,70,twenty\n", 1},
		{"missing field", "MATH101,Calc,70,2022\nMATH101,Calc,70\n", 2},
		{"extra field", "MATH101,Calc,70,2022,extra\n", 1},
		{"bad quoting", "MATH101,\"Calc,70,2022\n", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, "/data/all_scores.csv", []byte(tc.data), 0o644); err != nil {
				t.Fatalf("seed: %v", err)
			}
			l := openMemRecordLog(t, fs)

			out, err := l.LoadAll(context.Background())
			if out != nil {
				t.Errorf("expected no records on corrupt load, got %d", len(out))
			}
			if !errors.Is(err, ErrCorruptRecord) {
				t.Fatalf("expected corrupt record error, got %v", err)
			}
			var ce *CorruptRecordError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *CorruptRecordError, got %T", err)
			}
			if ce.Line != tc.line {
				t.Errorf("expected line %d, got %d", tc.line, ce.Line)
			}
		})
	}
}

func TestRecordLog_OpenFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err := OpenRecordLog("/data/all_scores.csv", WithFs(fs))
	if !errors.Is(err, ErrStorage) {
		t.Errorf("expected storage error on read-only fs, got %v", err)
	}
}
