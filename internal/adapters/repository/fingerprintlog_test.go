package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/okian/gradeboard/internal/domain/model"
	"github.com/spf13/afero"
)

func TestFingerprintFile_AppendAndLoad(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	l, err := OpenFingerprintFile("/data/fingerprints.log", WithFs(fs))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = l.Close() }()

	fps := []model.Fingerprint{"aaa", "bbb", "ccc"}
	for _, fp := range fps {
		if err := l.Append(ctx, fp); err != nil {
			t.Fatalf("append %s: %v", fp, err)
		}
	}

	got, err := l.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, fps) {
		t.Errorf("expected %v, got %v", fps, got)
	}

	data, _ := afero.ReadFile(fs, l.Path())
	if string(data) != "aaa\nbbb\nccc\n" {
		t.Errorf("unexpected file layout %q", data)
	}
}

func TestFingerprintFile_SkipsBlankLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/data/fingerprints.log", []byte("aaa\n\n  bbb  \n\n"), 0o644)

	l, err := OpenFingerprintFile("/data/fingerprints.log", WithFs(fs))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = l.Close() }()

	got, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, []model.Fingerprint{"aaa", "bbb"}) {
		t.Errorf("unexpected fingerprints %v", got)
	}
}

func TestFingerprintFile_Closed(t *testing.T) {
	l, err := OpenFingerprintFile("/data/fingerprints.log", WithFs(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := l.Append(context.Background(), "aaa"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestFingerprintFile_CancelledContext(t *testing.T) {
	l, err := OpenFingerprintFile("/data/fingerprints.log", WithFs(afero.NewMemMapFs()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = l.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Append(ctx, "aaa"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
