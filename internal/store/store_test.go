package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmylchreest/tinct-shell/internal/colour"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPaletteCache(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if _, hit, err := s.GetPalette(ctx, "missing"); err != nil || hit {
		t.Fatalf("GetPalette(missing) = hit %v, err %v", hit, err)
	}

	want := []colour.RGB{{R: 1, G: 2, B: 3}, {R: 250, G: 128, B: 0}}
	if err := s.PutPalette(ctx, "k", want); err != nil {
		t.Fatalf("PutPalette() error: %v", err)
	}
	got, hit, err := s.GetPalette(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("GetPalette() = hit %v, err %v", hit, err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("GetPalette() = %v, want %v", got, want)
	}

	if err := s.PutPalette(ctx, "k", want[:1]); err != nil {
		t.Fatalf("PutPalette() overwrite error: %v", err)
	}
	got, _, _ = s.GetPalette(ctx, "k")
	if len(got) != 1 {
		t.Errorf("Overwritten palette has %d colours, want 1", len(got))
	}

	n, err := s.PrunePalettes(ctx, -time.Hour)
	if err != nil {
		t.Fatalf("PrunePalettes() error: %v", err)
	}
	if n != 1 {
		t.Errorf("PrunePalettes() removed %d, want 1", n)
	}
}

func TestRuns(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := s.RecordRun(ctx, Run{
		CreatedAt:    base,
		ThemeDir:     "/themes/CustomTheme",
		Image:        "/walls/a.png",
		Mode:         "dark",
		Strategy:     "deterministic",
		Groups:       4,
		GeneratedCSS: ":root {\n}\n",
	})
	if err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}
	if len(first) != 36 {
		t.Errorf("RecordRun() id = %q, want a uuid", first)
	}
	second, err := s.RecordRun(ctx, Run{CreatedAt: base.Add(time.Minute), Mode: "light", Strategy: "random"})
	if err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns() error: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second || runs[1].ID != first {
		t.Fatalf("ListRuns() order wrong: %+v", runs)
	}

	got, err := s.GetRun(ctx, first[:8])
	if err != nil {
		t.Fatalf("GetRun(prefix) error: %v", err)
	}
	if got.Groups != 4 || got.GeneratedCSS != ":root {\n}\n" || !got.CreatedAt.Equal(base) {
		t.Errorf("GetRun() = %+v", got)
	}

	if _, err := s.GetRun(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRun(nope) error = %v, want ErrNotFound", err)
	}
}

func TestOpenTwice(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := s.PutPalette(context.Background(), "k", []colour.RGB{{R: 7}}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()
	if _, hit, _ := s.GetPalette(context.Background(), "k"); !hit {
		t.Error("Expected palette to persist across reopen")
	}
}
