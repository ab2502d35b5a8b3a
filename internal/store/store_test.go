package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/denbitaro/nikki/internal/diary"
	"github.com/denbitaro/nikki/internal/storage"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return New(fs, IndexFileName), dir
}

func TestLoadAbsentFile(t *testing.T) {
	s, _ := tempStore(t)
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len = %d, want 0", len(entries))
	}
}

func TestLoadMalformedFile(t *testing.T) {
	s, dir := tempStore(t)
	if err := os.WriteFile(filepath.Join(dir, IndexFileName), []byte("{not an array"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("malformed index should load as empty, got %d entries", len(entries))
	}
}

func TestSaveSortsEntries(t *testing.T) {
	s, _ := tempStore(t)
	err := s.Save([]diary.Entry{
		{Href: "diary-contents/a.html", DateISO: "2024-01-01"},
		{Href: "diary-contents/b.html", DateISO: "2024-01-02"},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if entries[0].DateISO != "2024-01-02" {
		t.Errorf("entries[0].DateISO = %q, want the newer date first", entries[0].DateISO)
	}
}

func TestSaveStableOutput(t *testing.T) {
	s, dir := tempStore(t)
	entries := []diary.Entry{
		{Title: "x", Href: "diary-contents/a.html", DateISO: "2024-01-01",
			DateDisp: "2024年1月1日", CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
	}
	if err := s.Save(entries); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(entries); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two saves of the same entries produced different bytes")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	s, _ := tempStore(t)
	in := diary.Entry{
		Title:     "&lt;b&gt;escaped&lt;/b&gt;",
		DateISO:   "2024-03-05",
		DateDisp:  "2024年3月5日",
		Href:      "diary-contents/20240305.html",
		CreatedAt: time.Date(2024, 3, 5, 12, 34, 56, 0, time.UTC),
	}
	if err := s.Save([]diary.Entry{in}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.Title != in.Title || got.DateISO != in.DateISO ||
		got.DateDisp != in.DateDisp || got.Href != in.Href ||
		!got.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
