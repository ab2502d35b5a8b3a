package page

import (
	"bytes"
	"html/template"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/denbitaro/nikki/internal/diary"
	"github.com/denbitaro/nikki/internal/storage"
)

func testRebuilderEnv(t *testing.T) (*Rebuilder, *storage.FS) {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRebuilder(fs, logger), fs
}

// writePage writes a detail page with both nav links disabled, so rebuilds
// have something to correct.
func writePage(t *testing.T, fs *storage.FS, name, title string) {
	t.Helper()
	doc, err := testGenerator().Render(Model{
		Title:    template.HTML(title),
		DateISO:  "2024-01-01",
		DateDisp: "2024年1月1日",
		Body:     FormatBody("本文"),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := fs.Write(name, doc); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func threeEntries() []diary.Entry {
	// Descending order, newest first.
	return []diary.Entry{
		{Href: "diary-contents/20240103.html", DateISO: "2024-01-03"},
		{Href: "diary-contents/20240102.html", DateISO: "2024-01-02"},
		{Href: "diary-contents/20240101.html", DateISO: "2024-01-01"},
	}
}

func TestRebuildAllLinksNeighbors(t *testing.T) {
	reb, fs := testRebuilderEnv(t)
	entries := threeEntries()
	for _, e := range entries {
		writePage(t, fs, e.FileName(), "t")
	}

	if err := reb.RebuildAll(entries); err != nil {
		t.Fatalf("RebuildAll: %v", err)
	}

	newest, _ := fs.Read("20240103.html")
	if !strings.Contains(string(newest), `rel="prev" href="20240102.html"`) {
		t.Error("newest entry should link prev to the older neighbor")
	}
	if !strings.Contains(string(newest), `rel="next" href="#"`) {
		t.Error("newest entry should have a disabled next link")
	}

	middle, _ := fs.Read("20240102.html")
	if !strings.Contains(string(middle), `rel="prev" href="20240101.html"`) {
		t.Error("middle entry prev link wrong")
	}
	if !strings.Contains(string(middle), `rel="next" href="20240103.html"`) {
		t.Error("middle entry next link wrong")
	}

	oldest, _ := fs.Read("20240101.html")
	if !strings.Contains(string(oldest), `rel="prev" href="#"`) {
		t.Error("oldest entry should have a disabled prev link")
	}
	if !strings.Contains(string(oldest), `rel="next" href="20240102.html"`) {
		t.Error("oldest entry next link wrong")
	}
}

func TestRebuildAllIdempotent(t *testing.T) {
	reb, fs := testRebuilderEnv(t)
	entries := threeEntries()
	for _, e := range entries {
		writePage(t, fs, e.FileName(), "t")
	}

	if err := reb.RebuildAll(entries); err != nil {
		t.Fatalf("first RebuildAll: %v", err)
	}
	var first [][]byte
	for _, e := range entries {
		data, err := fs.Read(e.FileName())
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		first = append(first, data)
	}

	if err := reb.RebuildAll(entries); err != nil {
		t.Fatalf("second RebuildAll: %v", err)
	}
	for i, e := range entries {
		data, err := fs.Read(e.FileName())
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if !bytes.Equal(first[i], data) {
			t.Errorf("%s changed on second rebuild", e.FileName())
		}
	}
}

func TestRebuildAllSkipsMissingFiles(t *testing.T) {
	reb, fs := testRebuilderEnv(t)
	entries := threeEntries()
	// Only the newest and oldest pages exist on disk.
	writePage(t, fs, "20240103.html", "t")
	writePage(t, fs, "20240101.html", "t")

	if err := reb.RebuildAll(entries); err != nil {
		t.Fatalf("RebuildAll should not fail on a missing file: %v", err)
	}

	// The existing files still got their navigation updated. Links follow
	// the store order even when the neighbor's file is missing.
	newest, _ := fs.Read("20240103.html")
	if !strings.Contains(string(newest), `rel="prev" href="20240102.html"`) {
		t.Error("newest entry nav not rebuilt")
	}
}
