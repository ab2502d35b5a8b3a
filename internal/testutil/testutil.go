// Package testutil provides shared test helpers for setting up temporary
// data and content directories with a wired diary service.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/denbitaro/nikki/internal/diaryservice"
	"github.com/denbitaro/nikki/internal/page"
	"github.com/denbitaro/nikki/internal/storage"
	"github.com/denbitaro/nikki/internal/store"
)

// ContentHref is the link prefix used by test environments.
const ContentHref = "diary-contents"

// Env bundles the pieces most tests need.
type Env struct {
	DataDir    string
	ContentDir string
	Content    *storage.FS
	Store      *store.Store
	Rebuilder  *page.Rebuilder
	Service    *diaryservice.Service
}

// NewEnv creates temporary data and content directories and wires up the
// store, generator, rebuilder, and service over them.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	dataDir := t.TempDir()
	contentDir := t.TempDir()

	dataFS, err := storage.NewFS(dataDir)
	if err != nil {
		t.Fatalf("NewFS(data): %v", err)
	}
	contentFS, err := storage.NewFS(contentDir)
	if err != nil {
		t.Fatalf("NewFS(content): %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(dataFS, store.IndexFileName)
	gen := page.NewGenerator("テストの日記", "../css/diary-detail.css")
	reb := page.NewRebuilder(contentFS, logger)
	svc := diaryservice.NewService(st, contentFS, gen, reb, ContentHref)

	return &Env{
		DataDir:    dataDir,
		ContentDir: contentDir,
		Content:    contentFS,
		Store:      st,
		Rebuilder:  reb,
		Service:    svc,
	}
}
