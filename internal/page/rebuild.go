package page

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/denbitaro/nikki/internal/diary"
	"github.com/denbitaro/nikki/internal/storage"
)

var navRegionRe = regexp.MustCompile(`(?is)<nav\s+class="nav-links"[^>]*>.*?</nav>`)

// Rebuilder rewrites the navigation block of every existing detail page so
// prev/next links match the current entry order.
type Rebuilder struct {
	fs     storage.Provider
	logger *slog.Logger
}

// NewRebuilder creates a Rebuilder over the content directory provider.
func NewRebuilder(fs storage.Provider, logger *slog.Logger) *Rebuilder {
	return &Rebuilder{fs: fs, logger: logger}
}

// RebuildAll walks the descending-sorted entries. For position i the prev
// link points at i+1 (the older neighbor) and the next link at i-1 (the
// newer one); boundary positions get disabled placeholders. Links are file
// names only since all detail pages live in one directory. Entries whose
// backing file is missing are skipped; the store is authoritative and the
// page catches up on the next rebuild.
func (r *Rebuilder) RebuildAll(entries []diary.Entry) error {
	for i := range entries {
		var prev, next NavLink
		if i+1 < len(entries) {
			prev.Href = entries[i+1].FileName()
		}
		if i-1 >= 0 {
			next.Href = entries[i-1].FileName()
		}

		nav, err := RenderNav(prev, next)
		if err != nil {
			return err
		}

		name := entries[i].FileName()
		data, err := r.fs.Read(name)
		if err != nil {
			r.logger.Warn("rebuild: skipping entry without backing file",
				slog.String("href", entries[i].Href),
				slog.String("error", err.Error()))
			continue
		}

		loc := navRegionRe.FindIndex(data)
		if loc == nil {
			r.logger.Warn("rebuild: no navigation block found",
				slog.String("href", entries[i].Href))
			continue
		}

		// Replace the first match only.
		out := make([]byte, 0, len(data)-(loc[1]-loc[0])+len(nav))
		out = append(out, data[:loc[0]]...)
		out = append(out, nav...)
		out = append(out, data[loc[1]:]...)

		if err := r.fs.Write(name, out); err != nil {
			return fmt.Errorf("page: rebuild %s: %w", name, err)
		}
	}
	return nil
}
