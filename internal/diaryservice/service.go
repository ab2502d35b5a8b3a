// Package diaryservice coordinates the entry store, the detail page
// generator and the navigation rebuilder. The store save always happens
// before derived-file writes: the index is the durable record, page
// regeneration is best-effort and self-heals on the next rebuild.
package diaryservice

import (
	"context"
	"fmt"
	"html/template"
	"path"
	"time"

	"github.com/denbitaro/nikki/internal/apperr"
	"github.com/denbitaro/nikki/internal/diary"
	"github.com/denbitaro/nikki/internal/page"
	"github.com/denbitaro/nikki/internal/storage"
	"github.com/denbitaro/nikki/internal/store"
)

// EditData holds the prefilled values for the edit form.
type EditData struct {
	Href    string
	Title   string
	DateISO string
	Body    string
}

// Service orchestrates all entry mutations.
type Service struct {
	store   *store.Store
	content storage.Provider
	gen     *page.Generator
	reb     *page.Rebuilder
	prefix  string // content link prefix, e.g. "diary-contents"
	now     func() time.Time
}

// NewService creates a Service. prefix is the content link prefix used to
// build hrefs ("<prefix>/<file>.html").
func NewService(st *store.Store, content storage.Provider, gen *page.Generator, reb *page.Rebuilder, prefix string) *Service {
	return &Service{
		store:   st,
		content: content,
		gen:     gen,
		reb:     reb,
		prefix:  prefix,
		now:     time.Now,
	}
}

// List returns all entries in store order (newest first).
func (s *Service) List(_ context.Context) ([]diary.Entry, error) {
	return s.store.Load()
}

// Create validates the input, appends a new record to the store and
// generates its detail page. The file name is derived from the compact
// date; an existing file of that name gets a time-of-day suffix instead.
func (s *Service) Create(_ context.Context, title, dateISO, body string) (*diary.Entry, error) {
	if err := diary.ValidateInput(title, dateISO); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	dateDisp, err := diary.DisplayDate(dateISO)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}

	now := s.now()
	name := diary.CompactFileName(dateISO)
	if s.content.Exists(name) {
		name = diary.CompactFileNameWithTime(dateISO, now)
	}

	entry := diary.Entry{
		Title:     page.EscapeTitle(title),
		DateISO:   dateISO,
		DateDisp:  dateDisp,
		Href:      s.prefix + "/" + name,
		CreatedAt: now,
	}

	entries, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry)
	if err := s.store.Save(entries); err != nil {
		return nil, err
	}
	// Reload to pick up the post-save order.
	entries, err = s.store.Load()
	if err != nil {
		return nil, err
	}

	if err := s.renderDetail(entries, entry.Href, body); err != nil {
		return nil, err
	}
	if err := s.reb.RebuildAll(entries); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update mutates the record identified by href in place and regenerates
// its detail page. The href itself is immutable; only title, date and body
// change.
func (s *Service) Update(_ context.Context, href, title, dateISO, body string) error {
	if err := diary.ValidateInput(title, dateISO); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	dateDisp, err := diary.DisplayDate(dateISO)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	if !s.content.Exists(path.Base(href)) {
		return fmt.Errorf("detail file for %s: %w", href, apperr.ErrNotFound)
	}

	entries, err := s.store.Load()
	if err != nil {
		return err
	}
	idx := diary.IndexOf(entries, href)
	if idx < 0 {
		return fmt.Errorf("entry %s: %w", href, apperr.ErrNotFound)
	}
	entries[idx].Title = page.EscapeTitle(title)
	entries[idx].DateISO = dateISO
	entries[idx].DateDisp = dateDisp

	if err := s.store.Save(entries); err != nil {
		return err
	}
	entries, err = s.store.Load()
	if err != nil {
		return err
	}

	if err := s.renderDetail(entries, href, body); err != nil {
		return err
	}
	return s.reb.RebuildAll(entries)
}

// Delete removes the record from the store (a no-op when absent) and
// best-effort-deletes the backing file. Store removal is authoritative; a
// failed file removal is ignored.
func (s *Service) Delete(_ context.Context, href string) error {
	entries, err := s.store.Load()
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Href != href {
			kept = append(kept, e)
		}
	}
	if err := s.store.Save(kept); err != nil {
		return err
	}
	_ = s.content.Delete(path.Base(href))
	return s.reb.RebuildAll(kept)
}

// EditData returns the initial values for the edit form: title and date
// from the store record, body recovered from the generated page. A missing
// backing file yields an empty body.
func (s *Service) EditData(_ context.Context, href string) (*EditData, error) {
	entries, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	idx := diary.IndexOf(entries, href)
	if idx < 0 {
		return nil, fmt.Errorf("entry %s: %w", href, apperr.ErrNotFound)
	}
	body, err := page.ExtractBody(s.content, path.Base(href))
	if err != nil {
		return nil, err
	}
	return &EditData{
		Href:    href,
		Title:   page.UnescapeTitle(entries[idx].Title),
		DateISO: entries[idx].DateISO,
		Body:    body,
	}, nil
}

// renderDetail regenerates the detail page for the entry with the given
// href, using its neighbors in the current order.
func (s *Service) renderDetail(entries []diary.Entry, href, body string) error {
	idx := diary.IndexOf(entries, href)
	if idx < 0 {
		return fmt.Errorf("entry %s after save: %w", href, apperr.ErrNotFound)
	}
	var prev, next page.NavLink
	if idx+1 < len(entries) {
		prev.Href = entries[idx+1].FileName()
	}
	if idx-1 >= 0 {
		next.Href = entries[idx-1].FileName()
	}
	doc, err := s.gen.Render(page.Model{
		Title:    template.HTML(entries[idx].Title),
		DateISO:  entries[idx].DateISO,
		DateDisp: entries[idx].DateDisp,
		Body:     page.FormatBody(body),
		Prev:     prev,
		Next:     next,
	})
	if err != nil {
		return err
	}
	return s.content.Write(entries[idx].FileName(), doc)
}
