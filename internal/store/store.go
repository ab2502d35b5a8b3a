// Package store persists the ordered entry index as a JSON array file.
// The file is the single source of truth for entry existence and order;
// the generated detail pages are derived from it.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/denbitaro/nikki/internal/diary"
	"github.com/denbitaro/nikki/internal/storage"
)

// IndexFileName is the canonical name of the entry index file.
const IndexFileName = "entries.json"

// Store reads and writes the entry index file through a storage provider.
type Store struct {
	mu   sync.Mutex
	fs   storage.Provider
	name string // index file name relative to the provider root
}

// New creates a Store bound to the named file under the provider's root.
func New(fs storage.Provider, name string) *Store {
	return &Store{fs: fs, name: name}
}

// Load reads the index file. An absent file or content that is not a valid
// entry array is treated as "no entries yet" and returns an empty slice
// with no error. Other read failures propagate.
func (s *Store) Load() ([]diary.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]diary.Entry, error) {
	data, err := s.fs.Read(s.name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var entries []diary.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil
	}
	return entries, nil
}

// Save re-sorts the entries (date_iso desc, created_at desc) and writes
// them with stable two-space indentation. The write goes through the
// provider's locked atomic write.
func (s *Store) Save(entries []diary.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	diary.Sort(entries)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal entries: %w", err)
	}
	data = append(data, '\n')
	if err := s.fs.Write(s.name, data); err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}
