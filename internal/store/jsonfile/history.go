// Package jsonfile persists finished-command history in a JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hay-kot/tenrec/internal/core/history"
)

// historyFile is the root JSON structure stored on disk.
type historyFile struct {
	Records []history.Record `json:"records"`
}

// HistoryStore implements history.Store using a JSON file for persistence.
type HistoryStore struct {
	path       string
	maxEntries int
	mu         sync.RWMutex
}

// NewHistoryStore creates a JSON file history store at path. maxEntries
// limits stored records (0 means unlimited).
func NewHistoryStore(path string, maxEntries int) *HistoryStore {
	return &HistoryStore{path: path, maxEntries: maxEntries}
}

// Path returns the backing file path.
func (s *HistoryStore) Path() string {
	return s.path
}

// List returns all records, newest first.
func (s *HistoryStore) List(ctx context.Context) ([]history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.Records, nil
}

// Get returns a record by ID. Returns history.ErrNotFound if not found.
func (s *HistoryStore) Get(ctx context.Context, id string) (history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.load()
	if err != nil {
		return history.Record{}, err
	}

	for _, rec := range f.Records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return history.Record{}, history.ErrNotFound
}

// Save prepends rec, pruning the oldest records to stay within maxEntries.
func (s *HistoryStore) Save(ctx context.Context, rec history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}

	f.Records = append([]history.Record{rec}, f.Records...)
	if s.maxEntries > 0 && len(f.Records) > s.maxEntries {
		f.Records = f.Records[:s.maxEntries]
	}

	return s.save(f)
}

// Clear removes all records.
func (s *HistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(historyFile{Records: []history.Record{}})
}

// LastFailed returns the most recent record with a non-zero exit code.
// Returns history.ErrNotFound if none.
func (s *HistoryStore) LastFailed(ctx context.Context) (history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.load()
	if err != nil {
		return history.Record{}, err
	}

	for _, rec := range f.Records {
		if rec.Failed() {
			return rec, nil
		}
	}
	return history.Record{}, history.ErrNotFound
}

// load returns an empty file when nothing is on disk yet.
func (s *HistoryStore) load() (historyFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return historyFile{}, nil
		}
		return historyFile{}, fmt.Errorf("read history file: %w", err)
	}

	if len(data) == 0 {
		return historyFile{}, nil
	}

	var f historyFile
	if err := json.Unmarshal(data, &f); err != nil {
		return historyFile{}, fmt.Errorf("history file corrupted (run 'tenrec history --clear' to reset): %w", err)
	}
	return f, nil
}

// save writes through a temp file and renames it into place.
func (s *HistoryStore) save(f historyFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename history file: %w", err)
	}
	return nil
}

var _ history.Store = (*HistoryStore)(nil)
