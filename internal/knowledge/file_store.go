package knowledge

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps all entries as one pretty-printed JSON array, rewritten
// on every mutation. Good enough for a few thousand entries.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()

	s := &FileStore{path: path}
	entries, err := s.All()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		if err := s.Append(BootstrapEntry()); err != nil {
			return nil, fmt.Errorf("seed bootstrap entry: %w", err)
		}
	}
	return s, nil
}

func (s *FileStore) All() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUnlocked()
}

func (s *FileStore) Get(id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.loadUnlocked()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

func (s *FileStore) Append(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.loadUnlocked()
	if err != nil {
		return err
	}
	entries = append(entries, e)
	return s.saveUnlocked(entries)
}

func (s *FileStore) Update(id, answer string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.loadUnlocked()
	if err != nil {
		return Entry{}, err
	}
	for i, e := range entries {
		if e.ID == id {
			entries[i].Answer = answer
			entries[i].UpdatedAt = time.Now().UTC()
			if err := s.saveUnlocked(entries); err != nil {
				return Entry{}, err
			}
			return entries[i], nil
		}
	}
	return Entry{}, ErrNotFound
}

func (s *FileStore) Count() (int, error) {
	entries, err := s.All()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *FileStore) loadUnlocked() ([]Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()
	var entries []Entry
	dec := json.NewDecoder(f)
	if err := dec.Decode(&entries); err != nil {
		if err == io.EOF {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	return entries, nil
}

func (s *FileStore) saveUnlocked(entries []Entry) error {
	f, err := os.OpenFile(s.path, os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer func() { _ = f.Close() }()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
