package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

const settingsFile = "settings.json"

// Store provides persistent key-value settings.
type Store struct {
	baseDir string

	mu     sync.Mutex
	values map[string]string
}

// New creates a new Store instance with the given base directory.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, values: make(map[string]string)}
}

// Open creates a Store and loads any settings already on disk.
func Open(baseDir string) (*Store, error) {
	s := New(baseDir)
	if err := s.EnsureDirs(); err != nil {
		return nil, err
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// EnsureDirs creates the base directory.
func (s *Store) EnsureDirs() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

func (s *Store) path() string {
	return filepath.Join(s.baseDir, settingsFile)
}

// Load replaces the in-memory settings with the file contents. A missing
// file leaves the store empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.values = make(map[string]string)
			return nil
		}
		return err
	}
	defer f.Close()

	values := make(map[string]string)
	if err := json.NewDecoder(f).Decode(&values); err != nil {
		return fmt.Errorf("decode %s: %w", s.path(), err)
	}
	s.values = values
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and writes the settings file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := maps.Clone(s.values)
	if values == nil {
		values = make(map[string]string)
	}
	values[key] = value
	if err := s.write(values); err != nil {
		return err
	}
	s.values = values
	return nil
}

// All returns a copy of every setting.
func (s *Store) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values)
}

func (s *Store) write(values map[string]string) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return err
	}

	tmp := s.path() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(values); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
