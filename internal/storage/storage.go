package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a small persistent key-value store. It holds the session
// identifier between runs.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// JSONStore implements Store using a JSON object in a file.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore creates a new JSONStore with the given file path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the storage file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Get reads key from the file. A missing file holds no keys.
func (s *JSONStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set writes key, creating the file and its directory if needed.
func (s *JSONStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *JSONStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// Close is a no-op; every operation goes straight to the file.
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func (s *JSONStore) save(values map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}

// DefaultDir returns the directory holding all bmdash state: ~/.config/bmdash
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bmdash"), nil
}

// OpenStoreIn opens the store under dir.
// Prefers SQLite if the database file exists, otherwise falls back to JSON.
func OpenStoreIn(dir string) (Store, error) {
	sqlitePath := filepath.Join(dir, SQLiteFileName)
	if _, err := os.Stat(sqlitePath); err == nil {
		return NewSQLiteStore(sqlitePath)
	}
	return NewJSONStore(filepath.Join(dir, JSONFileName)), nil
}

// OpenStoreKind opens the store under dir using an explicit backend:
// "sqlite", "json", or "auto" (same as OpenStoreIn).
func OpenStoreKind(dir, kind string) (Store, error) {
	switch kind {
	case "", KindAuto:
		return OpenStoreIn(dir)
	case KindSQLite:
		return NewSQLiteStore(filepath.Join(dir, SQLiteFileName))
	case KindJSON:
		return NewJSONStore(filepath.Join(dir, JSONFileName)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStoreKind, kind)
	}
}

const (
	SQLiteFileName = "state.db"
	JSONFileName   = "state.json"
)

// Store backends accepted by OpenStoreKind.
const (
	KindAuto   = "auto"
	KindSQLite = "sqlite"
	KindJSON   = "json"
)

// ErrUnknownStoreKind is returned for an unsupported backend name.
var ErrUnknownStoreKind = errors.New("unknown store kind")
