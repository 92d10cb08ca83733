package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/placemarks/internal/model"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Storage defines the interface for persisting the catalog.
type Storage interface {
	Load() (*model.Catalog, error)
	Save(catalog *model.Catalog) error
	Close() error
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the catalog from the JSON file.
// Returns an empty catalog if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewCatalog(), nil
		}
		return nil, err
	}

	var catalog model.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	catalog.Normalize()

	return &catalog, nil
}

// Save writes the catalog to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(catalog *model.Catalog) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename so a crash never leaves a truncated file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Close is a no-op for JSON storage.
func (s *JSONStorage) Close() error {
	return nil
}

// Open opens the storage backend inside dir.
// An empty backend prefers SQLite if the database file exists, otherwise JSON
// if a JSON file exists, otherwise a new SQLite database.
func Open(backend, dir string) (Storage, error) {
	sqlitePath := filepath.Join(dir, "bookmarks.db")
	jsonPath := filepath.Join(dir, "bookmarks.json")

	switch backend {
	case BackendSQLite:
		return NewSQLiteStorage(sqlitePath)
	case BackendJSON:
		return NewJSONStorage(jsonPath), nil
	case "":
		if _, err := os.Stat(sqlitePath); err == nil {
			return NewSQLiteStorage(sqlitePath)
		}
		if _, err := os.Stat(jsonPath); err == nil {
			return NewJSONStorage(jsonPath), nil
		}
		return NewSQLiteStorage(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
