package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/placemarks/internal/model"
	"github.com/nikbrunner/placemarks/internal/storage"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	catalog := model.NewCatalog()
	catalog.Categories = []model.Category{{ID: 1, Name: "Lisbon", Visible: true}}
	catalog.Bookmarks = []model.Bookmark{{ID: 2, CategoryID: 1, Name: "Cafe", Lat: 38.7, Lon: -9.1}}
	catalog.SortPrefs[1] = model.SortByName
	catalog.NextID = 3

	s := storage.NewJSONStorage(path)
	if err := s.Save(catalog); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("bookmarks file was not created")
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Categories) != 1 {
		t.Errorf("expected 1 category, got %d", len(loaded.Categories))
	}
	if len(loaded.Bookmarks) != 1 {
		t.Errorf("expected 1 bookmark, got %d", len(loaded.Bookmarks))
	}
	if loaded.Categories[0].Name != "Lisbon" {
		t.Errorf("expected category name 'Lisbon', got %q", loaded.Categories[0].Name)
	}
	if loaded.SortPrefs[1] != model.SortByName {
		t.Errorf("expected sort preference to survive, got %v", loaded.SortPrefs[1])
	}
	if loaded.NextID != 3 {
		t.Errorf("expected next id 3, got %d", loaded.NextID)
	}
}

func TestJSONStorage_LoadNonexistent(t *testing.T) {
	tmpDir := t.TempDir()

	s := storage.NewJSONStorage(filepath.Join(tmpDir, "nonexistent.json"))
	catalog, err := s.Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	if len(catalog.Categories) != 0 || len(catalog.Bookmarks) != 0 || len(catalog.Tracks) != 0 {
		t.Error("expected empty catalog for missing file")
	}
}

func TestJSONStorage_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir", "bookmarks.json")

	s := storage.NewJSONStorage(path)
	if err := s.Save(model.NewCatalog()); err != nil {
		t.Fatalf("failed to save with nested dir: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("bookmarks file was not created in nested directory")
	}
}

func TestJSONStorage_PreservesOrder(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	catalog := model.NewCatalog()
	catalog.Categories = []model.Category{
		{ID: 3, Name: "First"},
		{ID: 1, Name: "Second"},
		{ID: 2, Name: "Third"},
	}

	s := storage.NewJSONStorage(path)
	if err := s.Save(catalog); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	expectedNames := []string{"First", "Second", "Third"}
	for i, name := range expectedNames {
		if loaded.Categories[i].Name != name {
			t.Errorf("order not preserved: expected %q at position %d, got %q",
				name, i, loaded.Categories[i].Name)
		}
	}
}

func TestOpen_Backends(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		setup   func(dir string)
		wantErr bool
		check   func(t *testing.T, s storage.Storage)
	}{
		{
			name:    "explicit json",
			backend: storage.BackendJSON,
			check: func(t *testing.T, s storage.Storage) {
				if _, ok := s.(*storage.JSONStorage); !ok {
					t.Errorf("expected *JSONStorage, got %T", s)
				}
			},
		},
		{
			name:    "explicit sqlite",
			backend: storage.BackendSQLite,
			check: func(t *testing.T, s storage.Storage) {
				if _, ok := s.(*storage.SQLiteStorage); !ok {
					t.Errorf("expected *SQLiteStorage, got %T", s)
				}
			},
		},
		{
			name:    "auto picks existing json",
			backend: "",
			setup: func(dir string) {
				_ = os.WriteFile(filepath.Join(dir, "bookmarks.json"), []byte(`{"categories":[]}`), 0644)
			},
			check: func(t *testing.T, s storage.Storage) {
				if _, ok := s.(*storage.JSONStorage); !ok {
					t.Errorf("expected *JSONStorage, got %T", s)
				}
			},
		},
		{
			name:    "auto defaults to sqlite",
			backend: "",
			check: func(t *testing.T, s storage.Storage) {
				if _, ok := s.(*storage.SQLiteStorage); !ok {
					t.Errorf("expected *SQLiteStorage, got %T", s)
				}
			},
		},
		{
			name:    "unknown backend",
			backend: "postgres",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(dir)
			}

			s, err := storage.Open(tt.backend, dir)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer s.Close()
			tt.check(t, s)
		})
	}
}
