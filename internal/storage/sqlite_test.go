package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/placemarks/internal/model"
	"github.com/nikbrunner/placemarks/internal/storage"
)

func int64Ptr(v int64) *int64 { return &v }

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "bookmarks.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	now := time.Now().Truncate(time.Second) // SQLite RFC3339 loses sub-second precision

	catalog := model.NewCatalog()
	catalog.Categories = []model.Category{
		{ID: 1, Name: "Lisbon", Description: "Spring trip", Visible: true},
	}
	catalog.Bookmarks = []model.Bookmark{
		{
			ID:          2,
			CategoryID:  1,
			Name:        "Cafe",
			Description: "Best pastries",
			Lat:         38.7139,
			Lon:         -9.1394,
			Color:       model.ColorBlue,
			Icon:        "food",
			CreatedAt:   now,
		},
	}
	catalog.Tracks = []model.Track{
		{
			ID:         3,
			CategoryID: 1,
			Name:       "Alfama walk",
			Color:      model.ColorGreen,
			Points:     []model.LatLon{{Lat: 38.71, Lon: -9.13}, {Lat: 38.72, Lon: -9.12}},
			CreatedAt:  now,
		},
	}
	catalog.SortPrefs[1] = model.SortByDistance
	catalog.NextID = 4

	if err := s.Save(catalog); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(loaded.Categories))
	}
	if !loaded.Categories[0].Visible {
		t.Error("expected category to be visible")
	}
	if len(loaded.Bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(loaded.Bookmarks))
	}
	b := loaded.Bookmarks[0]
	if b.Color != model.ColorBlue || b.Icon != "food" {
		t.Errorf("expected blue food bookmark, got %q %q", b.Color, b.Icon)
	}
	if !b.CreatedAt.Equal(now) {
		t.Errorf("expected CreatedAt %v, got %v", now, b.CreatedAt)
	}
	if len(loaded.Tracks) != 1 || len(loaded.Tracks[0].Points) != 2 {
		t.Errorf("expected 1 track with 2 points, got %+v", loaded.Tracks)
	}
	if loaded.SortPrefs[1] != model.SortByDistance {
		t.Errorf("expected sort preference distance, got %v", loaded.SortPrefs[1])
	}
	if loaded.NextID != 4 {
		t.Errorf("expected next id 4, got %d", loaded.NextID)
	}
}

func TestSQLiteStorage_EmptyDatabase(t *testing.T) {
	tmpDir := t.TempDir()

	s, err := storage.NewSQLiteStorage(filepath.Join(tmpDir, "empty.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	catalog, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load empty db: %v", err)
	}

	if len(catalog.Categories) != 0 || len(catalog.Bookmarks) != 0 || len(catalog.Tracks) != 0 {
		t.Error("expected empty catalog")
	}
	if catalog.NextID != 1 {
		t.Errorf("expected next id 1, got %d", catalog.NextID)
	}
}

func TestSQLiteStorage_SchemaVersion(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "schema.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	s.Close()

	// Reopening must not rerun migrations.
	s, err = storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	defer s.Close()

	version, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected schema version 2, got %d", version)
	}
}

func TestSQLiteStorage_NestedCategoriesAndOrder(t *testing.T) {
	tmpDir := t.TempDir()

	s, err := storage.NewSQLiteStorage(filepath.Join(tmpDir, "nested.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	// Child listed before its parent, ids out of order.
	catalog := model.NewCatalog()
	catalog.Categories = []model.Category{
		{ID: 5, Name: "Porto", ParentID: int64Ptr(9)},
		{ID: 9, Name: "Portugal"},
		{ID: 1, Name: "Spain"},
	}

	if err := s.Save(catalog); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	expected := []string{"Porto", "Portugal", "Spain"}
	for i, name := range expected {
		if loaded.Categories[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, loaded.Categories[i].Name)
		}
	}
	if loaded.Categories[0].ParentID == nil || *loaded.Categories[0].ParentID != 9 {
		t.Error("expected parent id to be preserved")
	}
	if loaded.Categories[2].ParentID != nil {
		t.Error("expected top level category to have nil parent")
	}
}

func TestSQLiteStorage_SaveReplacesContent(t *testing.T) {
	tmpDir := t.TempDir()

	s, err := storage.NewSQLiteStorage(filepath.Join(tmpDir, "replace.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	first := model.NewCatalog()
	first.Categories = []model.Category{{ID: 1, Name: "Old"}}
	first.Bookmarks = []model.Bookmark{{ID: 2, CategoryID: 1, Name: "Gone", CreatedAt: time.Now()}}
	if err := s.Save(first); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	second := model.NewCatalog()
	second.Categories = []model.Category{{ID: 3, Name: "New"}}
	if err := s.Save(second); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded.Categories) != 1 || loaded.Categories[0].Name != "New" {
		t.Errorf("expected only 'New', got %+v", loaded.Categories)
	}
	if len(loaded.Bookmarks) != 0 {
		t.Errorf("expected no bookmarks, got %d", len(loaded.Bookmarks))
	}
}
