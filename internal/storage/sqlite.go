package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/placemarks/internal/model"
)

const currentSchemaVersion = 2

// SQLiteStorage implements Storage using a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	if version < currentSchemaVersion {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			visible INTEGER NOT NULL DEFAULT 1,
			parent_id INTEGER,
			position INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (parent_id) REFERENCES categories(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories(parent_id);

		CREATE TABLE IF NOT EXISTS bookmarks (
			id INTEGER PRIMARY KEY NOT NULL,
			category_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			color TEXT NOT NULL DEFAULT 'red',
			icon TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_bookmarks_category_id ON bookmarks(category_id);

		CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY NOT NULL,
			category_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT 'red',
			points TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_tracks_category_id ON tracks(category_id);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 adds per-category sorting preferences and the id counter.
func (s *SQLiteStorage) migrateV2() error {
	migration := `
		CREATE TABLE IF NOT EXISTS sort_prefs (
			category_id INTEGER PRIMARY KEY NOT NULL,
			sorting_type INTEGER NOT NULL,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS counters (
			name TEXT PRIMARY KEY NOT NULL,
			value INTEGER NOT NULL
		);

		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

// Load reads the catalog from the SQLite database.
func (s *SQLiteStorage) Load() (*model.Catalog, error) {
	catalog := model.NewCatalog()

	if err := s.loadCategories(catalog); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if err := s.loadBookmarks(catalog); err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	if err := s.loadTracks(catalog); err != nil {
		return nil, fmt.Errorf("load tracks: %w", err)
	}
	if err := s.loadSortPrefs(catalog); err != nil {
		return nil, fmt.Errorf("load sort prefs: %w", err)
	}

	var nextID int64
	err := s.db.QueryRow("SELECT value FROM counters WHERE name = 'next_id'").Scan(&nextID)
	if err == nil {
		catalog.NextID = nextID
	}
	catalog.Normalize()

	return catalog, nil
}

func (s *SQLiteStorage) loadCategories(catalog *model.Catalog) error {
	rows, err := s.db.Query(`
		SELECT id, name, description, visible, parent_id
		FROM categories
		ORDER BY position, id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Category
		var parentID sql.NullInt64
		var visible int

		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &visible, &parentID); err != nil {
			return err
		}

		if parentID.Valid {
			c.ParentID = &parentID.Int64
		}
		c.Visible = visible == 1

		catalog.Categories = append(catalog.Categories, c)
	}

	return rows.Err()
}

func (s *SQLiteStorage) loadBookmarks(catalog *model.Catalog) error {
	rows, err := s.db.Query(`
		SELECT id, category_id, name, description, lat, lon, color, icon, created_at
		FROM bookmarks
		ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b model.Bookmark
		var color string
		var createdAtStr string

		if err := rows.Scan(
			&b.ID, &b.CategoryID, &b.Name, &b.Description,
			&b.Lat, &b.Lon, &color, &b.Icon, &createdAtStr,
		); err != nil {
			return err
		}

		b.Color = model.Color(color)
		b.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)

		catalog.Bookmarks = append(catalog.Bookmarks, b)
	}

	return rows.Err()
}

func (s *SQLiteStorage) loadTracks(catalog *model.Catalog) error {
	rows, err := s.db.Query(`
		SELECT id, category_id, name, description, color, points, created_at
		FROM tracks
		ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Track
		var color string
		var pointsJSON string
		var createdAtStr string

		if err := rows.Scan(
			&t.ID, &t.CategoryID, &t.Name, &t.Description,
			&color, &pointsJSON, &createdAtStr,
		); err != nil {
			return err
		}

		t.Color = model.Color(color)
		if err := json.Unmarshal([]byte(pointsJSON), &t.Points); err != nil {
			t.Points = []model.LatLon{}
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)

		catalog.Tracks = append(catalog.Tracks, t)
	}

	return rows.Err()
}

func (s *SQLiteStorage) loadSortPrefs(catalog *model.Catalog) error {
	rows, err := s.db.Query("SELECT category_id, sorting_type FROM sort_prefs")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var categoryID int64
		var sortingType int
		if err := rows.Scan(&categoryID, &sortingType); err != nil {
			return err
		}
		catalog.SortPrefs[categoryID] = model.SortingType(sortingType)
	}

	return rows.Err()
}

// Save writes the catalog to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(catalog *model.Catalog) error {
	// Categories may reference parents that haven't been inserted yet.
	// PRAGMA foreign_keys cannot be changed inside a transaction.
	if _, err := s.db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		return err
	}
	defer s.db.Exec("PRAGMA foreign_keys = ON")

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"sort_prefs", "bookmarks", "tracks", "categories", "counters"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	categoryStmt, err := tx.Prepare(`
		INSERT INTO categories (id, name, description, visible, parent_id, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer categoryStmt.Close()

	for i, c := range catalog.Categories {
		if _, err := categoryStmt.Exec(c.ID, c.Name, c.Description, boolToInt(c.Visible), c.ParentID, i); err != nil {
			return fmt.Errorf("insert category %d: %w", c.ID, err)
		}
	}

	bookmarkStmt, err := tx.Prepare(`
		INSERT INTO bookmarks (id, category_id, name, description, lat, lon, color, icon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer bookmarkStmt.Close()

	for _, b := range catalog.Bookmarks {
		if _, err := bookmarkStmt.Exec(
			b.ID, b.CategoryID, b.Name, b.Description, b.Lat, b.Lon,
			string(b.Color), b.Icon, b.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("insert bookmark %d: %w", b.ID, err)
		}
	}

	trackStmt, err := tx.Prepare(`
		INSERT INTO tracks (id, category_id, name, description, color, points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer trackStmt.Close()

	for _, t := range catalog.Tracks {
		points := t.Points
		if points == nil {
			points = []model.LatLon{}
		}
		pointsJSON, err := json.Marshal(points)
		if err != nil {
			return err
		}
		if _, err := trackStmt.Exec(
			t.ID, t.CategoryID, t.Name, t.Description, string(t.Color),
			string(pointsJSON), t.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("insert track %d: %w", t.ID, err)
		}
	}

	for categoryID, sortingType := range catalog.SortPrefs {
		if _, err := tx.Exec(
			"INSERT INTO sort_prefs (category_id, sorting_type) VALUES (?, ?)",
			categoryID, int(sortingType),
		); err != nil {
			return err
		}
	}

	if _, err := tx.Exec("INSERT INTO counters (name, value) VALUES ('next_id', ?)", catalog.NextID); err != nil {
		return err
	}

	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
