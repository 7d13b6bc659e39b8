package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/tmarch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
)

// sourceName labels errors raised by this adapter.
const sourceName = "sqlite"

// dbFile is the database file name inside the data directory.
const dbFile = "features.db"

// Store is a SQLite database holding recorded feature entities.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.tmarch/data/features.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tmarch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// HistoryStore returns a FeatureHistoryStore backed by this store.
func (s *Store) HistoryStore() driven.FeatureHistoryStore {
	return &historyStore{store: s}
}

// FeatureRepository returns a FeatureRepository that yields the latest
// recorded entity.
func (s *Store) FeatureRepository() driven.FeatureRepository {
	return &featureRepository{history: &historyStore{store: s}}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_features.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// schemaVersion returns the highest applied migration.
func (s *Store) schemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== History Store ====================

// historyStore implements driven.FeatureHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.FeatureHistoryStore = (*historyStore)(nil)

// Save records an entity. Saving an ID twice is a no-op.
func (h *historyStore) Save(ctx context.Context, entity *domain.FeatureEntity) error {
	if entity == nil || entity.ID == "" {
		return fmt.Errorf("%w: entity requires an ID", domain.ErrInvalidInput)
	}

	var desc sql.NullString
	if entity.Description != nil {
		desc = sql.NullString{String: *entity.Description, Valid: true}
	}

	_, err := h.store.db.ExecContext(ctx, `
		INSERT INTO features (id, name, description, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, entity.ID, entity.Name, desc, entity.CreatedAt.UnixNano())
	if err != nil {
		return domain.NewFeatureError(domain.ErrSourceUnavailable, sourceName, fmt.Errorf("inserting feature: %w", err))
	}
	return nil
}

// Latest returns the most recently created entity.
func (h *historyStore) Latest(ctx context.Context) (*domain.FeatureEntity, error) {
	row := h.store.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at
		FROM features
		ORDER BY created_at DESC, seq DESC
		LIMIT 1
	`)

	entity, err := scanFeature(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewFeatureError(domain.ErrNotFound, sourceName, errors.New("no features recorded"))
	}
	if err != nil {
		return nil, domain.NewFeatureError(domain.ErrSourceUnavailable, sourceName, err)
	}
	return entity, nil
}

// List returns entities newest first. A non-positive limit returns all.
func (h *historyStore) List(ctx context.Context, limit int) ([]domain.FeatureEntity, error) {
	query := `
		SELECT id, name, description, created_at
		FROM features
		ORDER BY created_at DESC, seq DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewFeatureError(domain.ErrSourceUnavailable, sourceName, fmt.Errorf("querying features: %w", err))
	}
	defer rows.Close()

	var features []domain.FeatureEntity
	for rows.Next() {
		entity, err := scanFeature(rows)
		if err != nil {
			return nil, domain.NewFeatureError(domain.ErrSourceUnavailable, sourceName, err)
		}
		features = append(features, *entity)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewFeatureError(domain.ErrSourceUnavailable, sourceName, fmt.Errorf("iterating features: %w", err))
	}
	return features, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFeature(row scanner) (*domain.FeatureEntity, error) {
	var entity domain.FeatureEntity
	var desc sql.NullString
	var createdAt int64
	if err := row.Scan(&entity.ID, &entity.Name, &desc, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning feature: %w", err)
	}
	if desc.Valid {
		entity.Description = domain.StringPtr(desc.String)
	}
	entity.CreatedAt = time.Unix(0, createdAt).UTC()
	return &entity, nil
}

// ==================== Feature Repository ====================

// featureRepository implements driven.FeatureRepository over the history.
type featureRepository struct {
	history *historyStore
}

var _ driven.FeatureRepository = (*featureRepository)(nil)

// GetFeature returns the latest recorded entity.
func (r *featureRepository) GetFeature(ctx context.Context) (*domain.FeatureEntity, error) {
	return r.history.Latest(ctx)
}
