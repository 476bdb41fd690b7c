package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SanjanaPaudel/Sajha-Sathi/internal/models"
)

// DatabaseStore implements Store on top of a SQLite database.
type DatabaseStore struct {
	db *gorm.DB
}

// Open initialises a SQLite-backed store at the supplied path. An empty path
// or ":memory:" yields a shared in-memory database.
func Open(path string) (*DatabaseStore, error) {
	dsn := dsnForPath(path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("state: open sqlite: %w", err)
	}

	if err := enableForeignKeys(db); err != nil {
		return nil, fmt.Errorf("state: enable foreign keys: %w", err)
	}

	if err := db.AutoMigrate(&models.StateEntry{}); err != nil {
		return nil, fmt.Errorf("state: migrate: %w", err)
	}

	return &DatabaseStore{db: db}, nil
}

// NewDatabaseStore wraps an existing gorm handle, migrating the state table.
func NewDatabaseStore(db *gorm.DB) (*DatabaseStore, error) {
	if db == nil {
		return nil, errors.New("state: db is required")
	}
	if err := db.AutoMigrate(&models.StateEntry{}); err != nil {
		return nil, fmt.Errorf("state: migrate: %w", err)
	}
	return &DatabaseStore{db: db}, nil
}

// Get returns the stored value for key, reporting presence explicitly.
func (s *DatabaseStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx = ensureContext(ctx)

	var entry models.StateEntry
	err := s.db.WithContext(ctx).Take(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("state: get %q: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set upserts the value stored under key.
func (s *DatabaseStore) Set(ctx context.Context, key string, value []byte) error {
	ctx = ensureContext(ctx)

	entry := models.StateEntry{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("state: set %q: %w", key, err)
	}
	return nil
}

// Delete removes the supplied keys. Missing keys are ignored.
func (s *DatabaseStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)

	if err := s.db.WithContext(ctx).
		Where("key IN ?", keys).
		Delete(&models.StateEntry{}).Error; err != nil {
		return fmt.Errorf("state: delete: %w", err)
	}
	return nil
}

func dsnForPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || strings.EqualFold(path, ":memory:") {
		return "file::memory:?cache=shared&_foreign_keys=1"
	}
	if err := ensureDir(path); err == nil {
		return fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL", filepath.ToSlash(path))
	}
	return fmt.Sprintf("file:%s?_foreign_keys=1", filepath.ToSlash(path))
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func enableForeignKeys(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil && err != sql.ErrConnDone {
		return err
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
