// Package db persists lint-run history to a local sqlite database so
// `lslint runs` can show what was checked and with what outcome.
package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the run-history database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("db: creating %s: %w", dir, err)
		}
	}
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: opening %s: %w", path, err)
	}
	if err := gdb.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("db: migrating schema: %w", err)
	}
	return &Store{db: gdb}, nil
}

// RecordRun inserts one run. The diagnostics are stored rendered, as a
// JSON string array.
func (s *Store) RecordRun(path string, parsed, optimized bool, errors, warnings int, diagnostics []string) (*Run, error) {
	blob, err := json.Marshal(diagnostics)
	if err != nil {
		return nil, fmt.Errorf("db: encoding diagnostics: %w", err)
	}
	run := &Run{
		ID:          uuid.NewString(),
		Path:        path,
		Parsed:      parsed,
		Optimized:   optimized,
		Errors:      errors,
		Warnings:    warnings,
		Diagnostics: blob,
	}
	if err := s.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("db: recording run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	var runs []Run
	q := s.db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("db: listing runs: %w", err)
	}
	return runs, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
