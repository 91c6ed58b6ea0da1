// Package testdb opens a migrated SQLite database for tests.
package testdb

import (
	"path/filepath"
	"testing"

	"github.com/paradoks/clubhub/database"
	"gorm.io/gorm"
)

func New(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := database.NewSQLiteClient(filepath.Join(tb.TempDir(), "test.db"), false)
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close(db) })

	return db
}
