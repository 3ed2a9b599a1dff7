// Package dbtest opens throwaway sqlite databases carrying the full model schema.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/buybuddy-backend/pkg/db"
	"github.com/angelmondragon/buybuddy-backend/pkg/db/models"
)

// Open returns an isolated in-memory database migrated with models.All. The
// pool is pinned to one connection so every query sees the same memory db.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	// Partial indexes are not expressible as struct tags; mirror the migration.
	if err := conn.Exec("CREATE UNIQUE INDEX addresses_user_default_key ON addresses (user_id) WHERE is_default").Error; err != nil {
		t.Fatalf("default address index: %v", err)
	}
	return conn
}

// Client wraps Open in the production db.Client so transactional services can
// be exercised end to end.
func Client(t testing.TB) (*db.Client, *gorm.DB) {
	t.Helper()
	conn := Open(t)
	return db.FromConn(conn), conn
}
