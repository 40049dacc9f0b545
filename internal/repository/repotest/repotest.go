// Package repotest opens throwaway databases for repository and service tests.
package repotest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"onway_routes/internal/config"
	"onway_routes/internal/models"
)

var seq atomic.Int64

// DB returns a fresh in-memory SQLite database with foreign keys enforced and
// the production schema applied.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := fmt.Sprintf("file:repotest_%d?mode=memory&cache=shared", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(config.SQLiteDSN(name)), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql handle: %v", err)
	}
	// One connection keeps every statement on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser inserts a user with the given role.
func SeedUser(tb testing.TB, db *gorm.DB, role string) models.User {
	tb.Helper()
	n := seq.Add(1)
	user := models.User{
		Name:  fmt.Sprintf("user %d", n),
		Email: fmt.Sprintf("user%d@example.com", n),
		Role:  role,
	}
	if err := db.Create(&user).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return user
}

// Count returns the number of rows in model's table.
func Count(tb testing.TB, db *gorm.DB, model any) int64 {
	tb.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}
