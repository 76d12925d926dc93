// Package testutil 测试公用：每个测试一个独立的内存 sqlite
package testutil

import (
	"strings"
	"testing"

	"gorm.io/gorm"

	"cafeteria-reservations/internal/core/database"
)

var nameCleaner = strings.NewReplacer("/", "_", " ", "_", "#", "_", "=", "_", "?", "_", "&", "_")

// OpenDB 返回以 t.Name() 命名的共享缓存内存库，测试结束自动关闭
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + nameCleaner.Replace(t.Name()) + "?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
