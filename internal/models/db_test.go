package models

import (
	"path/filepath"
	"testing"
)

func TestInitDBSQLiteLifecycle(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "foody.db")
	db, err := InitDB(DBOptions{Driver: "sqlite", DSN: dsn, Pool: DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}})
	if err != nil {
		t.Fatalf("init db failed: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	for _, model := range AllModels() {
		if !db.Migrator().HasTable(model) {
			t.Fatalf("table for %T not created", model)
		}
	}
	if err := CloseDB(db); err != nil {
		t.Fatalf("close db failed: %v", err)
	}
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	if _, err := InitDB(DBOptions{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestCloseDBNil(t *testing.T) {
	if err := CloseDB(nil); err != nil {
		t.Fatalf("close nil db should be no-op, got %v", err)
	}
}
