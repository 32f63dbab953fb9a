package main

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pressly/goose/v3"
)

func repoMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file lives in cmd/migrate/, so repo root is ../..
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")
}

func TestCollectMigrations_VersionsAreSequential(t *testing.T) {
	migrations, err := goose.CollectMigrations(repoMigrationsDir(t), 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}
	if len(migrations) < 3 {
		t.Fatalf("expected users, books and revoked_tokens migrations, got %d", len(migrations))
	}
	for i, m := range migrations {
		if want := int64(i + 1); m.Version != want {
			t.Fatalf("migration %s has version %d, want %d", filepath.Base(m.Source), m.Version, want)
		}
	}
}
