package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesDirectoryAndFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "rollcall.db")

	db, err := Open(Config{Path: path, WALMode: true, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestHealthCheck_ClosedDB(t *testing.T) {
	db := openTestDB(t)
	db.Close()

	if err := db.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() should fail on closed database")
	}
}

func TestClose_Idempotent(t *testing.T) {
	db := &DB{}
	if err := db.Close(); err != nil {
		t.Errorf("Close() on zero-value DB error = %v", err)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		wantVersion string
		wantIsUp    bool
		wantOK      bool
	}{
		{"20260815_120000_initial_schema.up.sql", "20260815_120000", true, true},
		{"20260815_120000_initial_schema.down.sql", "20260815_120000", false, true},
		{"20260815_120000_initial_schema.sql", "", false, false},
		{"README.md", "", false, false},
		{"bad.up.sql", "", false, false},
	}

	for _, tt := range tests {
		version, isUp, ok := parseMigrationFilename(tt.name)
		if version != tt.wantVersion || isUp != tt.wantIsUp || ok != tt.wantOK {
			t.Errorf("parseMigrationFilename(%q) = (%q, %v, %v), want (%q, %v, %v)",
				tt.name, version, isUp, ok, tt.wantVersion, tt.wantIsUp, tt.wantOK)
		}
	}
}

func TestExtractMigrationName(t *testing.T) {
	if got := extractMigrationName("20260815_120000_initial_schema.up.sql"); got != "initial_schema" {
		t.Errorf("extractMigrationName() = %q, want %q", got, "initial_schema")
	}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
