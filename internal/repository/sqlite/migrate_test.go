package sqlite_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/jslaski/patchbay/internal/repository/sqlite"
)

func writeMigration(t *testing.T, dir, name, stmt string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create migrations dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(stmt), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestMigrationsApplyInNumericOrder(t *testing.T) {
	dir := t.TempDir()
	migDir := filepath.Join(dir, "migrations")

	// Version 10 depends on the table version 2 creates, so lexicographic
	// ordering (1, 10, 2) cannot apply this set.
	writeMigration(t, migDir, "1_add_rack_location.sql",
		"ALTER TABLE network_services ADD COLUMN rack_location TEXT NOT NULL DEFAULT '';")
	writeMigration(t, migDir, "2_create_maintenance_windows.sql", `
		CREATE TABLE maintenance_windows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			service_id INTEGER NOT NULL REFERENCES network_services(id),
			starts_at DATETIME NOT NULL,
			ends_at DATETIME NOT NULL
		);`)
	writeMigration(t, migDir, "10_index_maintenance_windows.sql",
		"CREATE INDEX idx_maintenance_windows_service ON maintenance_windows(service_id);")

	s := sqlite.New(sqlite.Options{Path: filepath.Join(dir, "inventory.db"), MigrationsDir: migDir})
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	if err := s.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	applied, err := s.AppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(applied) != 3 {
		t.Fatalf("expected 3 applied migrations, got %d", len(applied))
	}
	wantVersions := []int64{1, 2, 10}
	for i, m := range applied {
		if m.Version != wantVersions[i] {
			t.Fatalf("expected version %d at position %d, got %d", wantVersions[i], i, m.Version)
		}
		if m.AppliedAt.IsZero() {
			t.Fatalf("expected applied_at to be set for version %d", m.Version)
		}
	}
	if applied[2].Name != "10_index_maintenance_windows.sql" {
		t.Fatalf("expected version 10 last, got %q", applied[2].Name)
	}
}

func TestMigrationsSkipUnparsableNames(t *testing.T) {
	dir := t.TempDir()
	migDir := filepath.Join(dir, "migrations")

	writeMigration(t, migDir, "2_create_audit_log.sql",
		"CREATE TABLE audit_log (id INTEGER PRIMARY KEY AUTOINCREMENT, entry TEXT NOT NULL);")
	writeMigration(t, migDir, "notes.sql", "-- scratch pad, no version prefix")
	writeMigration(t, migDir, "alpha_audit.sql", "CREATE TABLE never_applied (id INTEGER);")
	writeMigration(t, migDir, "0_reserved.sql", "CREATE TABLE also_never_applied (id INTEGER);")
	// Non-SQL files are not candidates and produce no diagnostic.
	writeMigration(t, migDir, "README.md", "operator notes")

	s := sqlite.New(sqlite.Options{Path: filepath.Join(dir, "inventory.db"), MigrationsDir: migDir})
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	if err := s.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	applied, err := s.AppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(applied) != 1 || applied[0].Version != 2 {
		t.Fatalf("expected only version 2 applied, got %v", applied)
	}

	skipped := s.SkippedMigrations()
	if len(skipped) != 3 {
		t.Fatalf("expected 3 skipped artifacts, got %d: %v", len(skipped), skipped)
	}
	for _, name := range []string{"notes.sql", "alpha_audit.sql", "0_reserved.sql"} {
		if !slices.Contains(skipped, name) {
			t.Fatalf("expected %s in skipped diagnostics, got %v", name, skipped)
		}
	}

	// A skipped artifact must not have been executed.
	db, err := s.Conn()
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	var n int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'never_applied'",
	).Scan(&n)
	if err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if n != 0 {
		t.Fatal("skipped artifact was executed")
	}
}

func TestMigrationsDirectoryCreatedWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	migDir := filepath.Join(dir, "missing", "migrations")

	s := sqlite.New(sqlite.Options{Path: filepath.Join(dir, "inventory.db"), MigrationsDir: migDir})
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	if err := s.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	info, err := os.Stat(migDir)
	if err != nil {
		t.Fatalf("migrations directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("expected migrations path to be a directory")
	}

	applied, err := s.AppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("expected zero applied migrations, got %d", len(applied))
	}
}

func TestMigrationFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	migDir := filepath.Join(dir, "migrations")

	writeMigration(t, migDir, "1_create_audit_log.sql",
		"CREATE TABLE audit_log (id INTEGER PRIMARY KEY AUTOINCREMENT, entry TEXT NOT NULL);")
	// The second statement fails after the first already ran, so commit
	// must not happen and the table must not survive.
	writeMigration(t, migDir, "2_bad_backfill.sql",
		"CREATE TABLE capacity_plans (id INTEGER PRIMARY KEY AUTOINCREMENT);\n"+
			"INSERT INTO no_such_table (id) VALUES (1);")

	s := sqlite.New(sqlite.Options{Path: filepath.Join(dir, "inventory.db"), MigrationsDir: migDir})
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	err := s.EnsureInitialized(ctx)
	var migErr *sqlite.MigrationError
	if !errors.As(err, &migErr) {
		t.Fatalf("expected MigrationError, got %v", err)
	}
	if migErr.Version != 2 {
		t.Fatalf("expected failing version 2, got %d", migErr.Version)
	}
	if migErr.Filename != "2_bad_backfill.sql" {
		t.Fatalf("expected failing filename in error, got %q", migErr.Filename)
	}

	applied, err := s.AppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(applied) != 1 || applied[0].Version != 1 {
		t.Fatalf("expected only version 1 in ledger, got %v", applied)
	}

	db, err := s.Conn()
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	var n int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'capacity_plans'",
	).Scan(&n)
	if err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if n != 0 {
		t.Fatal("failed migration left partial schema behind")
	}
}

func TestMigrationsPickUpNewArtifacts(t *testing.T) {
	dir := t.TempDir()
	migDir := filepath.Join(dir, "migrations")
	opts := sqlite.Options{Path: filepath.Join(dir, "inventory.db"), MigrationsDir: migDir}
	ctx := context.Background()

	writeMigration(t, migDir, "1_add_rack_location.sql",
		"ALTER TABLE network_services ADD COLUMN rack_location TEXT NOT NULL DEFAULT '';")

	s1 := sqlite.New(opts)
	if err := s1.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized s1: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close s1: %v", err)
	}

	// A later deployment ships version 2. Re-running version 1 would fail
	// with a duplicate column, so success here proves it was skipped.
	writeMigration(t, migDir, "2_create_audit_log.sql",
		"CREATE TABLE audit_log (id INTEGER PRIMARY KEY AUTOINCREMENT, entry TEXT NOT NULL);")

	s2 := sqlite.New(opts)
	t.Cleanup(func() { s2.Close() })
	if err := s2.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized s2: %v", err)
	}

	applied, err := s2.AppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	if len(applied) != 2 {
		t.Fatalf("expected 2 applied migrations, got %d", len(applied))
	}
	if applied[0].Version != 1 || applied[1].Version != 2 {
		t.Fatalf("expected versions 1 and 2, got %v", applied)
	}
}

func TestMigrationsDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	migDir := filepath.Join(dir, "migrations")

	writeMigration(t, migDir, "3_add_notes.sql", "ALTER TABLE groups ADD COLUMN notes TEXT;")
	writeMigration(t, migDir, "3_add_labels.sql", "ALTER TABLE groups ADD COLUMN labels TEXT;")

	s := sqlite.New(sqlite.Options{Path: filepath.Join(dir, "inventory.db"), MigrationsDir: migDir})
	t.Cleanup(func() { s.Close() })

	err := s.EnsureInitialized(context.Background())
	var migErr *sqlite.MigrationError
	if !errors.As(err, &migErr) {
		t.Fatalf("expected MigrationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "duplicate version 3") {
		t.Fatalf("expected duplicate version in error, got %v", err)
	}
}
