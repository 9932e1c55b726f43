package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSeedsApplyOnceAcrossReplays(t *testing.T) {
	dir := t.TempDir()
	opts := Options{Path: filepath.Join(dir, "inventory.db")}
	ctx := context.Background()

	s1 := New(opts)
	if err := s1.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	db, err := s1.Conn()
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}

	// Operators may prune seeded rows; a later replay must not restore
	// them because the table is no longer empty.
	if _, err := db.ExecContext(ctx, "DELETE FROM network_services WHERE name = 'ntp'"); err != nil {
		t.Fatalf("delete seeded service: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2 := New(opts)
	t.Cleanup(func() { s2.Close() })
	if err := s2.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized replay: %v", err)
	}
	db2, err := s2.Conn()
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}

	var n int
	if err := db2.QueryRowContext(ctx, "SELECT COUNT(*) FROM network_services").Scan(&n); err != nil {
		t.Fatalf("count services: %v", err)
	}
	if want := len(seedServices) - 1; n != want {
		t.Fatalf("expected %d services after replay, got %d", want, n)
	}
}

func TestGroupSeedSkippedWhenTableNotEmpty(t *testing.T) {
	s := New(Options{Path: filepath.Join(t.TempDir(), "inventory.db")})
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	db, err := s.Conn()
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	if err := s.ensureLedger(ctx, db); err != nil {
		t.Fatalf("ensureLedger: %v", err)
	}
	if err := s.applyBaseSchema(ctx, db); err != nil {
		t.Fatalf("applyBaseSchema: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO groups (name, description) VALUES ('lab', 'bench equipment')"); err != nil {
		t.Fatalf("insert group: %v", err)
	}

	if err := s.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	var groups int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM groups").Scan(&groups); err != nil {
		t.Fatalf("count groups: %v", err)
	}
	if groups != 1 {
		t.Fatalf("expected the pre-existing group only, got %d", groups)
	}

	// The example services attach to seed groups by name; with only 'lab'
	// present every insert matches nothing.
	var services int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM network_services").Scan(&services); err != nil {
		t.Fatalf("count services: %v", err)
	}
	if services != 0 {
		t.Fatalf("expected no seeded services, got %d", services)
	}
}

func TestServiceSeedWithoutGroups(t *testing.T) {
	s := New(Options{Path: filepath.Join(t.TempDir(), "inventory.db")})
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	db, err := s.Conn()
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	if err := s.ensureLedger(ctx, db); err != nil {
		t.Fatalf("ensureLedger: %v", err)
	}
	if err := s.applyBaseSchema(ctx, db); err != nil {
		t.Fatalf("applyBaseSchema: %v", err)
	}

	if err := s.seedIfEmpty(ctx, db, "network_services", insertSeedServices); err != nil {
		t.Fatalf("seedIfEmpty: %v", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM network_services").Scan(&n); err != nil {
		t.Fatalf("count services: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no services without groups, got %d", n)
	}
}
