package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jslaski/patchbay/internal/domain"
)

// artifact is one discovered migration file. The version is parsed from
// the leading "<integer>_" filename prefix.
type artifact struct {
	version  int64
	filename string
}

// runMigrations applies every pending artifact from the migrations
// directory, one transaction per artifact, strictly ascending by numeric
// version. An absent directory is created and means zero pending.
func (s *Store) runMigrations(ctx context.Context, db *sql.DB) error {
	if s.opts.MigrationsDir == "" {
		return nil
	}

	artifacts, skipped, err := discoverArtifacts(s.opts.MigrationsDir)
	if err != nil {
		return &MigrationError{Err: err}
	}
	s.setSkipped(skipped)
	for _, name := range skipped {
		slog.Warn("migration artifact skipped, version prefix does not parse", "file", name)
	}
	if len(artifacts) == 0 {
		return nil
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return &MigrationError{Err: fmt.Errorf("read ledger: %w", err)}
	}

	for _, a := range artifacts {
		if applied[a.version] {
			slog.Debug("migration already applied", "file", a.filename)
			continue
		}
		if err := ctx.Err(); err != nil {
			return &MigrationError{Version: a.version, Filename: a.filename, Err: err}
		}
		if err := s.applyArtifact(ctx, db, a); err != nil {
			return err
		}
		slog.Info("migration applied", "file", a.filename, "version", a.version)
	}
	return nil
}

// discoverArtifacts lists the migration directory, creating it if
// absent. Only *.sql files are candidates; candidates whose version
// prefix does not parse are returned in skipped rather than dropped
// silently. Two artifacts with the same version are an error.
func discoverArtifacts(dir string) (artifacts []artifact, skipped []string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create migrations directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, ok := parseVersion(entry.Name())
		if !ok {
			skipped = append(skipped, entry.Name())
			continue
		}
		artifacts = append(artifacts, artifact{version: version, filename: entry.Name()})
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].version < artifacts[j].version })
	for i := 1; i < len(artifacts); i++ {
		if artifacts[i].version == artifacts[i-1].version {
			return nil, nil, fmt.Errorf("duplicate version %d: %s and %s",
				artifacts[i].version, artifacts[i-1].filename, artifacts[i].filename)
		}
	}
	return artifacts, skipped, nil
}

// parseVersion extracts the numeric version from a
// "<integer>_<description>.sql" filename.
func parseVersion(filename string) (int64, bool) {
	base := strings.TrimSuffix(filename, ".sql")
	prefix, _, found := strings.Cut(base, "_")
	if !found {
		return 0, false
	}
	version, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || version <= 0 {
		return 0, false
	}
	return version, true
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int64]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int64]bool)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// applyArtifact executes one migration's SQL and its ledger insert in a
// single transaction, so the ledger row exists exactly when the schema
// effects do. The transaction runs on a non-cancelable context: once it
// begins, it goes to commit or rollback.
func (s *Store) applyArtifact(ctx context.Context, db *sql.DB, a artifact) error {
	content, err := os.ReadFile(filepath.Join(s.opts.MigrationsDir, a.filename))
	if err != nil {
		return &MigrationError{Version: a.version, Filename: a.filename, Err: fmt.Errorf("read file: %w", err)}
	}

	txCtx := context.WithoutCancel(ctx)
	tx, err := db.BeginTx(txCtx, nil)
	if err != nil {
		return &MigrationError{Version: a.version, Filename: a.filename, Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(txCtx, string(content)); err != nil {
		return &MigrationError{Version: a.version, Filename: a.filename, Err: fmt.Errorf("execute sql: %w", err)}
	}
	if _, err := tx.ExecContext(txCtx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)", a.version, a.filename,
	); err != nil {
		return &MigrationError{Version: a.version, Filename: a.filename, Err: fmt.Errorf("record migration: %w", err)}
	}
	if err := tx.Commit(); err != nil {
		return &MigrationError{Version: a.version, Filename: a.filename, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// AppliedMigrations reports the ledger ascending by version. It reads
// through the open handle without running the preparation pipeline, so a
// read-only store can be inspected; a store without a ledger yet reports
// an empty list.
func (s *Store) AppliedMigrations(ctx context.Context) ([]domain.Migration, error) {
	db, err := s.Conn()
	if err != nil {
		return nil, err
	}

	exists, err := ledgerExists(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("inspect ledger: %w", err)
	}
	if !exists {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx,
		"SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC")
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	defer rows.Close()

	var migrations []domain.Migration
	for rows.Next() {
		var m domain.Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		migrations = append(migrations, m)
	}
	return migrations, rows.Err()
}
