package domain

import (
	"context"
	"time"
)

// Store defines lifecycle operations for the underlying data store.
// Initialization is the only safe entry point: callers (and every
// repository implementation) go through EnsureInitialized before
// touching the store's contents.
type Store interface {
	// EnsureInitialized opens the store and runs the full preparation
	// pipeline (ledger, base schema, pending migrations, seeds) at most
	// once; concurrent callers share a single in-flight run.
	EnsureInitialized(ctx context.Context) error

	// AppliedMigrations reports the migration ledger, ascending by version.
	AppliedMigrations(ctx context.Context) ([]Migration, error)

	// SkippedMigrations reports artifact filenames ignored during the last
	// discovery because their version prefix did not parse.
	SkippedMigrations() []string

	// ResetAll drops the known schema objects and replays the preparation
	// pipeline. Not safe to call concurrently with other store use.
	ResetAll(ctx context.Context) error

	IsOpen() bool
	Close() error
}

// Migration is one applied-migration ledger entry.
type Migration struct {
	Version   int64
	Name      string
	AppliedAt time.Time
}
