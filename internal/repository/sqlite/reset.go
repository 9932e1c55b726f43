package sqlite

import (
	"context"
	"fmt"
	"log/slog"
)

// dropOrder lists the known schema objects children first, so foreign
// keys never dangle mid-reset. The ledger goes last.
var dropOrder = []string{
	"status_events",
	"network_services",
	"groups",
	"users",
	"schema_migrations",
}

// ResetAll drops the known schema objects and replays the preparation
// pipeline against the emptied store. Destructive; meant for test
// isolation and administrative recovery. Not safe to call concurrently
// with other store use.
func (s *Store) ResetAll(ctx context.Context) error {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	db, err := s.Conn()
	if err != nil {
		return &ResetError{Err: err}
	}

	for _, table := range dropOrder {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return &ResetError{Err: fmt.Errorf("drop %s: %w", table, err)}
		}
	}

	s.resetState()
	if err := s.EnsureInitialized(ctx); err != nil {
		return &ResetError{Err: err}
	}
	slog.Info("store reset", "path", s.opts.Path)
	return nil
}
