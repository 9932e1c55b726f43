package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jslaski/patchbay/internal/domain"
)

type initState int32

const (
	stateUninitialized initState = iota
	stateInitializing
	stateReady
	stateFailed
)

const defaultBusyTimeout = 5 * time.Second

// Options configure a Store. Path is required; a zero BusyTimeout falls
// back to defaultBusyTimeout.
type Options struct {
	// Path is the store file, or ":memory:" for an ephemeral store.
	Path string
	// MigrationsDir is the directory holding <version>_<description>.sql
	// artifacts. Created if absent; empty directory means zero pending.
	MigrationsDir string
	// BusyTimeout bounds lock waits and the post-open ping.
	BusyTimeout time.Duration
	// ReadOnly opens the store in query-only mode. The preparation
	// pipeline cannot run on a read-only store.
	ReadOnly bool
}

// Store owns the handle to one SQLite inventory store plus the state of
// its preparation pipeline. Instances are independent, so tests can run
// isolated stores side by side. The zero value is not usable; call New.
type Store struct {
	opts Options

	connMu sync.Mutex
	db     *sql.DB

	state   atomic.Int32
	run     atomic.Pointer[initRun]
	resetMu sync.Mutex

	diagMu  sync.Mutex
	skipped []string

	schemaApplies atomic.Int32 // base-schema executions, observed by tests
}

// initRun is the shared result of one in-flight pipeline execution.
// Waiters block on done and then read err.
type initRun struct {
	done chan struct{}
	err  error
}

// New creates a Store for the given options without touching the
// filesystem. The handle opens lazily on first use.
func New(opts Options) *Store {
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = defaultBusyTimeout
	}
	return &Store{opts: opts}
}

// Conn returns the store handle, opening and configuring it on first
// use. Repeated calls return the same handle.
func (s *Store) Conn() (*sql.DB, error) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.db != nil {
		return s.db, nil
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	s.db = db
	return db, nil
}

func (s *Store) open() (*sql.DB, error) {
	if dir := filepath.Dir(s.opts.Path); s.opts.Path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &OpenError{Path: s.opts.Path, Err: err}
		}
	}

	db, err := sql.Open("sqlite", s.opts.Path)
	if err != nil {
		return nil, &OpenError{Path: s.opts.Path, Err: err}
	}

	// One writer at a time; WAL still allows concurrent readers. Capping
	// the pool before the pragmas also keeps every session pragma on the
	// one connection later queries will use.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout=%d", s.opts.BusyTimeout.Milliseconds()),
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	if s.opts.ReadOnly {
		pragmas = append(pragmas, "PRAGMA query_only=ON")
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			db.Close()
			return nil, &OpenError{Path: s.opts.Path, Err: fmt.Errorf("%s: %w", pragma, err)}
		}
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), s.opts.BusyTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, &OpenError{Path: s.opts.Path, Err: fmt.Errorf("ping: %w", err)}
	}

	return db, nil
}

// Close releases the handle. A second Close is a no-op. Closing does not
// forget that the pipeline ran; a later access on a file-backed store
// reopens the handle without replaying it.
func (s *Store) Close() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// IsOpen reports whether the handle is currently open. It performs no I/O.
func (s *Store) IsOpen() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.db != nil
}

// EnsureInitialized runs the preparation pipeline (open, ledger, base
// schema, pending migrations, seeds) at most once per Store. Concurrent
// callers share the in-flight run; after a success, calls return
// immediately. A failed run is sticky: its error is returned until
// ResetAll replays the pipeline.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	for {
		switch initState(s.state.Load()) {
		case stateReady:
			return nil

		case stateFailed:
			run := s.run.Load()
			if run == nil {
				return errors.New("store initialization failed")
			}
			// A racing reset can swap in the next generation's run before
			// this load; done orders the err read either way.
			select {
			case <-run.done:
				return run.err
			case <-ctx.Done():
				return ctx.Err()
			}

		case stateInitializing:
			run := s.run.Load()
			if run == nil {
				// The winner has claimed the state but not yet published
				// its run; let it proceed.
				runtime.Gosched()
				continue
			}
			select {
			case <-run.done:
				return run.err
			case <-ctx.Done():
				// The pipeline keeps running; only this waiter gives up.
				return ctx.Err()
			}

		default: // stateUninitialized
			if !s.state.CompareAndSwap(int32(stateUninitialized), int32(stateInitializing)) {
				continue
			}
			run := &initRun{done: make(chan struct{})}
			s.run.Store(run)
			run.err = s.runPipeline(ctx)
			if run.err != nil {
				s.state.Store(int32(stateFailed))
			} else {
				s.state.Store(int32(stateReady))
			}
			close(run.done)
			return run.err
		}
	}
}

func (s *Store) runPipeline(ctx context.Context) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}
	if err := s.ensureLedger(ctx, db); err != nil {
		return err
	}
	if err := s.applyBaseSchema(ctx, db); err != nil {
		return err
	}
	if err := s.runMigrations(ctx, db); err != nil {
		return err
	}
	if err := s.runSeeds(ctx, db); err != nil {
		return err
	}
	slog.Info("store ready", "path", s.opts.Path)
	return nil
}

// resetState forgets the pipeline outcome without touching storage, so
// the next EnsureInitialized replays it. The run clears before the
// state: no winner can claim the guard until the second store lands, so
// a late clear cannot wipe the next generation's run. Tests use this to
// exercise the guard; ResetAll uses it after dropping the schema.
func (s *Store) resetState() {
	s.run.Store(nil)
	s.state.Store(int32(stateUninitialized))
}

// ensure is the repository entry point: every data access initializes
// first, then uses the shared handle.
func (s *Store) ensure(ctx context.Context) (*sql.DB, error) {
	if err := s.EnsureInitialized(ctx); err != nil {
		return nil, err
	}
	return s.Conn()
}

// SkippedMigrations reports artifact filenames ignored during the last
// discovery because their version prefix did not parse.
func (s *Store) SkippedMigrations() []string {
	s.diagMu.Lock()
	defer s.diagMu.Unlock()
	out := make([]string, len(s.skipped))
	copy(out, s.skipped)
	return out
}

func (s *Store) setSkipped(names []string) {
	s.diagMu.Lock()
	defer s.diagMu.Unlock()
	s.skipped = names
}

// Groups returns the group repository backed by this store.
func (s *Store) Groups() domain.GroupRepository { return &groupRepository{store: s} }

// Services returns the service repository backed by this store.
func (s *Store) Services() domain.ServiceRepository { return &serviceRepository{store: s} }

// Users returns the user repository backed by this store.
func (s *Store) Users() domain.UserRepository { return &userRepository{store: s} }

// StatusEvents returns the status-event repository backed by this store.
func (s *Store) StatusEvents() domain.StatusEventRepository { return &statusEventRepository{store: s} }
