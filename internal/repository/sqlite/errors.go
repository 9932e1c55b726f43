package sqlite

import "fmt"

// OpenError reports a failure to create the store directory or open and
// configure the store file.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("open store %s: %v", e.Path, e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// SchemaError reports a failure applying the ledger or base schema DDL.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string { return fmt.Sprintf("prepare schema: %v", e.Err) }
func (e *SchemaError) Unwrap() error { return e.Err }

// MigrationError reports a failure in the migration phase. Version and
// Filename identify the artifact when the failure belongs to one; both
// are zero for discovery failures.
type MigrationError struct {
	Version  int64
	Filename string
	Err      error
}

func (e *MigrationError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("migrations: %v", e.Err)
	}
	return fmt.Sprintf("apply migration %d (%s): %v", e.Version, e.Filename, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// SeedError reports a failure inserting baseline reference rows.
type SeedError struct {
	Table string
	Err   error
}

func (e *SeedError) Error() string { return fmt.Sprintf("seed %s: %v", e.Table, e.Err) }
func (e *SeedError) Unwrap() error { return e.Err }

// ResetError reports a failure while dropping schema objects or replaying
// the preparation pipeline afterwards.
type ResetError struct {
	Err error
}

func (e *ResetError) Error() string { return fmt.Sprintf("reset store: %v", e.Err) }
func (e *ResetError) Unwrap() error { return e.Err }
