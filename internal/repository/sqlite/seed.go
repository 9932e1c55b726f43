package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jslaski/patchbay/internal/domain"
)

// Baseline reference groups, inserted when the groups table is empty.
var seedGroups = []domain.Group{
	{Name: "core-network", Description: "Routing, switching and name resolution"},
	{Name: "compute", Description: "Hypervisors and container hosts"},
	{Name: "storage", Description: "Block, object and backup storage"},
	{Name: "observability", Description: "Metrics, logs and alerting"},
	{Name: "edge", Description: "Public entry points and load balancers"},
}

type seedService struct {
	group    string
	name     string
	host     string
	port     int
	protocol domain.Protocol
	owner    string
}

// Example services, inserted when the services table is empty and at
// least one group exists to attach them to.
var seedServices = []seedService{
	{"edge", "public-gateway", "10.0.0.1", 443, domain.ProtocolTCP, "netops"},
	{"core-network", "dns-primary", "10.0.0.2", 53, domain.ProtocolUDP, "netops"},
	{"core-network", "dns-secondary", "10.0.0.3", 53, domain.ProtocolUDP, "netops"},
	{"core-network", "ntp", "10.0.0.4", 123, domain.ProtocolUDP, "netops"},
	{"observability", "prometheus", "10.0.1.9", 9090, domain.ProtocolTCP, "sre"},
	{"observability", "grafana", "10.0.1.10", 3000, domain.ProtocolTCP, "sre"},
	{"storage", "object-store", "10.0.2.5", 9000, domain.ProtocolTCP, "storage"},
	{"compute", "nomad-server", "10.0.3.2", 4646, domain.ProtocolTCP, "platform"},
}

// runSeeds populates reference data on a fresh store. It runs on every
// pipeline execution; once the tables are non-empty each run costs one
// count query per table.
func (s *Store) runSeeds(ctx context.Context, db *sql.DB) error {
	if err := s.seedIfEmpty(ctx, db, "groups", insertSeedGroups); err != nil {
		return err
	}

	// The example services need a group to attach to; without one the
	// seed is skipped, not failed.
	var groupCount int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM groups").Scan(&groupCount); err != nil {
		return &SeedError{Table: "network_services", Err: err}
	}
	if groupCount == 0 {
		slog.Warn("service seed skipped, no groups to attach to")
		return nil
	}
	return s.seedIfEmpty(ctx, db, "network_services", insertSeedServices)
}

// seedIfEmpty inserts a fixed row set inside one transaction when the
// table has no rows. Inserts use OR IGNORE so a replay after a partial
// earlier failure cannot duplicate rows.
func (s *Store) seedIfEmpty(ctx context.Context, db *sql.DB, table string, insert func(context.Context, *sql.Tx) error) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return &SeedError{Table: table, Err: fmt.Errorf("count rows: %w", err)}
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &SeedError{Table: table, Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer tx.Rollback()

	if err := insert(ctx, tx); err != nil {
		return &SeedError{Table: table, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &SeedError{Table: table, Err: fmt.Errorf("commit: %w", err)}
	}
	slog.Info("seeded reference rows", "table", table)
	return nil
}

func insertSeedGroups(ctx context.Context, tx *sql.Tx) error {
	for _, g := range seedGroups {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO groups (name, description) VALUES (?, ?)",
			g.Name, g.Description,
		); err != nil {
			return fmt.Errorf("insert group %s: %w", g.Name, err)
		}
	}
	return nil
}

func insertSeedServices(ctx context.Context, tx *sql.Tx) error {
	for _, svc := range seedServices {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO network_services (group_id, name, host, port, protocol, owner)
			SELECT g.id, ?, ?, ?, ?, ? FROM groups g WHERE g.name = ?`,
			svc.name, svc.host, svc.port, string(svc.protocol), svc.owner, svc.group,
		); err != nil {
			return fmt.Errorf("insert service %s: %w", svc.name, err)
		}
	}
	return nil
}
