// Command patchbayctl administers a patchbay inventory store without
// going through the web server: initialize the schema, inspect the
// migration ledger, reset the database, or print a text inventory
// report.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/jslaski/patchbay/internal/domain"
	"github.com/jslaski/patchbay/internal/repository/sqlite"
	"github.com/jslaski/patchbay/internal/service"
)

// storeEnv mirrors the store-related subset of the server configuration.
// The CLI never serves requests, so it skips the rest (JWT secret,
// listen address).
type storeEnv struct {
	DatabasePath  string        `env:"DATABASE_PATH" envDefault:"patchbay.db"`
	MigrationsDir string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	BusyTimeout   time.Duration `env:"DB_BUSY_TIMEOUT" envDefault:"5s"`
}

var (
	dbPath        string
	migrationsDir string
	resetYes      bool

	rootCmd = &cobra.Command{
		Use:           "patchbayctl",
		Short:         "Administer a patchbay inventory store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Manage the store schema and data",
	}

	dbInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize the store: ledger, schema, migrations, seeds",
		RunE:  runDBInit,
	}

	dbStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the migration ledger and skipped artifacts",
		RunE:  runDBStatus,
	}

	dbResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Drop all tables and reinitialize (destructive)",
		RunE:  runDBReset,
	}

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Print the inventory grouped by service group",
		RunE:  runReport,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"store path (default $DATABASE_PATH or patchbay.db)")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations", "",
		"migration artifact directory (default $MIGRATIONS_DIR or migrations)")
	dbResetCmd.Flags().BoolVar(&resetYes, "yes", false,
		"skip the interactive confirmation")

	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbResetCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	// Interrupts cancel the command context, so an in-flight pipeline
	// stops between migrations and the deferred store closes still run.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// storeOptions resolves the store location from the environment, with
// command-line flags taking precedence.
func storeOptions() (sqlite.Options, error) {
	var se storeEnv
	if err := env.Parse(&se); err != nil {
		return sqlite.Options{}, fmt.Errorf("parse env: %w", err)
	}
	opts := sqlite.Options{
		Path:          se.DatabasePath,
		MigrationsDir: se.MigrationsDir,
		BusyTimeout:   se.BusyTimeout,
	}
	if dbPath != "" {
		opts.Path = dbPath
	}
	if migrationsDir != "" {
		opts.MigrationsDir = migrationsDir
	}
	return opts, nil
}

func runDBInit(cmd *cobra.Command, args []string) error {
	opts, err := storeOptions()
	if err != nil {
		return err
	}
	store := sqlite.New(opts)
	defer store.Close()

	ctx := cmd.Context()
	if err := store.EnsureInitialized(ctx); err != nil {
		return err
	}
	applied, err := store.AppliedMigrations(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "store ready at %s (%d migrations applied)\n", opts.Path, len(applied))
	for _, name := range store.SkippedMigrations() {
		fmt.Fprintf(out, "warning: skipped unparsable artifact %s\n", name)
	}
	return nil
}

func runDBStatus(cmd *cobra.Command, args []string) error {
	opts, err := storeOptions()
	if err != nil {
		return err
	}
	store := sqlite.New(opts)
	defer store.Close()

	ctx := cmd.Context()
	if err := store.EnsureInitialized(ctx); err != nil {
		return err
	}
	applied, err := store.AppliedMigrations(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "store: %s\n", opts.Path)
	fmt.Fprintf(out, "open: %v\n", store.IsOpen())

	if len(applied) == 0 {
		fmt.Fprintln(out, "no migrations applied")
	} else {
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
		for _, m := range applied {
			fmt.Fprintf(w, "%d\t%s\t%s\n", m.Version, m.Name, m.AppliedAt.Format(time.RFC3339))
		}
		w.Flush()
	}

	for _, name := range store.SkippedMigrations() {
		fmt.Fprintf(out, "skipped artifact: %s\n", name)
	}
	return nil
}

func runDBReset(cmd *cobra.Command, args []string) error {
	opts, err := storeOptions()
	if err != nil {
		return err
	}

	if !resetYes {
		fmt.Fprintf(cmd.OutOrStdout(),
			"This permanently deletes every row in %s. Type 'reset' to continue: ", opts.Path)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("reset aborted")
		}
		if strings.TrimSpace(line) != "reset" {
			return errors.New("reset aborted")
		}
	}

	store := sqlite.New(opts)
	defer store.Close()

	ctx := cmd.Context()
	if err := store.EnsureInitialized(ctx); err != nil {
		return err
	}
	if err := store.ResetAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "store reset; seed data restored")
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	opts, err := storeOptions()
	if err != nil {
		return err
	}
	store := sqlite.New(opts)
	defer store.Close()

	ctx := cmd.Context()
	if err := store.EnsureInitialized(ctx); err != nil {
		return err
	}
	groups, err := store.Groups().List(ctx)
	if err != nil {
		return err
	}
	services, err := store.Services().List(ctx)
	if err != nil {
		return err
	}

	counts := make(map[domain.ServiceStatus]int)
	for _, svc := range services {
		counts[svc.Status]++
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, service.RenderInventoryText(groups, services))
	fmt.Fprintf(out, "\nstatus: %s\n", service.RenderStatusCounts(counts))
	return nil
}
