// Package migrator applies and rolls back the embedded users schema
// migrations through golang-migrate.
package migrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"userdir/internal/lib"
	"userdir/internal/lib/config"
	"userdir/internal/lib/sl"
	"userdir/internal/storage"
	"userdir/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const MigrationsTable = "schema_migrations"

type Migrator struct {
	log *slog.Logger
	m   *migrate.Migrate
}

// New opens a dedicated connection for the migration run.
// golang-migrate closes the database it is handed, so it is never shared.
func New(ctx context.Context, log *slog.Logger, cfg config.Database) (*Migrator, error) {
	const op = "migrator.New"

	src, err := sourceFor(cfg.Driver)
	if err != nil {
		return nil, lib.Err(op, err)
	}

	db, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, lib.Err(op, err)
	}

	var drv database.Driver
	switch cfg.Driver {
	case storage.DriverPostgres:
		drv, err = postgres.WithInstance(db.DB, &postgres.Config{MigrationsTable: MigrationsTable})
	case storage.DriverSQLite:
		drv, err = sqlite.WithInstance(db.DB, &sqlite.Config{MigrationsTable: MigrationsTable})
	}
	if err != nil {
		_ = db.Close()
		return nil, lib.Err(op, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.Driver, drv)
	if err != nil {
		_ = drv.Close()
		return nil, lib.Err(op, err)
	}

	log = log.With(slog.String("component", "migrator"), slog.String("driver", cfg.Driver))
	m.Log = &logger{log: log}

	return &Migrator{log: log, m: m}, nil
}

func sourceFor(driver string) (source.Driver, error) {
	fsys, err := migrations.FS(driver)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, driver)
	}

	return iofs.New(fsys, ".")
}

// Up applies every pending migration.
func (m *Migrator) Up() error {
	const op = "migrator.Up"
	return m.run(op, m.m.Up)
}

// Down rolls back the most recent migration only.
func (m *Migrator) Down() error {
	const op = "migrator.Down"

	version, _, err := m.Version()
	if err != nil {
		return lib.Err(op, err)
	}
	if version == 0 {
		m.log.Info("nothing to roll back")
		return nil
	}

	return m.run(op, func() error { return m.m.Steps(-1) })
}

// Reset rolls back every applied migration.
func (m *Migrator) Reset() error {
	const op = "migrator.Reset"
	return m.run(op, m.m.Down)
}

// Steps moves n migrations forward, or backward when n is negative.
func (m *Migrator) Steps(n int) error {
	const op = "migrator.Steps"
	if n == 0 {
		return nil
	}
	return m.run(op, func() error { return m.m.Steps(n) })
}

// Goto migrates up or down to the given version.
func (m *Migrator) Goto(version uint) error {
	const op = "migrator.Goto"
	return m.run(op, func() error { return m.m.Migrate(version) })
}

// Force records version without running any migration and clears the dirty flag.
func (m *Migrator) Force(version int) error {
	const op = "migrator.Force"

	if err := m.m.Force(version); err != nil {
		return lib.Err(op, err)
	}
	m.log.Warn("version forced", slog.Int("version", version))
	return nil
}

// Version reports the applied version. An empty database reports 0.
func (m *Migrator) Version() (uint, bool, error) {
	const op = "migrator.Version"

	version, dirty, err := m.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, lib.Err(op, err)
	}
	return version, dirty, nil
}

func (m *Migrator) Close() error {
	const op = "migrator.Close"

	srcErr, dbErr := m.m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		return lib.Err(op, err)
	}
	return nil
}

func (m *Migrator) run(op string, fn func() error) error {
	log := m.log.With(slog.String("op", op))

	before, _, err := m.Version()
	if err != nil {
		return lib.Err(op, err)
	}

	if err := fn(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no change", slog.Uint64("version", uint64(before)))
			return nil
		}
		log.Error("migration failed", sl.Err(err))
		return lib.Err(op, err)
	}

	after, dirty, err := m.Version()
	if err != nil {
		return lib.Err(op, err)
	}

	log.Info("migrated",
		slog.Uint64("from", uint64(before)),
		slog.Uint64("to", uint64(after)),
		slog.Bool("dirty", dirty),
	)
	return nil
}

type logger struct {
	log *slog.Logger
}

func (l *logger) Printf(format string, v ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *logger) Verbose() bool {
	return l.log.Enabled(context.Background(), slog.LevelDebug)
}
