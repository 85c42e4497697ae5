package storage

import (
	"context"
	"errors"
	"fmt"

	"userdir/internal/lib"
	"userdir/internal/lib/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

func init() {
	// sqlx knows "sqlite3" but not the name modernc registers.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open connects to the database described by cfg and pings it.
func Open(ctx context.Context, cfg config.Database) (*sqlx.DB, error) {
	const op = "storage.Open"

	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, lib.Err(op, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver))
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, lib.Err(op, err)
	}

	if cfg.Driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}

	return db, nil
}
