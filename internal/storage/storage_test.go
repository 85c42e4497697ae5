package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"userdir/internal/lib/config"
	"userdir/internal/storage"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := storage.Open(context.Background(), config.Database{
		Driver: storage.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "users.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, sqlx.QUESTION, sqlx.BindType(db.DriverName()))
	assert.Equal(t, "SELECT ? , ?", db.Rebind("SELECT ? , ?"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := storage.Open(context.Background(), config.Database{Driver: "oracle", DSN: "x"})
	assert.ErrorIs(t, err, storage.ErrUnsupportedDriver)
}
