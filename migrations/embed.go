// Package migrations embeds the SQL migrations of the users schema.
// Each dialect lives in its own directory and carries the same versions.
package migrations

import (
	"embed"
	"errors"
	"io/fs"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

var ErrUnknownDialect = errors.New("unknown migrations dialect")

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// FS returns the migrations of the given dialect rooted at ".".
func FS(dialect string) (fs.FS, error) {
	switch dialect {
	case DialectPostgres, DialectSQLite:
		return fs.Sub(files, dialect)
	default:
		return nil, ErrUnknownDialect
	}
}
