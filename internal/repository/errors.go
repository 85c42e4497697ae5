package repo

import (
	"errors"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	uniqueViolationCode = "23505"
)

var (
	ErrNotFound   = errors.New("resource not found")
	ErrUserExists = errors.New("user with this username already exists")

	ErrUnknownColumn = errors.New("unknown grouping column")
)

// isUniqueViolation recognises unique constraint errors of both supported drivers.
func isUniqueViolation(err error) bool {
	pgErr := &pq.Error{}
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return false
}
