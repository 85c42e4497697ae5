package models

import (
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBanned   = "banned"
)

// User mirrors a row of the users table.
// Password holds a bcrypt hash, never the plaintext.
type User struct {
	ID         int64      `db:"id"`
	FirstName  string     `db:"first_name"`
	LastName   string     `db:"last_name"`
	Username   string     `db:"username"`
	Password   string     `db:"password"`
	Age        int        `db:"age"`
	Gender     string     `db:"gender"`
	Programmer bool       `db:"programmer"`
	Status     string     `db:"status"`
	CreatedAt  *time.Time `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
}

type UserFilter struct {
	Status     string
	Programmer *bool
	Limit      int
	Offset     int
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusBanned:
		return true
	}
	return false
}
