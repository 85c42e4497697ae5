package api

import "time"

// UserSchema is the public view of a user. The password hash is never exposed.
type UserSchema struct {
	ID         int64      `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Username   string     `json:"username"`
	Age        int        `json:"age"`
	Gender     string     `json:"gender"`
	Programmer bool       `json:"programmer"`
	Status     string     `json:"status"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type UserInput struct {
	FirstName  string
	LastName   string
	Username   string
	Password   string
	Age        int
	Gender     string
	Programmer bool
	Status     string
}

// UserPatch carries optional profile changes; nil fields stay as they are.
type UserPatch struct {
	FirstName  *string
	LastName   *string
	Username   *string
	Password   *string
	Age        *int
	Gender     *string
	Programmer *bool
}

type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
