package model

import "time"

type ID = uint

type User struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Username string  `json:"username" db:"username"`
	Email    string  `json:"email" db:"email"`
	FullName *string `json:"fullName,omitempty" db:"full_name"`

	HashedPassword string `json:"-" db:"hashed_password"`

	IsAdmin  bool `json:"isAdmin" db:"is_admin"`
	IsActive bool `json:"isActive" db:"is_active"`
}

// Assignment is a single on-call duty window. Windows may overlap:
// precedence between overlapping windows is decided at read time by the
// oncall package, not enforced by the store.
type Assignment struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Start time.Time `json:"start" db:"start_at"`
	End   time.Time `json:"end" db:"end_at"`
	Notes *string   `json:"notes,omitempty" db:"notes"`

	User      ID  `json:"userId" db:"user_id"`
	CreatedBy *ID `json:"createdBy,omitempty" db:"created_by"`
}

// AssignmentWithUser carries the owning user projection alongside the
// assignment, as returned by joined listing queries.
type AssignmentWithUser struct {
	Assignment
	Owner User `json:"user" db:"owner"`
}
