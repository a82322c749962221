package model

import "time"

// Role determines which orders a user sees and which workflow
// actions are offered to them.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLogist Role = "logist"
	RoleWork   Role = "work"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLogist, RoleWork:
		return true
	}
	return false
}

// User represents a dashboard account. PasswordHash is populated only on
// the server side; the dashboard session carries id/username/role.
type User struct {
	ID           int64
	Username     string
	Role         Role
	Active       bool
	PasswordHash string
	CreatedAt    time.Time
}
