package domain

import "time"

// RoleAdmin is the only role with elevated access. Anything else (including
// an empty role) is a regular account.
const RoleAdmin = "admin"

// User represents an authenticated user of the store.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
