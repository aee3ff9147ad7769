package auth

import "time"

// Role is the access level assigned to a user. The model is a flat
// two-value enum compared by equality; there is no hierarchy.
type Role string

const (
	// RoleAdmin grants access to admin-restricted endpoints.
	RoleAdmin Role = "admin"
	// RoleUser is the default role for newly registered users.
	RoleUser Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a user account as stored in the database and used by the
// business logic. The password digest carries `json:"-"` so it can never
// leak into an API response.
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}
