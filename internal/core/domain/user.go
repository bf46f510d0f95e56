package domain

import "time"

// Role codes form a closed, admin-managed catalog. Grants are validated
// against it; free-form role strings are rejected.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
	RoleUser     = "USER"
)

// Role is a catalog entry mapping a code to a display name.
type Role struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

// DefaultRoles is the catalog seeded at startup.
var DefaultRoles = []Role{
	{Code: RoleAdmin, DisplayName: "Administrator"},
	{Code: RoleEmployee, DisplayName: "Employee"},
	{Code: RoleUser, DisplayName: "Standard User"},
}

// User models an authenticated identity. Email and username are each unique
// across all users; ID is immutable once allocated.
type User struct {
	ID           int64      `json:"user_id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Active       bool       `json:"is_active"`
	Roles        []string   `json:"roles"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// HasRole reports whether the user carries the given role code.
func (u *User) HasRole(code string) bool {
	for _, r := range u.Roles {
		if r == code {
			return true
		}
	}
	return false
}
