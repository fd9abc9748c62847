package domain

import "time"

type Role string

const (
	RoleCustomer  Role = "CUSTOMER"
	RoleOrganizer Role = "ORGANIZER"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleOrganizer
}

// User is an account known to the platform. PasswordHash is opaque to
// everything outside the auth package and never leaves the server.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
