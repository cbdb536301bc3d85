package domain

import "time"

// Role enumerates portal authorization levels. The set is closed and flat:
// no role inherits another's permissions, endpoints enumerate every role
// they accept.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleHR       Role = "HR"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// Employee is the credential record held by the store. Exactly one role per
// employee.
type Employee struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   string
	MFAEnabled   bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
