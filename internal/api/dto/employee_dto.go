package dto

import (
	"time"

	"github.com/peoplecore/hr-portal/internal/domain"
)

// CreateEmployeeRequest payload for admin onboarding.
type CreateEmployeeRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
	MFAEnabled bool   `json:"mfa_enabled"`
}

// EmployeeResponse is the directory view of an employee. The password hash
// never leaves the server.
type EmployeeResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	MFAEnabled bool      `json:"mfa_enabled"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewEmployeeResponse maps the domain record to its API view.
func NewEmployeeResponse(employee *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         employee.ID,
		Name:       employee.Name,
		Email:      employee.Email,
		Role:       string(employee.Role),
		Department: employee.Department,
		MFAEnabled: employee.MFAEnabled,
		Active:     employee.Active,
		CreatedAt:  employee.CreatedAt,
	}
}
