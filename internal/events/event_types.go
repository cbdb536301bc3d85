package events

import (
	"time"

	"github.com/peoplecore/hr-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMFACodeIssued          EventType = "mfa_code_issued"
	EventPasswordChanged        EventType = "password_changed"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventEmployeeCreated        EventType = "employee_created"
)

// Event represents a domain event emitted by services. Auth events carry the
// employee they concern; payload contents never include password material.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID string      `json:"employee_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// MFACodeIssuedPayload payload. Carries the code for delivery to the
// employee's registered channel.
type MFACodeIssuedPayload struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordChangedPayload payload.
type PasswordChangedPayload struct {
	Email string `json:"email"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EmployeeCreatedPayload payload.
type EmployeeCreatedPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}
