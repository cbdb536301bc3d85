package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/peoplecore/hr-portal/internal/auth"
	"github.com/peoplecore/hr-portal/internal/domain"
	"github.com/peoplecore/hr-portal/internal/events"
	"github.com/peoplecore/hr-portal/internal/repository"
	apperrors "github.com/peoplecore/hr-portal/pkg/util"
)

// DirectoryService exposes the employee records the portal's HR modules
// read. It carries no authorization logic itself; the route layer gates
// access per endpoint.
type DirectoryService struct {
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewDirectoryService builds the service.
func NewDirectoryService(employees repository.EmployeeRepository, dispatcher events.Dispatcher, bcryptCost int) *DirectoryService {
	return &DirectoryService{employees: employees, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// NewEmployeeInput carries onboarding fields. The initial password is hashed
// here; the plaintext never reaches the repository.
type NewEmployeeInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Department string
	MFAEnabled bool
}

// CreateEmployee provisions an account with a hashed initial password.
func (s *DirectoryService) CreateEmployee(ctx context.Context, input NewEmployeeInput) (*domain.Employee, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(input.Role)})
	}

	if _, err := s.employees.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	employee := &domain.Employee{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Department:   input.Department,
		MFAEnabled:   input.MFAEnabled,
		Active:       true,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventEmployeeCreated,
			EmployeeID: employee.ID,
			Timestamp:  time.Now(),
			Payload:    events.EmployeeCreatedPayload{Email: employee.Email, Role: employee.Role},
		})
	}
	return employee, nil
}

// GetProfile returns a single employee record.
func (s *DirectoryService) GetProfile(ctx context.Context, id string) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return employee, nil
}

// ListEmployees returns every directory entry.
func (s *DirectoryService) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return employees, nil
}
