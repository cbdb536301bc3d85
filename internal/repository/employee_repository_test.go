package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplecore/hr-portal/internal/domain"
)

var employeeColumns = []string{
	"id", "name", "email", "password_hash", "role", "department",
	"mfa_enabled", "active", "created_at", "updated_at",
}

func employeeRow() *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(employeeColumns).AddRow(
		"emp-1", "Ada", "ada@corp.example", "$2a$12$hash", domain.RoleHR, "People",
		false, true, now, now,
	)
}

func TestEmployeeRepositoryGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM employees WHERE email=\$1`).
		WithArgs("ada@corp.example").
		WillReturnRows(employeeRow())

	repo := NewEmployeeRepository(mock)
	employee, err := repo.GetByEmail(context.Background(), "ada@corp.example")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", employee.ID)
	assert.Equal(t, domain.RoleHR, employee.Role)
	assert.True(t, employee.Active)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM employees WHERE id=\$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewEmployeeRepository(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs("Ada", "ada@corp.example", "$2a$12$hash", domain.RoleHR, "People", false, true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("emp-1", now, now))

	repo := NewEmployeeRepository(mock)
	employee := &domain.Employee{
		Name:         "Ada",
		Email:        "ada@corp.example",
		PasswordHash: "$2a$12$hash",
		Role:         domain.RoleHR,
		Department:   "People",
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), employee))
	assert.Equal(t, "emp-1", employee.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE employees SET password_hash=\$1`).
		WithArgs("$2a$12$newhash", "emp-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewEmployeeRepository(mock)
	require.NoError(t, repo.UpdatePassword(context.Background(), "emp-1", "$2a$12$newhash"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdatePasswordMissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE employees SET password_hash=\$1`).
		WithArgs("$2a$12$newhash", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewEmployeeRepository(mock)
	err = repo.UpdatePassword(context.Background(), "missing", "$2a$12$newhash")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	rows := pgxmock.NewRows(employeeColumns).
		AddRow("emp-1", "Ada", "ada@corp.example", "h1", domain.RoleHR, "People", false, true, now, now).
		AddRow("emp-2", "Grace", "grace@corp.example", "h2", domain.RoleAdmin, "IT", true, true, now, now)

	mock.ExpectQuery(`FROM employees ORDER BY name`).WillReturnRows(rows)

	repo := NewEmployeeRepository(mock)
	employees, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "emp-1", employees[0].ID)
	assert.Equal(t, domain.RoleAdmin, employees[1].Role)

	require.NoError(t, mock.ExpectationsWereMet())
}
