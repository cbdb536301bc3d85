package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/peoplecore/hr-portal/internal/api/http/handlers"
	"github.com/peoplecore/hr-portal/internal/auth"
	"github.com/peoplecore/hr-portal/internal/config"
	"github.com/peoplecore/hr-portal/internal/domain"
	"github.com/peoplecore/hr-portal/internal/observability"
	"github.com/peoplecore/hr-portal/internal/repository"
	"github.com/peoplecore/hr-portal/internal/service"
)

type stubEmployeeRepo struct {
	employees map[string]*domain.Employee
}

func (s *stubEmployeeRepo) Create(_ context.Context, employee *domain.Employee) error {
	employee.ID = "emp-" + employee.Email
	employee.CreatedAt = time.Now()
	s.employees[employee.ID] = employee
	return nil
}

func (s *stubEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	employee, ok := s.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return employee, nil
}

func (s *stubEmployeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	for _, employee := range s.employees {
		if employee.Email == email {
			return employee, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubEmployeeRepo) List(context.Context) ([]*domain.Employee, error) {
	out := make([]*domain.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		out = append(out, employee)
	}
	return out, nil
}

func (s *stubEmployeeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	employee, ok := s.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	employee.PasswordHash = hash
	return nil
}

type stubChallengeStore struct{}

func (stubChallengeStore) Put(context.Context, *repository.MFAChallenge, time.Duration) error {
	return nil
}

func (stubChallengeStore) Get(context.Context, string) (*repository.MFAChallenge, error) {
	return nil, repository.ErrChallengeNotFound
}

func (stubChallengeStore) Delete(context.Context, string) error { return nil }

func newTestServer(t *testing.T) (*fiber.App, *stubEmployeeRepo, *observability.Metrics) {
	t.Helper()

	repo := &stubEmployeeRepo{employees: map[string]*domain.Employee{}}
	for _, seed := range []struct {
		id       string
		email    string
		password string
		role     domain.Role
	}{
		{"emp-admin", "admin@corp.example", "admin-pass", domain.RoleAdmin},
		{"emp-hr", "hr@corp.example", "hr-pass", domain.RoleHR},
		{"emp-worker", "worker@corp.example", "worker-pass", domain.RoleEmployee},
	} {
		hash, err := auth.HashPassword(seed.password, bcrypt.MinCost)
		require.NoError(t, err)
		repo.employees[seed.id] = &domain.Employee{
			ID: seed.id, Name: seed.id, Email: seed.email, PasswordHash: hash,
			Role: seed.role, Active: true,
		}
	}

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 1,
			BcryptCost:    bcrypt.MinCost,
		},
	}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		EmployeeRepo:   repo,
		ChallengeStore: stubChallengeStore{},
	})
	directoryService := service.NewDirectoryService(repo, nil, bcrypt.MinCost)
	resolver := auth.NewSessionResolver(authService.TokenManager(), repo)

	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:          handlers.NewHealthHandler("hr-portal-test", "test", nil, nil),
		Auth:            handlers.NewAuthHandler(authService),
		Employees:       handlers.NewEmployeesHandler(directoryService),
		SessionResolver: resolver,
	})
	return app, repo, metrics
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func loginToken(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login body: %s", body)

	var parsed struct {
		Data struct {
			Auth struct {
				Token string `json:"token"`
			} `json:"auth"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.NotEmpty(t, parsed.Data.Auth.Token)
	return parsed.Data.Auth.Token
}

func TestLoginThenResolve(t *testing.T) {
	app, _, _ := newTestServer(t)

	token := loginToken(t, app, "worker@corp.example", "worker-pass")

	resp, body := doJSON(t, app, http.MethodGet, "/employees/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Data struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "worker@corp.example", parsed.Data.Email)
	assert.Equal(t, "EMPLOYEE", parsed.Data.Role)
}

func TestLoginFailuresRenderIdentically(t *testing.T) {
	app, _, _ := newTestServer(t)

	respWrong, bodyWrong := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "worker@corp.example", "password": "not-it",
	})
	respUnknown, bodyUnknown := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ghost@corp.example", "password": "not-it",
	})

	assert.Equal(t, http.StatusUnauthorized, respWrong.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
	assert.JSONEq(t, string(bodyWrong), string(bodyUnknown))
}

func TestRoleGatesOnDirectory(t *testing.T) {
	app, _, _ := newTestServer(t)

	adminToken := loginToken(t, app, "admin@corp.example", "admin-pass")
	hrToken := loginToken(t, app, "hr@corp.example", "hr-pass")
	workerToken := loginToken(t, app, "worker@corp.example", "worker-pass")

	// listing admits HR and Admin, not Employee
	resp, _ := doJSON(t, app, http.MethodGet, "/employees", hrToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/employees", workerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// onboarding is Admin-only; HR is not implicitly admitted
	newEmployee := map[string]any{
		"name": "New Hire", "email": "new@corp.example",
		"password": "initial-pass", "role": "EMPLOYEE",
	}
	resp, _ = doJSON(t, app, http.MethodPost, "/employees", hrToken, newEmployee)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/employees", adminToken, newEmployee)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// the onboarded account can log in
	loginToken(t, app, "new@corp.example", "initial-pass")
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	app, _, _ := newTestServer(t)

	resp, body := doJSON(t, app, http.MethodGet, "/employees/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var parsed struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "MISSING_CREDENTIAL", parsed.Error.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	app, repo, _ := newTestServer(t)

	token := loginToken(t, app, "worker@corp.example", "worker-pass")

	resp, _ := doJSON(t, app, http.MethodPost, "/auth/password/change", token, map[string]string{
		"current_password": "worker-pass", "new_password": "fresh-pass",
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, auth.VerifyPassword(repo.employees["emp-worker"].PasswordHash, "fresh-pass"))

	// old password no longer accepted
	resp, _ = doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "worker@corp.example", "password": "worker-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFailedRequestCountedWithFinalStatus(t *testing.T) {
	app, _, metrics := newTestServer(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "worker@corp.example", "password": "not-it",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	counts := metrics.RequestCounts()
	assert.Contains(t, counts, "/auth/login|POST|401")
	assert.NotContains(t, counts, "/auth/login|POST|200")
	assert.Equal(t, int64(1), metrics.AuthFailures()["INVALID_CREDENTIALS"])
}

// blockedEmployeeRepo only answers once the request context is done, the way
// an unresponsive store does.
type blockedEmployeeRepo struct{}

func (blockedEmployeeRepo) Create(context.Context, *domain.Employee) error { return nil }

func (blockedEmployeeRepo) GetByID(ctx context.Context, _ string) (*domain.Employee, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockedEmployeeRepo) GetByEmail(ctx context.Context, _ string) (*domain.Employee, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockedEmployeeRepo) List(ctx context.Context) ([]*domain.Employee, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockedEmployeeRepo) UpdatePassword(context.Context, string, string) error { return nil }

func TestRequestTimeoutBoundsStoreCalls(t *testing.T) {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 1,
			BcryptCost:    bcrypt.MinCost,
		},
	}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		EmployeeRepo:   blockedEmployeeRepo{},
		ChallengeStore: stubChallengeStore{},
	})
	directoryService := service.NewDirectoryService(blockedEmployeeRepo{}, nil, bcrypt.MinCost)
	resolver := auth.NewSessionResolver(authService.TokenManager(), blockedEmployeeRepo{})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 100*time.Millisecond)
	RegisterRoutes(app, RouteConfig{
		Health:          handlers.NewHealthHandler("hr-portal-test", "test", nil, nil),
		Auth:            handlers.NewAuthHandler(authService),
		Employees:       handlers.NewEmployeesHandler(directoryService),
		SessionResolver: resolver,
	})

	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "whatever",
	})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "body: %s", body)

	var parsed struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "STORE_UNAVAILABLE", parsed.Error.Code)
}
