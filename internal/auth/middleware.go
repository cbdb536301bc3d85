package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/peoplecore/hr-portal/internal/domain"
	"github.com/peoplecore/hr-portal/internal/repository"
	apperrors "github.com/peoplecore/hr-portal/pkg/util"
)

const identityKey = "auth_identity"

// SessionResolver turns bearer tokens into authenticated identities. Each
// resolution is independent: a fresh identity per request, nothing cached
// across calls.
type SessionResolver struct {
	tokens    *TokenManager
	employees repository.EmployeeRepository
}

// NewSessionResolver constructs the resolver middleware.
func NewSessionResolver(tokens *TokenManager, employees repository.EmployeeRepository) *SessionResolver {
	return &SessionResolver{tokens: tokens, employees: employees}
}

// Handle enforces authentication for protected routes. A token that verifies
// but names an account that no longer exists (or is deactivated) does not
// resolve.
func (m *SessionResolver) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewMissingCredential("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return apperrors.NewMissingCredential("invalid authorization header")
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		return err
	}

	employee, err := m.employees.GetByID(c.UserContext(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnknownSubject()
		}
		return apperrors.NewStoreUnavailable(err)
	}
	if !employee.Active {
		return apperrors.NewUnknownSubject()
	}

	identity := &domain.Identity{
		UserID: employee.ID,
		Email:  employee.Email,
		Role:   employee.Role,
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
