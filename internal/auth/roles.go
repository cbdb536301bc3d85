package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/peoplecore/hr-portal/internal/domain"
	apperrors "github.com/peoplecore/hr-portal/pkg/util"
)

// RequireRole ensures the resolved identity carries one of the allowed
// roles. The check is literal membership: roles carry no hierarchy, so an
// Admin-only route that should also admit HR must list both. The gate fails
// closed, a missing identity or an empty allowed set always denies.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok || identity == nil {
			return apperrors.NewForbidden("authentication required")
		}
		if len(allowedSet) == 0 {
			return apperrors.NewForbidden("no roles permitted")
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated admits any resolved identity regardless of role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewMissingCredential("authentication required")
		}
		return c.Next()
	}
}
