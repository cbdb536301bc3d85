package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/peoplecore/hr-portal/internal/api/http/handlers"
	"github.com/peoplecore/hr-portal/internal/auth"
	"github.com/peoplecore/hr-portal/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Employees       *handlers.EmployeesHandler
	SessionResolver *auth.SessionResolver
}

// RegisterRoutes wires HTTP routes. Role gates enumerate every admitted role
// explicitly; Admin is not implied anywhere it is not listed.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/mfa/verify", cfg.Auth.VerifyMFA)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	protected := authGroup.Group("", cfg.SessionResolver.Handle, auth.RequireAuthenticated())
	protected.Post("/password/change", cfg.Auth.ChangePassword)

	employees := app.Group("/employees", cfg.SessionResolver.Handle)
	employees.Get("/me",
		auth.RequireRole(domain.RoleEmployee, domain.RoleHR, domain.RoleAdmin),
		cfg.Employees.Me)
	employees.Get("",
		auth.RequireRole(domain.RoleHR, domain.RoleAdmin),
		cfg.Employees.List)
	employees.Post("",
		auth.RequireRole(domain.RoleAdmin),
		cfg.Employees.Create)
}
