package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/peoplecore/hr-portal/internal/api/dto"
	"github.com/peoplecore/hr-portal/internal/auth"
	"github.com/peoplecore/hr-portal/internal/domain"
	"github.com/peoplecore/hr-portal/internal/service"
	apperrors "github.com/peoplecore/hr-portal/pkg/util"
)

// EmployeesHandler exposes directory endpoints.
type EmployeesHandler struct {
	directory *service.DirectoryService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(directory *service.DirectoryService) *EmployeesHandler {
	return &EmployeesHandler{directory: directory}
}

// Me handles GET /employees/me.
func (h *EmployeesHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential("authentication required")
	}

	employee, err := h.directory.GetProfile(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// List handles GET /employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	employees, err := h.directory.ListEmployees(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]dto.EmployeeResponse, 0, len(employees))
	for _, employee := range employees {
		out = append(out, dto.NewEmployeeResponse(employee))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create handles POST /employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return apperrors.NewValidationError("name, email, password, role required", nil)
	}

	employee, err := h.directory.CreateEmployee(c.UserContext(), service.NewEmployeeInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       domain.Role(req.Role),
		Department: req.Department,
		MFAEnabled: req.MFAEnabled,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}
