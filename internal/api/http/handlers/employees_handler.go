package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-helpdesk/internal/api/dto"
	"github.com/spec-kit/hr-helpdesk/internal/auth"
	"github.com/spec-kit/hr-helpdesk/internal/directory"
	"github.com/spec-kit/hr-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/hr-helpdesk/pkg/util/errorutil"
)

// EmployeesHandler serves the employee directory.
type EmployeesHandler struct {
	directory    *directory.Directory
	enforceRoles bool
}

// NewEmployeesHandler constructs handler. With enforceRoles, employees may only read their own profile.
func NewEmployeesHandler(dir *directory.Directory, enforceRoles bool) *EmployeesHandler {
	return &EmployeesHandler{directory: dir, enforceRoles: enforceRoles}
}

// ListEmployees GET /employees.
func (h *EmployeesHandler) ListEmployees(c *fiber.Ctx) error {
	employees := h.directory.All()
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, dto.NewEmployeeResponse(e))
	}
	return c.JSON(items)
}

// GetEmployee GET /employees/:username.
func (h *EmployeesHandler) GetEmployee(c *fiber.Ctx) error {
	username := c.Params("username")
	if h.enforceRoles {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != domain.RoleAdmin && principal.Username != username {
			return apperrors.NewForbidden("employees may only view their own profile")
		}
	}

	employee, err := h.directory.ByUsername(username)
	if err != nil {
		if errors.Is(err, directory.ErrEmployeeNotFound) {
			return apperrors.NewNotFound("employee", map[string]any{"username": username})
		}
		return err
	}
	return c.JSON(dto.NewEmployeeResponse(employee))
}
