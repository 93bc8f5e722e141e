package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-helpdesk/internal/api/dto"
	"github.com/spec-kit/hr-helpdesk/internal/auth"
	"github.com/spec-kit/hr-helpdesk/internal/service"
	apperrors "github.com/spec-kit/hr-helpdesk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service      *service.TicketService
	defaultOwner string
	enforceRoles bool
}

// NewTicketsHandler constructs handler. Anonymous submissions are owned by defaultOwner.
func NewTicketsHandler(ticketService *service.TicketService, defaultOwner string, enforceRoles bool) *TicketsHandler {
	return &TicketsHandler{service: ticketService, defaultOwner: defaultOwner, enforceRoles: enforceRoles}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	owner := h.defaultOwner
	if principal, ok := auth.PrincipalFromContext(c); ok {
		owner = principal.Username
	}

	ticket, err := h.service.Submit(c.UserContext(), owner, req.Query)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	skip, err := queryInt(c, "skip")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}

	tickets, err := h.service.List(c.UserContext(), skip, limit, viewer)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketList(tickets))
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid ticket id", map[string]any{"id": c.Params("id")})
	}
	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}

	ticket, err := h.service.Get(c.UserContext(), id, viewer)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

func (h *TicketsHandler) viewer(c *fiber.Ctx) (*service.Viewer, error) {
	if !h.enforceRoles {
		return nil, nil
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return &service.Viewer{Username: principal.Username, Role: principal.Role}, nil
}

// queryInt reads an optional integer query parameter. Absent means zero.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	val := c.Query(key)
	if val == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid "+key, map[string]any{key: val})
	}
	return parsed, nil
}
