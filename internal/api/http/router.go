package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/hr-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/hr-helpdesk/internal/auth"
	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Employees      *handlers.EmployeesHandler
	Tickets        *handlers.TicketsHandler
	Metrics        http.Handler
	AuthMiddleware *auth.AuthMiddleware
	EnforceRoles   bool
}

// RegisterRoutes wires HTTP routes. Without EnforceRoles a bearer token is optional and only
// decides ticket ownership; with it every employee and ticket route needs a token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	app.Post("/token", cfg.Auth.Token)

	authenticate := cfg.AuthMiddleware.Optional
	if cfg.EnforceRoles {
		authenticate = cfg.AuthMiddleware.Handle
	}

	employees := app.Group("/employees", authenticate)
	if cfg.EnforceRoles {
		employees.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Employees.ListEmployees)
	} else {
		employees.Get("/", cfg.Employees.ListEmployees)
	}
	employees.Get("/:username", cfg.Employees.GetEmployee)

	tickets := app.Group("/tickets", authenticate)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
}
