package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hr-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/hr-helpdesk/internal/auth"
	"github.com/spec-kit/hr-helpdesk/internal/config"
	"github.com/spec-kit/hr-helpdesk/internal/directory"
	"github.com/spec-kit/hr-helpdesk/internal/events"
	"github.com/spec-kit/hr-helpdesk/internal/observability"
	"github.com/spec-kit/hr-helpdesk/internal/persistence"
	"github.com/spec-kit/hr-helpdesk/internal/repository"
	"github.com/spec-kit/hr-helpdesk/internal/responder"
	"github.com/spec-kit/hr-helpdesk/internal/service"
)

type failingProbe struct{}

func (failingProbe) Heartbeat(context.Context) error { return errors.New("connection refused") }

func newTestApp(t *testing.T, enforceRoles bool) *fiber.App {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	db, err := persistence.NewSQLite(ctx, config.DatabaseConfig{SQLitePath: persistence.MemoryPath}, logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, persistence.RunMigrations(ctx, db, logger))

	cfg := config.Config{
		App: config.AppConfig{Name: "hr-helpdesk", Version: "test"},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 30,
			BcryptCost:            bcrypt.MinCost,
			EnforceRoles:          enforceRoles,
			AdminPassword:         "adminpassword",
			EmployeePassword:      "emppassword",
		},
		Tickets: config.TicketsConfig{DefaultOwner: "employee", DefaultLimit: 100, MaxLimit: 1000},
	}

	users := repository.NewSQLiteUserRepository(db.DB)
	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users, Logger: logger})
	require.NoError(t, authService.EnsureSeedAccounts(ctx))

	metrics := observability.NewMetrics()
	ticketService := service.NewTicketService(cfg.Tickets, service.TicketDependencies{
		TicketRepo: repository.NewSQLiteTicketRepository(db.DB),
		UserRepo:   users,
		Responder:  responder.NewChain(nil, logger),
		Dispatcher: events.NewInMemoryDispatcher(),
		Metrics:    metrics,
		Logger:     logger,
	})
	dir, err := directory.New(directory.Defaults())
	require.NoError(t, err)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db, nil, failingProbe{}),
		Auth:           handlers.NewAuthHandler(authService),
		Employees:      handlers.NewEmployeesHandler(dir, enforceRoles),
		Tickets:        handlers.NewTicketsHandler(ticketService, cfg.Tickets.DefaultOwner, enforceRoles),
		Metrics:        metrics.Handler(),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		EnforceRoles:   enforceRoles,
	})
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	status, body := do(t, app, req)
	require.Equal(t, http.StatusOK, status, string(body))

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(body, &token))
	assert.Equal(t, "bearer", token.TokenType)
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

func submit(t *testing.T, app *fiber.App, token, query string) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/tickets/", strings.NewReader(string(payload)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	status, body := do(t, app, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return status, out
}

func get(t *testing.T, app *fiber.App, path, token string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return do(t, app, req)
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out.Error.Code
}

func TestTokenEndpoint(t *testing.T) {
	app := newTestApp(t, false)
	login(t, app, "admin", "adminpassword")

	form := url.Values{"username": {"admin"}, "password": {"nope"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	status, body := do(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestSubmitTicketAnonymousUsesDefaultOwner(t *testing.T) {
	app := newTestApp(t, false)

	status, ticket := submit(t, app, "", "I want to apply for leave")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "closed", ticket["status"])
	assert.NotEmpty(t, ticket["response"])
	assert.Equal(t, "I want to apply for leave", ticket["query"])
	assert.Contains(t, ticket, "created_at")

	token := login(t, app, "admin", "adminpassword")
	status, adminTicket := submit(t, app, token, "urgent: need a human")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "escalated", adminTicket["status"])
	assert.NotEqual(t, ticket["owner_id"], adminTicket["owner_id"])
}

func TestSubmitTicketValidation(t *testing.T) {
	app := newTestApp(t, false)

	status, body := submit(t, app, "", "   ")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])

	status, body = submit(t, app, "not-a-token", "hello")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])
}

func TestListAndGetTickets(t *testing.T) {
	app := newTestApp(t, false)
	for _, q := range []string{"first", "second", "third"} {
		status, _ := submit(t, app, "", q)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := get(t, app, "/tickets/?skip=1&limit=1", "")
	require.Equal(t, http.StatusOK, status)
	var page []map[string]any
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0]["query"])

	status, body = get(t, app, "/tickets", "")
	require.Equal(t, http.StatusOK, status)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 3)

	status, body = get(t, app, "/tickets/1", "")
	require.Equal(t, http.StatusOK, status)
	var one map[string]any
	require.NoError(t, json.Unmarshal(body, &one))
	assert.Equal(t, "first", one["query"])

	status, body = get(t, app, "/tickets/999", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))

	status, body = get(t, app, "/tickets/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))

	status, _ = get(t, app, "/tickets/?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEmployees(t *testing.T) {
	app := newTestApp(t, false)

	status, body := get(t, app, "/employees", "")
	require.Equal(t, http.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, len(directory.Defaults()))

	status, body = get(t, app, "/employees/employee", "")
	require.Equal(t, http.StatusOK, status)
	var one map[string]any
	require.NoError(t, json.Unmarshal(body, &one))
	assert.Equal(t, "employee", one["username"])

	status, body = get(t, app, "/employees/ghost", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestEnforcedRoles(t *testing.T) {
	app := newTestApp(t, true)

	status, _ := get(t, app, "/tickets/", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	employeeToken := login(t, app, "employee", "emppassword")
	adminToken := login(t, app, "admin", "adminpassword")

	status, _ = submit(t, app, employeeToken, "employee question")
	require.Equal(t, http.StatusCreated, status)
	status, _ = submit(t, app, adminToken, "admin question")
	require.Equal(t, http.StatusCreated, status)

	status, body := get(t, app, "/tickets/", employeeToken)
	require.Equal(t, http.StatusOK, status)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(body, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "employee question", mine[0]["query"])

	status, body = get(t, app, "/tickets/", adminToken)
	require.Equal(t, http.StatusOK, status)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 2)

	status, body = get(t, app, "/employees", employeeToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	status, _ = get(t, app, "/employees/employee", employeeToken)
	assert.Equal(t, http.StatusOK, status)
	status, _ = get(t, app, "/employees/admin", employeeToken)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = get(t, app, "/employees", adminToken)
	assert.Equal(t, http.StatusOK, status)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, false)

	status, _ := get(t, app, "/health/live", "")
	assert.Equal(t, http.StatusOK, status)

	status, body := get(t, app, "/health/ready", "")
	require.Equal(t, http.StatusOK, status, string(body))
	var ready struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(body, &ready))
	assert.Equal(t, "ok", ready.Dependencies["database"])
	assert.Equal(t, "disabled", ready.Dependencies["redis"])
	assert.Contains(t, ready.Dependencies["model"], "fallback")

	submit(t, app, "", "leave balance")
	status, body = get(t, app, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "helpdesk_responder_answers_total")
	assert.Contains(t, string(body), "helpdesk_http_requests_total")
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	app := newTestApp(t, false)
	status, body := get(t, app, "/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}
