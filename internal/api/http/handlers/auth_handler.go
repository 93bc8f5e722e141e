package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-helpdesk/internal/api/dto"
	"github.com/spec-kit/hr-helpdesk/internal/service"
	apperrors "github.com/spec-kit/hr-helpdesk/pkg/util/errorutil"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Token handles POST /token. Credentials arrive as form fields.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, err := h.auth.IssueToken(c.UserContext(), username, password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{AccessToken: token.Value, TokenType: "bearer"})
}
