package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("lookup: %w", NewNotFound("ticket", nil))
	de := ToDomainError(wrapped)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "ticket not found", de.Message)

	de = ToDomainError(fiber.ErrNotFound)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = ToDomainError(fiber.NewError(http.StatusBadRequest, "bad form"))
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, "bad form", de.Message)

	de = ToDomainError(sql.ErrNoRows)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	boom := errors.New("disk full")
	de = ToDomainError(boom)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.ErrorIs(t, de, boom)
}
