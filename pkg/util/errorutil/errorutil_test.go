package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatus(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad", nil), CodeValidation, http.StatusBadRequest},
		{NewUnauthorized("who"), CodeUnauthorized, http.StatusUnauthorized},
		{NewForbidden("no"), CodeForbidden, http.StatusForbidden},
		{NewNotFound("complaint", nil), CodeNotFound, http.StatusNotFound},
		{NewConflict("dup", nil), CodeConflict, http.StatusConflict},
		{NewStorageError("bucket down", errors.New("timeout")), CodeStorage, http.StatusBadGateway},
		{NewInternalError(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		de := ToDomainError(tc.err)
		require.NotNil(t, de)
		assert.Equal(t, tc.code, de.Code)
		assert.Equal(t, tc.status, de.HTTPStatus)
		assert.True(t, HasCode(tc.err, tc.code))
	}
}

func TestToDomainErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewNotFound("complaint", map[string]any{"id": "x"}))
	de := ToDomainError(wrapped)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, "complaint not found", de.Message)
	assert.Equal(t, "x", de.Details["id"])
}

func TestToDomainErrorFallbacks(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))

	de := ToDomainError(errors.New("driver exploded"))
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, "internal server error", de.Message)

	de = ToDomainError(fiber.ErrNotFound)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = ToDomainError(fiber.NewError(http.StatusRequestEntityTooLarge, "too big"))
	assert.Equal(t, "REQUEST_FAILED", de.Code)
}

func TestStorageErrorKeepsCause(t *testing.T) {
	cause := errors.New("403 from bucket")
	err := NewStorageError("failed to upload attachment", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "403 from bucket")
}
