package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/auth"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

func currentPrincipal(c *fiber.Ctx) (auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal == nil {
		return auth.Principal{}, apperrors.NewUnauthorized("not authorized")
	}
	return *principal, nil
}
