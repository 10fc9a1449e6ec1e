package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/telaviv/ops-dashboard/internal/auth"
	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/session"
	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

// currentSession returns the session bound by the session middleware.
func currentSession(c *fiber.Ctx) (*session.Session, error) {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, apperrors.NewInternalError(nil)
	}
	return sess, nil
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("identificador inválido", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}

func data(c *fiber.Ctx, payload any) error {
	return c.JSON(fiber.Map{"data": payload})
}

// withForm copies err with the echoed form added to its details.
func withForm(err error, form any) error {
	domainErr := apperrors.ToDomainError(err)
	details := map[string]any{"form": form}
	for k, v := range domainErr.Details {
		details[k] = v
	}
	return apperrors.NewDomainError(domainErr.Code, domainErr.Message, domainErr.HTTPStatus, details)
}

func invalidStatus(status domain.UserStatus) error {
	return apperrors.NewValidationError("status inválido", map[string]any{"current_status": status})
}
