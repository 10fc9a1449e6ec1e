package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/telaviv/ops-dashboard/internal/api/dto"
	"github.com/telaviv/ops-dashboard/internal/service"
)

// LogsHandler exposes the audit log screen.
type LogsHandler struct {
	logs *service.LogsService
}

// NewLogsHandler constructs handler.
func NewLogsHandler(logs *service.LogsService) *LogsHandler {
	return &LogsHandler{logs: logs}
}

// List handles GET /logado/log.
func (h *LogsHandler) List(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	if page := parseInt(c.Query("page"), 0); page > 0 {
		return data(c, dto.NewLogListResponse(h.logs.SetPage(c.UserContext(), sess, page)))
	}
	return data(c, dto.NewLogListResponse(h.logs.Mount(c.UserContext(), sess)))
}

// Refresh handles POST /logado/log/refresh.
func (h *LogsHandler) Refresh(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return data(c, dto.NewLogListResponse(h.logs.Refresh(c.UserContext(), sess)))
}

// ApplyFilters handles POST /logado/log/filters.
func (h *LogsHandler) ApplyFilters(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	values := map[string]string{}
	if err := c.BodyParser(&values); err != nil {
		return invalidPayload()
	}
	snap, err := h.logs.ApplyFilters(c.UserContext(), sess, values)
	if err != nil {
		return err
	}
	return data(c, dto.NewLogListResponse(snap))
}

// RemoveFilter handles DELETE /logado/log/filters/:field.
func (h *LogsHandler) RemoveFilter(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	snap, err := h.logs.RemoveFilter(c.UserContext(), sess, c.Params("field"))
	if err != nil {
		return err
	}
	return data(c, dto.NewLogListResponse(snap))
}

// ClearFilters handles DELETE /logado/log/filters.
func (h *LogsHandler) ClearFilters(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return data(c, dto.NewLogListResponse(h.logs.ClearFilters(c.UserContext(), sess)))
}
