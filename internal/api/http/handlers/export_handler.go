package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/telaviv/ops-dashboard/internal/api/dto"
	"github.com/telaviv/ops-dashboard/internal/service"
)

// ExportHandler exposes the HR collaborator export.
type ExportHandler struct {
	export *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(export *service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// Preview handles GET /logado/nexti, returning the last generated rows.
func (h *ExportHandler) Preview(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return data(c, dto.NewCollaboratorResponses(h.export.Preview(sess)))
}

// Generate handles POST /logado/nexti/generate.
func (h *ExportHandler) Generate(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.ExportRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidPayload()
		}
	}

	rows, err := h.export.Generate(c.UserContext(), sess, service.ExportWindow{Start: req.Start, Finish: req.Finish})
	if err != nil {
		return err
	}
	return data(c, dto.NewCollaboratorResponses(rows))
}

// Download handles GET /logado/nexti/download.
func (h *ExportHandler) Download(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	workbook, err := h.export.Download(sess)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, service.ExportContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", service.ExportFileName))
	return c.Send(workbook)
}
