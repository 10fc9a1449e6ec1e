package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/telaviv/ops-dashboard/internal/api/dto"
	"github.com/telaviv/ops-dashboard/internal/navigation"
	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

// ShellHandler serves the authenticated frame and the BI report screens.
type ShellHandler struct {
	catalog *navigation.Catalog
	reports map[string]string
}

// NewShellHandler constructs handler. reports maps a report id to its
// embed URL.
func NewShellHandler(catalog *navigation.Catalog, reports map[string]string) *ShellHandler {
	return &ShellHandler{catalog: catalog, reports: reports}
}

// Home handles GET /logado.
func (h *ShellHandler) Home(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	identity := sess.Identity()
	if identity == nil {
		return apperrors.NewUnauthorized("sessão não autenticada")
	}

	var links []navigation.Link
	if home, ok := h.catalog.Lookup(c.Path()); ok {
		links = home.Links
	}

	return data(c, dto.ShellResponse{
		Greeting:  "Olá, " + identity.Username,
		Username:  identity.Username,
		Role:      string(identity.Role),
		RoleLabel: identity.Role.DisplayName(),
		Menu:      h.catalog.VisibleMenu(identity.Role),
		Links:     links,
	})
}

// Report handles the GET of every report screen. The screen is resolved
// from the request path.
func (h *ShellHandler) Report(c *fiber.Ctx) error {
	screen, ok := h.catalog.Lookup(c.Path())
	if !ok || screen.Report == "" {
		return apperrors.NewNotFound("report", map[string]any{"path": c.Path()})
	}
	url, ok := h.reports[screen.Report]
	if !ok {
		return apperrors.NewNotFound("report", map[string]any{"report": screen.Report})
	}
	return data(c, dto.ReportResponse{ID: screen.Report, Title: screen.Label, EmbedURL: url})
}
