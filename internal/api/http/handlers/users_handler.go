package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/telaviv/ops-dashboard/internal/api/dto"
	"github.com/telaviv/ops-dashboard/internal/service"
)

// UsersHandler exposes the user management screen.
type UsersHandler struct {
	users *service.UsersService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UsersService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /logado/usuarios. Without ?page it refetches the page
// and active filters the session's screen already holds.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	if page := parseInt(c.Query("page"), 0); page > 0 {
		return data(c, dto.NewUserListResponse(h.users.SetPage(c.UserContext(), sess, page)))
	}
	return data(c, dto.NewUserListResponse(h.users.Mount(c.UserContext(), sess)))
}

// ApplyFilters handles POST /logado/usuarios/filters.
func (h *UsersHandler) ApplyFilters(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	values := map[string]string{}
	if err := c.BodyParser(&values); err != nil {
		return invalidPayload()
	}
	snap, err := h.users.ApplyFilters(c.UserContext(), sess, values)
	if err != nil {
		return err
	}
	return data(c, dto.NewUserListResponse(snap))
}

// RemoveFilter handles DELETE /logado/usuarios/filters/:field.
func (h *UsersHandler) RemoveFilter(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	snap, err := h.users.RemoveFilter(c.UserContext(), sess, c.Params("field"))
	if err != nil {
		return err
	}
	return data(c, dto.NewUserListResponse(snap))
}

// ClearFilters handles DELETE /logado/usuarios/filters.
func (h *UsersHandler) ClearFilters(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return data(c, dto.NewUserListResponse(h.users.ClearFilters(c.UserContext(), sess)))
}

// Roles handles GET /logado/usuarios/roles.
func (h *UsersHandler) Roles(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return data(c, dto.NewRoleOptions(h.users.AssignableRoles(c.UserContext(), sess)))
}

// Create handles POST /logado/usuarios.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	return h.save(c, 0, http.StatusCreated)
}

// Update handles PUT /logado/usuarios/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	return h.save(c, id, http.StatusOK)
}

// save answers a failed save with the echoed form so the modal keeps the
// operator's input.
func (h *UsersHandler) save(c *fiber.Ctx, id int64, okStatus int) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.UserFormRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	result, err := h.users.Save(c.UserContext(), sess, req.ToForm(id))
	if err != nil {
		return withForm(err, dto.NewUserFormResponse(result).Form)
	}
	return c.Status(okStatus).JSON(fiber.Map{"data": dto.NewUserFormResponse(result)})
}

// ToggleStatus handles PUT /logado/usuarios/:id/status.
func (h *UsersHandler) ToggleStatus(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if !req.Current.Known() {
		return invalidStatus(req.Current)
	}

	snap, err := h.users.ToggleStatus(c.UserContext(), sess, id, req.Current)
	if err != nil {
		return err
	}
	return data(c, dto.NewUserListResponse(snap))
}
