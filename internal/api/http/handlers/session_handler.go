package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/telaviv/ops-dashboard/internal/api/dto"
	"github.com/telaviv/ops-dashboard/internal/auth"
	"github.com/telaviv/ops-dashboard/internal/service"
)

// SessionHandler exposes login, logout and the password recovery flow.
type SessionHandler struct {
	auth      *service.AuthService
	notices   *service.NotificationService
	loginPath string
	homePath  string
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService, notices *service.NotificationService, loginPath, homePath string) *SessionHandler {
	return &SessionHandler{auth: authService, notices: notices, loginPath: loginPath, homePath: homePath}
}

// State handles GET /api/session and the login landing.
func (h *SessionHandler) State(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return data(c, dto.NewSessionResponse(sess.State()))
}

// Login handles POST /api/session/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	if err := h.auth.Login(c.UserContext(), sess, req.Email, req.Password, req.Recaptcha); err != nil {
		return err
	}

	return data(c, fiber.Map{
		"redirect": h.homePath,
		"session":  dto.NewSessionResponse(sess.State()),
	})
}

// Logout handles POST /api/session/logout. Every cookie the browser sent
// is expired along with the stored token.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.logout(c); err != nil {
		return err
	}
	return data(c, dto.RedirectResponse{Redirect: h.loginPath})
}

// Leave handles GET /logado/sair, the menu entry of the same action.
func (h *SessionHandler) Leave(c *fiber.Ctx) error {
	if err := h.logout(c); err != nil {
		return err
	}
	return c.Redirect(h.loginPath)
}

func (h *SessionHandler) logout(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), sess); err != nil {
		return err
	}
	auth.ExpireAllCookies(c)
	return nil
}

// Notices handles GET /api/notices, draining the caller's toast queue.
func (h *SessionHandler) Notices(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return data(c, h.notices.Drain(sess.Key()))
}

// RequestPasswordReset handles POST /api/password/recover.
func (h *SessionHandler) RequestPasswordReset(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.RecoverRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if err := h.auth.RequestPasswordReset(c.UserContext(), sess, req.Email); err != nil {
		return err
	}
	return data(c, fiber.Map{
		"message":  service.RecoverSentMessage,
		"redirect": h.loginPath,
	})
}

// ResetPassword handles POST /api/password/reset/:code.
func (h *SessionHandler) ResetPassword(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.ResetRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if err := h.auth.ResetPassword(c.UserContext(), sess, c.Params("code"), req.Password, req.Confirmation); err != nil {
		return err
	}
	return data(c, fiber.Map{
		"message":  service.PasswordChangedMessage,
		"redirect": h.loginPath,
	})
}

// CheckPassword handles POST /api/password/check, returning the live
// policy checklist of the new password form.
func (h *SessionHandler) CheckPassword(c *fiber.Ctx) error {
	var req dto.PasswordCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	criteria := service.CheckPassword(req.Password)
	return data(c, fiber.Map{
		"criteria": criteria,
		"valid":    criteria.Valid(),
	})
}
