package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telaviv/ops-dashboard/internal/session"
)

const (
	sessionKey   = "auth_session"
	sessionIDKey = "auth_session_id"
)

// SessionMiddleware binds every request to the browser's session.
type SessionMiddleware struct {
	manager    *session.Manager
	cookieName string
	secure     bool
	logger     *zap.Logger
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(manager *session.Manager, cookieName string, secure bool, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{manager: manager, cookieName: cookieName, secure: secure, logger: logger}
}

// Handle reads or issues the session cookie and restores the session. A
// storage failure leaves the request logged out instead of failing it.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	sessionID := c.Cookies(m.cookieName)
	if _, err := uuid.Parse(sessionID); err != nil {
		sessionID = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     m.cookieName,
			Value:    sessionID,
			Path:     "/",
			HTTPOnly: true,
			Secure:   m.secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}

	sess, err := m.manager.Open(c.UserContext(), sessionID)
	if err != nil {
		m.logger.Warn("session restore failed", zap.String("path", c.Path()), zap.Error(err))
	}

	c.Locals(sessionKey, sess)
	c.Locals(sessionIDKey, sessionID)
	return c.Next()
}

// SessionFromContext retrieves the session bound by the middleware.
func SessionFromContext(c *fiber.Ctx) (*session.Session, bool) {
	sess, ok := c.Locals(sessionKey).(*session.Session)
	return sess, ok && sess != nil
}

// SessionIDFromContext returns the browser session id.
func SessionIDFromContext(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionIDKey).(string)
	return id
}

// ExpireAllCookies expires every cookie the browser presented.
func ExpireAllCookies(c *fiber.Ctx) {
	var names []string
	c.Request().Header.VisitAllCookie(func(key, _ []byte) {
		names = append(names, string(key))
	})
	for _, name := range names {
		c.Cookie(&fiber.Cookie{
			Name:    name,
			Value:   "",
			Path:    "/",
			Expires: time.Unix(0, 0),
			MaxAge:  -1,
		})
	}
}
