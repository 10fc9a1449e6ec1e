package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/observability"
	"github.com/telaviv/ops-dashboard/internal/session"
)

// Decision is the outcome of a route guard check.
type Decision int

const (
	DecisionLoading Decision = iota
	DecisionDenyLogin
	DecisionDenyHome
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionDenyLogin:
		return "deny_login"
	case DecisionDenyHome:
		return "deny_home"
	case DecisionAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// Decide maps a session state and an allow-list to a guard decision. An
// empty allow-list admits any authenticated identity.
func Decide(state session.State, allow []domain.Role) Decision {
	if state.Loading {
		return DecisionLoading
	}
	if state.Identity == nil {
		return DecisionDenyLogin
	}
	if len(allow) > 0 && !domain.ContainsRole(allow, state.Identity.Role) {
		return DecisionDenyHome
	}
	return DecisionAllow
}

// LoadingMessage is shown while the session is still being restored.
const LoadingMessage = "Carregando sessão..."

// GuardConfig holds the landing paths of the guard redirects.
type GuardConfig struct {
	LoginPath string
	HomePath  string
	Metrics   *observability.Metrics
}

// Guard builds Fiber middleware enforcing Decide for the current session.
// Denials bounce to a landing screen rather than answering 403.
func (g GuardConfig) Guard(allow ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var state session.State
		if sess, ok := SessionFromContext(c); ok {
			state = sess.State()
		}

		decision := Decide(state, allow)
		g.Metrics.RecordDecision(routePath(c), decision.String())

		switch decision {
		case DecisionLoading:
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"loading": true,
				"message": LoadingMessage,
			})
		case DecisionDenyLogin:
			return c.Redirect(g.LoginPath)
		case DecisionDenyHome:
			return c.Redirect(g.HomePath)
		default:
			return c.Next()
		}
	}
}

func routePath(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" {
		return r.Path
	}
	return c.Path()
}
