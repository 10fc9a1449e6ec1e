package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/events"
	"github.com/telaviv/ops-dashboard/internal/observability"
	"github.com/telaviv/ops-dashboard/internal/session"
)

func identityState(role domain.Role) session.State {
	return session.State{Token: "t", Identity: &domain.Identity{ID: "1", Role: role}}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state session.State
		allow []domain.Role
		want  Decision
	}{
		{"loading wins over everything", session.State{Loading: true, Identity: &domain.Identity{Role: domain.RoleAdministrador}}, AdminOnly, DecisionLoading},
		{"no identity", session.State{}, nil, DecisionDenyLogin},
		{"no identity with allow-list", session.State{}, AdminOnly, DecisionDenyLogin},
		{"any authenticated identity", identityState(domain.RoleOperacao), nil, DecisionAllow},
		{"role outside allow-list", identityState(domain.RoleRH), FinanceRoles, DecisionDenyHome},
		{"role inside allow-list", identityState(domain.RoleFinanceiro), FinanceRoles, DecisionAllow},
		{"admin only", identityState(domain.RoleDiretor), AdminOnly, DecisionDenyHome},
		{"unknown role is never a member", identityState(domain.Role("visitante")), AnyRole, DecisionDenyHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state, tt.allow))
		})
	}
}

func TestDecideIsTotal(t *testing.T) {
	allowLists := [][]domain.Role{nil, AdminOnly, FinanceRoles, AnyRole}
	roles := append([]domain.Role{""}, domain.AllRoles...)
	for _, loading := range []bool{true, false} {
		for _, role := range roles {
			for _, allow := range allowLists {
				state := session.State{Loading: loading}
				if role != "" {
					state.Identity = &domain.Identity{Role: role}
				}
				d := Decide(state, allow)
				switch {
				case loading:
					assert.Equal(t, DecisionLoading, d)
				case role == "":
					assert.Equal(t, DecisionDenyLogin, d)
				case len(allow) == 0 || domain.ContainsRole(allow, role):
					assert.Equal(t, DecisionAllow, d)
				default:
					assert.Equal(t, DecisionDenyHome, d)
				}
			}
		}
	}
}

const cookieName = "telaviv_sid"

var now = time.Now()

func signedToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "9",
		"role":     role,
		"username": "bia",
		"exp":      exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

func newGuardedApp(t *testing.T, store session.TokenStore, metrics *observability.Metrics) *fiber.App {
	t.Helper()
	manager := session.NewManager(store, session.NewDecoder(), events.NewInMemoryDispatcher(), zap.NewNop())
	guard := GuardConfig{LoginPath: "/", HomePath: "/logado", Metrics: metrics}

	app := fiber.New()
	app.Use(NewSessionMiddleware(manager, cookieName, false, zap.NewNop()).Handle)
	app.Get("/logado", guard.Guard(), func(c *fiber.Ctx) error { return c.SendString("home") })
	app.Get("/logado/usuarios", guard.Guard(AdminOnly...), func(c *fiber.Ctx) error {
		sess, _ := SessionFromContext(c)
		return c.SendString("users:" + sess.Identity().Username)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sid})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	metrics := observability.NewMetrics()
	app := newGuardedApp(t, session.NewMemoryStore(), metrics)

	resp := get(t, app, "/logado/usuarios", "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var issued string
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			issued = c.Value
		}
	}
	assert.NotEmpty(t, issued)
	assert.Equal(t, int64(1), metrics.Snapshot()["decisions"]["/logado/usuarios|deny_login"])
}

func TestGuardBouncesWrongRoleHome(t *testing.T) {
	store := session.NewMemoryStore()
	sid := "6f1c2d1e-3b7a-4c3e-9a51-0c1f2b3a4d5e"
	require.NoError(t, store.Save(context.Background(), session.BrowserKey(sid), signedToken(t, "rh", now.Add(time.Hour))))
	app := newGuardedApp(t, store, nil)

	resp := get(t, app, "/logado/usuarios", sid)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/logado", resp.Header.Get("Location"))

	resp = get(t, app, "/logado", sid)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGuardAllowsAdmin(t *testing.T) {
	store := session.NewMemoryStore()
	sid := "0b5f6a1e-8c7d-4e2f-a1b3-c4d5e6f70819"
	require.NoError(t, store.Save(context.Background(), session.BrowserKey(sid), signedToken(t, "administrador", now.Add(time.Hour))))
	app := newGuardedApp(t, store, nil)

	resp := get(t, app, "/logado/usuarios", sid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "users:bia", string(body))
}

func TestGuardDropsExpiredTokenOnNextRequest(t *testing.T) {
	store := session.NewMemoryStore()
	sid := "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
	key := session.BrowserKey(sid)
	require.NoError(t, store.Save(context.Background(), key, signedToken(t, "administrador", now.Add(-time.Minute))))
	app := newGuardedApp(t, store, nil)

	resp := get(t, app, "/logado", sid)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	stored, err := store.Load(context.Background(), key)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestGuardLoadingPlaceholder(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(sessionKey, session.New("k", session.NewMemoryStore(), session.NewDecoder()))
		return c.Next()
	})
	app.Get("/logado", GuardConfig{LoginPath: "/", HomePath: "/logado"}.Guard(), func(c *fiber.Ctx) error {
		return c.SendString("never")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/logado", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), LoadingMessage)
}

func TestExpireAllCookies(t *testing.T) {
	app := fiber.New()
	app.Get("/out", func(c *fiber.Ctx) error {
		ExpireAllCookies(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/out", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "x"})
	req.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	expired := map[string]bool{}
	for _, c := range resp.Cookies() {
		expired[c.Name] = c.Value == "" && c.Expires.Year() == 1970
	}
	assert.Equal(t, map[string]bool{cookieName: true, "theme": true}, expired)
}
