package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/telaviv/ops-dashboard/internal/backend"
	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/events"
	"github.com/telaviv/ops-dashboard/internal/session"
)

type call struct {
	Method string
	Path   string
	Query  map[string]string
	Body   map[string]any
}

// harness wires every service against a fake backend.
type harness struct {
	t        *testing.T
	mux      *http.ServeMux
	mu       sync.Mutex
	calls    []call
	store    *session.MemoryStore
	manager  *session.Manager
	notices  *NotificationService
	registry *ScreenRegistry
	client   *backend.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, mux: http.NewServeMux(), store: session.NewMemoryStore()}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{Method: r.Method, Path: r.URL.Path, Query: map[string]string{}}
		for k := range r.URL.Query() {
			c.Query[k] = r.URL.Query().Get(k)
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &c.Body)
		}
		h.mu.Lock()
		h.calls = append(h.calls, c)
		h.mu.Unlock()
		h.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	dispatcher := events.NewInMemoryDispatcher()
	registry, err := NewScreenRegistry(64)
	require.NoError(t, err)

	h.client = backend.NewClient(srv.URL, 2*time.Second)
	h.notices, err = NewNotificationService(nil, 64)
	require.NoError(t, err)
	h.registry = registry
	h.notices.RegisterHandlers(dispatcher)
	h.registry.RegisterHandlers(dispatcher)
	h.manager = session.NewManager(h.store, session.NewDecoder(), dispatcher, nil)
	return h
}

func (h *harness) respond(pattern string, status int, body string) {
	h.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (h *harness) recorded() []call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]call(nil), h.calls...)
}

func (h *harness) last() call {
	calls := h.recorded()
	require.NotEmpty(h.t, calls)
	return calls[len(calls)-1]
}

// open restores a browser session, optionally logged in as role.
func (h *harness) open(role domain.Role) *session.Session {
	h.t.Helper()
	ctx := context.Background()
	sid := uuid.NewString()
	if role != "" {
		require.NoError(h.t, h.store.Save(ctx, session.BrowserKey(sid), mintToken(h.t, role, time.Now().Add(time.Hour))))
	}
	sess, err := h.manager.Open(ctx, sid)
	require.NoError(h.t, err)
	return sess
}

func mintToken(t *testing.T, role domain.Role, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "7",
		"role":     string(role),
		"username": "ana",
		"exp":      exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}
