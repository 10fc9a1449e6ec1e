package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telaviv/ops-dashboard/internal/domain"
	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Auth   string
	CType  string
	Body   map[string]any
}

func newServer(t *testing.T, status int, response string) (*Client, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  map[string]string{},
			Auth:   r.Header.Get("Authorization"),
			CType:  r.Header.Get("Content-Type"),
		}
		for k := range r.URL.Query() {
			req.Query[k] = r.URL.Query().Get(k)
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			require.NoError(t, json.Unmarshal(data, &req.Body))
		}
		captured = append(captured, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second), &captured
}

func TestLoginSendsNoBearer(t *testing.T) {
	client, captured := newServer(t, http.StatusOK, `{"success":true,"message":"ok","access_token":"T"}`)

	resp, err := client.Login(context.Background(), "a@b.com", "x", "captcha")
	require.NoError(t, err)
	assert.Equal(t, LoginResponse{Success: true, Message: "ok", AccessToken: "T"}, resp)

	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/login", req.Path)
	assert.Empty(t, req.Auth)
	assert.Equal(t, "application/json", req.CType)
	assert.Equal(t, map[string]any{"email": "a@b.com", "password": "x", "recaptcha": "captcha"}, req.Body)
}

func TestLoginFailureCarriesBackendMessage(t *testing.T) {
	client, _ := newServer(t, http.StatusUnauthorized, `{"success":false,"message":"Senha errada"}`)

	_, err := client.Login(context.Background(), "a@b.com", "x", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, "Senha errada", apperrors.ToDomainError(err).Message)
}

func TestListLogs(t *testing.T) {
	client, captured := newServer(t, http.StatusOK, `{
		"logs":[{"id":3,"mensagem":"ana criou um novo usuário","data_cadastro":"2024-05-10T08:30:00","update_cadastro":null}],
		"page":1,"per_page":15,"total":31}`)

	page, err := client.ListLogs(context.Background(), "tok", LogQuery{Page: 2, PerPage: 20, Search: "ana", To: "2024-05-31"})
	require.NoError(t, err)

	require.Len(t, page.Entries, 1)
	assert.Equal(t, 31, page.Total)
	assert.Equal(t, "ana criou um novo usuário", page.Entries[0].Message)
	require.NotNil(t, page.Entries[0].CreatedAt)
	assert.Equal(t, time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC), *page.Entries[0].CreatedAt)
	assert.Nil(t, page.Entries[0].UpdatedAt)

	req := (*captured)[0]
	assert.Equal(t, "Bearer tok", req.Auth)
	assert.Equal(t, map[string]string{"page": "2", "per_page": "20", "busca": "ana", "data_ate": "2024-05-31"}, req.Query)
}

func TestListLogsForbidden(t *testing.T) {
	client, _ := newServer(t, http.StatusForbidden, `{"msg":"Acesso não autorizado para este perfil"}`)
	_, err := client.ListLogs(context.Background(), "tok", LogQuery{Page: 1, PerPage: 20})
	assert.True(t, apperrors.IsForbidden(err))
}

func TestListUsers(t *testing.T) {
	client, captured := newServer(t, http.StatusOK, `{
		"usuarios":[{"id":7,"username":"Bia","email":"bia@telaviv.com","telefone":null,"status":"ativo","role":"rh","data_cadastro":"2024-01-02T03:04:05"}],
		"totalPaginas":4,"paginaAtual":1}`)

	page, err := client.ListUsers(context.Background(), "tok", UserQuery{Page: 1, PerPage: 10, Role: "rh", Status: "ativo"})
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalPages)
	require.Len(t, page.Users, 1)
	assert.Equal(t, domain.RoleRH, page.Users[0].Role)
	assert.True(t, page.Users[0].Active())
	assert.Empty(t, page.Users[0].Phone)

	assert.Equal(t, map[string]string{"pagina": "1", "per_page": "10", "status": "ativo", "role": "rh"}, (*captured)[0].Query)
}

func TestSetUserStatus(t *testing.T) {
	client, captured := newServer(t, http.StatusOK, `{"msg":"Usuário atualizado com sucesso"}`)

	resp, err := client.SetUserStatus(context.Background(), "tok", 7, domain.UserStatusInactive)
	require.NoError(t, err)
	assert.Equal(t, "Usuário atualizado com sucesso", resp.Text())

	req := (*captured)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/api/usuarios/7", req.Path)
	assert.Equal(t, map[string]any{"status": "inativo"}, req.Body)
}

func TestCreateUserConflict(t *testing.T) {
	client, _ := newServer(t, http.StatusConflict, `{"msg":"Email já cadastrado"}`)
	_, err := client.CreateUser(context.Background(), "tok", UserInput{Username: "x", Email: "x@y.z", Role: "rh", Status: "ativo"})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeBusinessRule, de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "Email já cadastrado", de.Message)
	assert.Equal(t, "Email já cadastrado", BackendMessage(err))
	assert.Equal(t, http.StatusConflict, StatusCode(err))
}

func TestListRoles(t *testing.T) {
	client, _ := newServer(t, http.StatusOK, `["administrador","Financeiro","rh"]`)
	roles, err := client.ListRoles(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleAdministrador, domain.RoleFinanceiro, domain.RoleRH}, roles)
}

func TestCollaboratorsSnapshot(t *testing.T) {
	client, captured := newServer(t, http.StatusOK, `[{
		"Razao Social Empresa":"Tel Aviv Serviços","Cliente":"Maracanã","Unidade de Negocio":"RJ",
		"Nome Posto de Trabalho":"Posto - Portão 3","Nome Colaborador":"João","Matricula":1234,
		"CPF":"000.000.000-00","Descricao Cargo":"Vigilante","Cronograma":"12x36","Horario":"07:00 às 19:00",
		"Turno":null,"ID Colaborador":99}]`)

	rows, err := client.CollaboratorsSnapshot(context.Background(), "tok", "01052024000000", "31052024235959")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1234", rows[0].Registration)
	assert.Equal(t, "", rows[0].Shift)
	assert.Equal(t, "Posto - Portão 3", rows[0].Workplace)

	assert.Equal(t, map[string]any{"start": "01052024000000", "finish": "31052024235959"}, (*captured)[0].Body)
}

func TestCollaboratorsSnapshotWithoutWindow(t *testing.T) {
	client, captured := newServer(t, http.StatusOK, `[]`)
	rows, err := client.CollaboratorsSnapshot(context.Background(), "tok", "", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, (*captured)[0].Body)
}

func TestCollaboratorsSnapshotError(t *testing.T) {
	client, _ := newServer(t, http.StatusInternalServerError, `{"error":"Falha na autenticação com a API da Nexti."}`)
	_, err := client.CollaboratorsSnapshot(context.Background(), "tok", "", "")
	require.Error(t, err)
	assert.Equal(t, "Falha na autenticação com a API da Nexti.", apperrors.ToDomainError(err).Message)
}

func TestNonJSONSuccessIsTransportError(t *testing.T) {
	client, _ := newServer(t, http.StatusOK, `<html>gateway</html>`)
	_, err := client.ListLogs(context.Background(), "tok", LogQuery{Page: 1, PerPage: 20})
	assert.True(t, apperrors.IsTransport(err))
}

func TestStatusWithoutMessage(t *testing.T) {
	client, _ := newServer(t, http.StatusBadGateway, ``)
	_, err := client.ListUsers(context.Background(), "tok", UserQuery{Page: 1, PerPage: 10})
	require.Error(t, err)
	assert.Equal(t, "O servidor respondeu com erro 502.", apperrors.ToDomainError(err).Message)
	assert.Empty(t, BackendMessage(err))
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Login(context.Background(), "a@b.com", "x", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.Equal(t, apperrors.ConnectivityMessage, apperrors.ToDomainError(err).Message)
}

func TestTimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, 50*time.Millisecond).ListLogs(context.Background(), "tok", LogQuery{Page: 1, PerPage: 20})
	assert.True(t, apperrors.IsTransport(err))
}

func TestParseTimestamp(t *testing.T) {
	tests := map[string]*time.Time{
		"":                           nil,
		"garbage":                    nil,
		"2024-05-10T08:30:00":        ptr(time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)),
		"2024-05-10T08:30:00.123456": ptr(time.Date(2024, 5, 10, 8, 30, 0, 123456000, time.UTC)),
		"2024-05-10 08:30:00":        ptr(time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)),
		"2024-05-10":                 ptr(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)),
	}
	for raw, want := range tests {
		got := parseTimestamp(raw)
		if want == nil {
			assert.Nil(t, got, raw)
			continue
		}
		require.NotNil(t, got, raw)
		assert.True(t, want.Equal(*got), raw)
	}
}

func ptr(t time.Time) *time.Time { return &t }
