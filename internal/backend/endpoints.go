package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/telaviv/ops-dashboard/internal/domain"
)

// Login exchanges credentials for an access token. No bearer is sent.
func (c *Client) Login(ctx context.Context, email, password, recaptcha string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", "", nil,
		loginRequest{Email: email, Password: password, Recaptcha: recaptcha}, &out)
	return out, err
}

// RequestPasswordReset asks the backend to mail a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/recuperarPassword", "", nil, recoverRequest{Email: email}, &out)
	return out, err
}

// SaveNewPassword sets a new password using the reset code from the link.
func (c *Client) SaveNewPassword(ctx context.Context, password, code string) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/savenewpassword", "", nil,
		newPasswordRequest{Password: password, Code: code}, &out)
	return out, err
}

// LogQuery selects a page of the audit log.
type LogQuery struct {
	Page    int
	PerPage int
	Search  string
	From    string
	To      string
}

// ListLogs fetches a page of the audit log.
func (c *Client) ListLogs(ctx context.Context, token string, q LogQuery) (LogPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("per_page", strconv.Itoa(q.PerPage))
	setIfPresent(params, "busca", q.Search)
	setIfPresent(params, "data_de", q.From)
	setIfPresent(params, "data_ate", q.To)

	var out logPageResponse
	if err := c.do(ctx, http.MethodGet, "/api/logs", token, params, nil, &out); err != nil {
		return LogPage{}, err
	}
	page := LogPage{Entries: make([]domain.LogEntry, 0, len(out.Logs)), Total: out.Total}
	for _, r := range out.Logs {
		page.Entries = append(page.Entries, r.toDomain())
	}
	return page, nil
}

// UserQuery selects a page of users.
type UserQuery struct {
	Page    int
	PerPage int
	Search  string
	Status  string
	Role    string
}

// ListUsers fetches a page of users. The backend reports the page count.
func (c *Client) ListUsers(ctx context.Context, token string, q UserQuery) (UserPage, error) {
	params := url.Values{}
	params.Set("pagina", strconv.Itoa(q.Page))
	params.Set("per_page", strconv.Itoa(q.PerPage))
	setIfPresent(params, "busca", q.Search)
	setIfPresent(params, "status", q.Status)
	setIfPresent(params, "role", q.Role)

	var out userPageResponse
	if err := c.do(ctx, http.MethodGet, "/api/usuarios", token, params, nil, &out); err != nil {
		return UserPage{}, err
	}
	page := UserPage{Users: make([]domain.User, 0, len(out.Users)), TotalPages: out.TotalPages}
	for _, r := range out.Users {
		page.Users = append(page.Users, r.toDomain())
	}
	return page, nil
}

// ListRoles returns the role names the backend accepts.
func (c *Client) ListRoles(ctx context.Context, token string) ([]domain.Role, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, "/api/usuarios/perfis", token, nil, nil, &names); err != nil {
		return nil, err
	}
	roles := make([]domain.Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, domain.ParseRole(n))
	}
	return roles, nil
}

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, token string, in UserInput) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/usuarios", token, nil, in, &out)
	return out, err
}

// UpdateUser edits an account.
func (c *Client) UpdateUser(ctx context.Context, token string, id int64, in UserInput) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/usuarios/%d", id), token, nil, in, &out)
	return out, err
}

// SetUserStatus switches an account between ativo and inativo.
func (c *Client) SetUserStatus(ctx context.Context, token string, id int64, status domain.UserStatus) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/usuarios/%d", id), token, nil,
		statusRequest{Status: string(status)}, &out)
	return out, err
}

// CollaboratorsSnapshot fetches the HR snapshot for an optional window.
// start and finish use the DDMMYYYYhhmmss layout; both empty asks for the
// current state.
func (c *Client) CollaboratorsSnapshot(ctx context.Context, token, start, finish string) ([]domain.Collaborator, error) {
	var out []collaboratorRecord
	err := c.do(ctx, http.MethodPost, "/api/nexti/colaboradores_data", token, nil,
		windowRequest{Start: start, Finish: finish}, &out)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.Collaborator, 0, len(out))
	for _, r := range out {
		rows = append(rows, r.toDomain())
	}
	return rows, nil
}

func setIfPresent(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
