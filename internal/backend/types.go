package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/telaviv/ops-dashboard/internal/domain"
)

// MessageResponse is the common envelope of write endpoints and errors.
// Different endpoints name the text field differently.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
	Error   string `json:"error"`
}

// Text returns whichever message field is set.
func (m MessageResponse) Text() string {
	switch {
	case m.Msg != "":
		return m.Msg
	case m.Message != "":
		return m.Message
	default:
		return m.Error
	}
}

// LoginResponse is the answer of /api/login.
type LoginResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

type loginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Recaptcha string `json:"recaptcha,omitempty"`
}

type recoverRequest struct {
	Email string `json:"email"`
}

type newPasswordRequest struct {
	Password string `json:"password"`
	Code     string `json:"tokena2"`
}

type logRecord struct {
	ID        int64  `json:"id"`
	Message   string `json:"mensagem"`
	CreatedAt string `json:"data_cadastro"`
	UpdatedAt string `json:"update_cadastro"`
}

type logPageResponse struct {
	Logs  []logRecord `json:"logs"`
	Total int         `json:"total"`
}

// LogPage is one page of the audit log.
type LogPage struct {
	Entries []domain.LogEntry
	Total   int
}

type userRecord struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Phone     *string `json:"telefone"`
	Status    string  `json:"status"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"data_cadastro"`
}

type userPageResponse struct {
	Users      []userRecord `json:"usuarios"`
	TotalPages int          `json:"totalPaginas"`
}

// UserPage is one page of the user list.
type UserPage struct {
	Users      []domain.User
	TotalPages int
}

// UserInput is the body of user create and update calls.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"telefone"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type windowRequest struct {
	Start  string `json:"start,omitempty"`
	Finish string `json:"finish,omitempty"`
}

// flexString accepts JSON strings, numbers and null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(string(data))
	return nil
}

type collaboratorRecord struct {
	Company      flexString `json:"Razao Social Empresa"`
	Client       flexString `json:"Cliente"`
	BusinessUnit flexString `json:"Unidade de Negocio"`
	Workplace    flexString `json:"Nome Posto de Trabalho"`
	Name         flexString `json:"Nome Colaborador"`
	Registration flexString `json:"Matricula"`
	CPF          flexString `json:"CPF"`
	JobTitle     flexString `json:"Descricao Cargo"`
	Schedule     flexString `json:"Cronograma"`
	Hours        flexString `json:"Horario"`
	Shift        flexString `json:"Turno"`
}

func (r logRecord) toDomain() domain.LogEntry {
	return domain.LogEntry{
		ID:        r.ID,
		Message:   r.Message,
		CreatedAt: parseTimestamp(r.CreatedAt),
		UpdatedAt: parseTimestamp(r.UpdatedAt),
	}
}

func (r userRecord) toDomain() domain.User {
	u := domain.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Role:      domain.ParseRole(r.Role),
		Status:    domain.UserStatus(strings.ToLower(r.Status)),
		CreatedAt: parseTimestamp(r.CreatedAt),
	}
	if r.Phone != nil {
		u.Phone = *r.Phone
	}
	return u
}

func (r collaboratorRecord) toDomain() domain.Collaborator {
	return domain.Collaborator{
		Company:      string(r.Company),
		Client:       string(r.Client),
		BusinessUnit: string(r.BusinessUnit),
		Workplace:    string(r.Workplace),
		Name:         string(r.Name),
		Registration: string(r.Registration),
		CPF:          string(r.CPF),
		JobTitle:     string(r.JobTitle),
		Schedule:     string(r.Schedule),
		Hours:        string(r.Hours),
		Shift:        string(r.Shift),
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	"2006-01-02",
}

// parseTimestamp reads the backend's ISO timestamps, which usually carry no
// zone. Unparseable or empty values yield nil.
func parseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.Unix(secs, 0).UTC()
		return &t
	}
	return nil
}
