package dto

import (
	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/navigation"
	"github.com/telaviv/ops-dashboard/internal/session"
)

// LoginRequest payload for the login form.
type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Recaptcha string `json:"recaptcha"`
}

// RecoverRequest payload for the forgotten password form.
type RecoverRequest struct {
	Email string `json:"email"`
}

// ResetRequest payload for the new password form.
type ResetRequest struct {
	Password     string `json:"password"`
	Confirmation string `json:"confirm_password"`
}

// PasswordCheckRequest asks for the policy checklist of a candidate password.
type PasswordCheckRequest struct {
	Password string `json:"password"`
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	Identity      *domain.Identity `json:"identity,omitempty"`
}

// RedirectResponse tells the UI where to go next.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

// NewSessionResponse maps a session state.
func NewSessionResponse(s session.State) SessionResponse {
	return SessionResponse{Authenticated: s.Authenticated(), Loading: s.Loading, Identity: s.Identity}
}

// ShellResponse is the authenticated frame: greeting, role-filtered menu
// and the home screen quick links.
type ShellResponse struct {
	Greeting  string              `json:"greeting"`
	Username  string              `json:"username"`
	Role      string              `json:"role"`
	RoleLabel string              `json:"role_label"`
	Menu      []navigation.Screen `json:"menu"`
	Links     []navigation.Link   `json:"links"`
}

// ReportResponse is a BI report screen.
type ReportResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	EmbedURL string `json:"embed_url"`
}
