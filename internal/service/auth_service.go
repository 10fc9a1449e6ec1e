package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/telaviv/ops-dashboard/internal/backend"
	"github.com/telaviv/ops-dashboard/internal/session"
	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

// Login and password messages.
const (
	EmailInvalidMessage     = "Por favor, corrija o e-mail antes de continuar."
	CredentialsMissing      = "Por favor, preencha e-mail e senha."
	RecaptchaMissing        = "Por favor, complete o reCAPTCHA."
	LoginSuccessMessage     = "Login bem-sucedido! Redirecionando..."
	RecoverEmailMessage     = "Por favor, preencha um e-mail válido."
	RecoverSentMessage      = "E-mail de recuperação enviado! Verifique sua caixa de entrada."
	RecoverFallbackMessage  = "Erro ao enviar e-mail de recuperação."
	PasswordConnectionError = "Erro de conexão. Tente novamente mais tarde."
	PasswordPolicyMessage   = "A senha deve atender a todos os critérios de segurança."
	PasswordMismatchMessage = "As senhas não coincidem."
	PasswordChangedMessage  = "Senha alterada com sucesso! Você será redirecionado."
	ResetFallbackMessage    = "Erro ao redefinir a senha. O link pode ter expirado."
	ResetCodeMissingMessage = "Link de redefinição inválido."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// PasswordCriteria is the checklist shown next to the new password field.
type PasswordCriteria struct {
	Length    bool `json:"length"`
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Number    bool `json:"number"`
	Special   bool `json:"special_char"`
}

// Valid reports whether every criterion holds.
func (c PasswordCriteria) Valid() bool {
	return c.Length && c.Uppercase && c.Lowercase && c.Number && c.Special
}

// CheckPassword evaluates the password policy.
func CheckPassword(password string) PasswordCriteria {
	c := PasswordCriteria{Length: utf8.RuneCountInString(password) >= 8}
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			c.Uppercase = true
		case r >= 'a' && r <= 'z':
			c.Lowercase = true
		case r >= '0' && r <= '9':
			c.Number = true
		case strings.ContainsRune("!@#$%^&*()", r):
			c.Special = true
		}
	}
	return c
}

// AuthService runs the login and password recovery flows against the
// backend and hands accepted tokens to the session.
type AuthService struct {
	client           *backend.Client
	notices          *NotificationService
	requireRecaptcha bool
	logger           *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(client *backend.Client, notices *NotificationService, requireRecaptcha bool, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		client:           client,
		notices:          notices,
		requireRecaptcha: requireRecaptcha,
		logger:           logger,
	}
}

// Login validates the form, exchanges the credentials for a token and
// stores it in the session. The session is authenticated on success.
func (s *AuthService) Login(ctx context.Context, sess *session.Session, email, password, recaptcha string) error {
	key := sess.Key()
	email = strings.TrimSpace(email)

	switch {
	case email != "" && !ValidEmail(email):
		return s.reject(key, EmailInvalidMessage)
	case email == "" || password == "":
		return s.reject(key, CredentialsMissing)
	case s.requireRecaptcha && recaptcha == "":
		return s.reject(key, RecaptchaMissing)
	}

	resp, err := s.client.Login(ctx, email, password, recaptcha)
	if err != nil {
		if apperrors.IsTransport(err) {
			s.notices.Error(key, apperrors.ConnectivityMessage)
			return err
		}
		msg := orDefault(backend.BackendMessage(err), fmt.Sprintf("Erro: %d", backend.StatusCode(err)))
		s.notices.Warning(key, msg)
		return apperrors.NewBusinessError(msg, apperrors.ToDomainError(err).HTTPStatus)
	}
	if resp.AccessToken == "" {
		msg := orDefault(resp.Message, "Erro: 200")
		s.notices.Warning(key, msg)
		return apperrors.NewUnauthorized(msg)
	}

	if err := sess.Login(ctx, resp.AccessToken); err != nil {
		s.logger.Error("failed to store credential token", zap.String("session_key", key), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	if !sess.State().Authenticated() {
		// The invalidation notice has already been queued.
		return apperrors.NewUnauthorized(SessionExpiredMessage)
	}
	s.notices.Success(key, LoginSuccessMessage)
	return nil
}

// RequestPasswordReset asks the backend to mail a reset link.
func (s *AuthService) RequestPasswordReset(ctx context.Context, sess *session.Session, email string) error {
	key := sess.Key()
	email = strings.TrimSpace(email)
	if email == "" || !ValidEmail(email) {
		return s.reject(key, RecoverEmailMessage)
	}

	if _, err := s.client.RequestPasswordReset(ctx, email); err != nil {
		return s.passwordFailure(key, err, RecoverFallbackMessage)
	}
	s.notices.Success(key, RecoverSentMessage)
	return nil
}

// ResetPassword sets a new password with the code from the reset link.
func (s *AuthService) ResetPassword(ctx context.Context, sess *session.Session, code, password, confirmation string) error {
	key := sess.Key()
	if strings.TrimSpace(code) == "" {
		return s.reject(key, ResetCodeMissingMessage)
	}
	if !CheckPassword(password).Valid() {
		return s.reject(key, PasswordPolicyMessage)
	}
	if password != confirmation {
		return s.reject(key, PasswordMismatchMessage)
	}

	resp, err := s.client.SaveNewPassword(ctx, password, code)
	if err != nil {
		return s.passwordFailure(key, err, ResetFallbackMessage)
	}
	if !resp.Success {
		msg := orDefault(resp.Message, ResetFallbackMessage)
		s.notices.Error(key, msg)
		return apperrors.NewBusinessError(msg, 0)
	}
	s.notices.Success(key, PasswordChangedMessage)
	return nil
}

// Logout drops the session credential.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	if err := sess.Logout(ctx); err != nil {
		s.logger.Warn("failed to delete stored token", zap.String("session_key", sess.Key()), zap.Error(err))
		return err
	}
	return nil
}

func (s *AuthService) reject(key, msg string) error {
	s.notices.Warning(key, msg)
	return apperrors.NewValidationError(msg, nil)
}

func (s *AuthService) passwordFailure(key string, err error, fallback string) error {
	if apperrors.IsTransport(err) {
		s.notices.Error(key, PasswordConnectionError)
		return err
	}
	msg := orDefault(backend.BackendMessage(err), fallback)
	s.notices.Error(key, msg)
	return apperrors.NewBusinessError(msg, apperrors.ToDomainError(err).HTTPStatus)
}
