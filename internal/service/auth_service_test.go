package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telaviv/ops-dashboard/internal/domain"
	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

func TestLoginStoresTokenAndAuthenticates(t *testing.T) {
	h := newHarness(t)
	token := mintToken(t, domain.RoleFinanceiro, time.Now().Add(time.Hour))
	h.respond("POST /api/login", http.StatusOK, fmt.Sprintf(`{"access_token":%q}`, token))

	sess := h.open("")
	svc := NewAuthService(h.client, h.notices, false, nil)

	require.NoError(t, svc.Login(context.Background(), sess, "a@b.com", "x", ""))

	got, ok := sess.CurrentToken()
	assert.True(t, ok)
	assert.Equal(t, token, got)
	assert.Equal(t, domain.RoleFinanceiro, sess.Identity().Role)
	assert.Equal(t, map[string]any{"email": "a@b.com", "password": "x"}, h.last().Body)

	stored, err := h.store.Load(context.Background(), sess.Key())
	require.NoError(t, err)
	assert.Equal(t, token, stored)
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeSuccess, Message: LoginSuccessMessage}}, h.notices.Drain(sess.Key()))
}

func TestLoginValidationMakesNoCall(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		recaptcha string
		want      string
	}{
		{"malformed email", "a@b", "x", "r", EmailInvalidMessage},
		{"missing password", "a@b.com", "", "r", CredentialsMissing},
		{"missing email", "", "x", "r", CredentialsMissing},
		{"missing recaptcha", "a@b.com", "x", "", RecaptchaMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			sess := h.open("")
			svc := NewAuthService(h.client, h.notices, true, nil)

			err := svc.Login(context.Background(), sess, tt.email, tt.password, tt.recaptcha)
			assert.True(t, apperrors.IsValidation(err))
			assert.Empty(t, h.recorded())
			assert.Equal(t, []domain.Notice{{Level: domain.NoticeWarning, Message: tt.want}}, h.notices.Drain(sess.Key()))
		})
	}
}

func TestLoginRefusedShowsBackendMessage(t *testing.T) {
	h := newHarness(t)
	h.respond("POST /api/login", http.StatusUnauthorized, `{"success":false,"message":"Usuário ou senha inválidos"}`)
	sess := h.open("")
	svc := NewAuthService(h.client, h.notices, false, nil)

	err := svc.Login(context.Background(), sess, "a@b.com", "x", "")
	require.Error(t, err)
	assert.False(t, sess.State().Authenticated())
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeWarning, Message: "Usuário ou senha inválidos"}}, h.notices.Drain(sess.Key()))
}

func TestLoginRefusedWithoutMessageShowsStatus(t *testing.T) {
	h := newHarness(t)
	h.respond("POST /api/login", http.StatusTooManyRequests, `{}`)
	sess := h.open("")

	err := NewAuthService(h.client, h.notices, false, nil).Login(context.Background(), sess, "a@b.com", "x", "")
	require.Error(t, err)
	assert.Equal(t, "Erro: 429", h.notices.Drain(sess.Key())[0].Message)
}

func TestLoginWithUndecodableTokenStaysLoggedOut(t *testing.T) {
	h := newHarness(t)
	h.respond("POST /api/login", http.StatusOK, `{"success":true,"access_token":"T"}`)
	sess := h.open("")

	err := NewAuthService(h.client, h.notices, false, nil).Login(context.Background(), sess, "a@b.com", "x", "")
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.False(t, sess.State().Authenticated())

	stored, loadErr := h.store.Load(context.Background(), sess.Key())
	require.NoError(t, loadErr)
	assert.Empty(t, stored)
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeWarning, Message: SessionExpiredMessage}}, h.notices.Drain(sess.Key()))
}

func TestRequestPasswordReset(t *testing.T) {
	h := newHarness(t)
	h.respond("POST /api/recuperarPassword", http.StatusOK, `{"message":"ok"}`)
	sess := h.open("")
	svc := NewAuthService(h.client, h.notices, false, nil)

	assert.True(t, apperrors.IsValidation(svc.RequestPasswordReset(context.Background(), sess, "nope")))
	assert.Empty(t, h.recorded())

	require.NoError(t, svc.RequestPasswordReset(context.Background(), sess, " a@b.com "))
	assert.Equal(t, map[string]any{"email": "a@b.com"}, h.last().Body)
	assert.Equal(t, []domain.Notice{
		{Level: domain.NoticeWarning, Message: RecoverEmailMessage},
		{Level: domain.NoticeSuccess, Message: RecoverSentMessage},
	}, h.notices.Drain(sess.Key()))
}

func TestRequestPasswordResetFailure(t *testing.T) {
	h := newHarness(t)
	h.respond("POST /api/recuperarPassword", http.StatusNotFound, `{}`)
	sess := h.open("")

	err := NewAuthService(h.client, h.notices, false, nil).RequestPasswordReset(context.Background(), sess, "a@b.com")
	require.Error(t, err)
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeError, Message: RecoverFallbackMessage}}, h.notices.Drain(sess.Key()))
}

func TestCheckPassword(t *testing.T) {
	assert.Equal(t, PasswordCriteria{Length: true, Lowercase: true}, CheckPassword("abcdefgh"))
	assert.True(t, CheckPassword("Abcdef1!").Valid())
	assert.False(t, CheckPassword("Abcde1!").Valid(), "seven characters")
	assert.False(t, CheckPassword("Abcdefg1").Valid(), "no special character")
	assert.False(t, CheckPassword("Abcdefg1_").Valid(), "underscore is not in the allowed set")
}

func TestResetPassword(t *testing.T) {
	h := newHarness(t)
	h.respond("POST /api/savenewpassword", http.StatusOK, `{"success":true}`)
	sess := h.open("")
	svc := NewAuthService(h.client, h.notices, false, nil)
	ctx := context.Background()

	assert.True(t, apperrors.IsValidation(svc.ResetPassword(ctx, sess, "code", "weak", "weak")))
	assert.True(t, apperrors.IsValidation(svc.ResetPassword(ctx, sess, "code", "Abcdef1!", "Abcdef1?")))
	assert.Empty(t, h.recorded())

	require.NoError(t, svc.ResetPassword(ctx, sess, "code", "Abcdef1!", "Abcdef1!"))
	assert.Equal(t, map[string]any{"password": "Abcdef1!", "tokena2": "code"}, h.last().Body)
	assert.Equal(t, []domain.Notice{
		{Level: domain.NoticeWarning, Message: PasswordPolicyMessage},
		{Level: domain.NoticeWarning, Message: PasswordMismatchMessage},
		{Level: domain.NoticeSuccess, Message: PasswordChangedMessage},
	}, h.notices.Drain(sess.Key()))
}

func TestResetPasswordUnsuccessful(t *testing.T) {
	h := newHarness(t)
	h.respond("POST /api/savenewpassword", http.StatusOK, `{"success":false}`)
	sess := h.open("")

	err := NewAuthService(h.client, h.notices, false, nil).ResetPassword(context.Background(), sess, "code", "Abcdef1!", "Abcdef1!")
	require.Error(t, err)
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeError, Message: ResetFallbackMessage}}, h.notices.Drain(sess.Key()))
}

func TestLogoutForgetsScreens(t *testing.T) {
	h := newHarness(t)
	h.respond("GET /api/logs", http.StatusOK, `{"logs":[],"total":0}`)
	sess := h.open(domain.RoleAdministrador)
	NewLogsService(h.client, h.notices, h.registry, 20).Mount(context.Background(), sess)
	require.Equal(t, 1, h.registry.Len())

	require.NoError(t, NewAuthService(h.client, h.notices, false, nil).Logout(context.Background(), sess))
	assert.False(t, sess.State().Authenticated())
	assert.Equal(t, 0, h.registry.Len())
}
