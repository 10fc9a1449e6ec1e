package service

import (
	"context"

	"github.com/telaviv/ops-dashboard/internal/backend"
	"github.com/telaviv/ops-dashboard/internal/session"
	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

// ReasonBackendRejected marks a token dropped after a 401 from the backend.
const ReasonBackendRejected = "backend rejected credential"

type sessionCtxKey struct{}

// withSession attaches the caller's session so list fetchers running inside
// a shared controller use the token of the request that triggered them.
func withSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*session.Session)
	return s
}

// bearer returns the current token or an unauthorized error.
func bearer(s *session.Session) (string, error) {
	if s == nil {
		return "", apperrors.NewUnauthorized(backend.UnauthorizedMessage)
	}
	token, ok := s.CurrentToken()
	if !ok {
		return "", apperrors.NewUnauthorized(backend.UnauthorizedMessage)
	}
	return token, nil
}

// dropOnUnauthorized invalidates the session when the backend refused its token.
func dropOnUnauthorized(ctx context.Context, s *session.Session, err error) {
	if s != nil && apperrors.IsUnauthorized(err) {
		s.Invalidate(ctx, ReasonBackendRejected)
	}
}
