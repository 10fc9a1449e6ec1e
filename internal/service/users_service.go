package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/telaviv/ops-dashboard/internal/backend"
	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/listquery"
	"github.com/telaviv/ops-dashboard/internal/session"
	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

// Users screen messages.
const (
	UsersFailureMessage      = "Não foi possível carregar os usuários."
	UsersDeniedMessage       = "Você não tem permissão para acessar os usuários."
	UserRequiredMessage      = "Nome, e-mail e perfil são obrigatórios."
	UserSaveFallbackMessage  = "Ocorreu um erro."
	UserSaveTransportMessage = "Erro de conexão ao salvar usuário."
	UserCreatedMessage       = "Usuário criado!"
	UserUpdatedMessage       = "Usuário atualizado!"
	UserSaveBusyMessage      = "Aguarde o término do salvamento."
	StatusFallbackMessage    = "Ocorreu um erro desconhecido."
	StatusTransportMessage   = "Falha de conexão. Não foi possível atualizar o status."
)

const usersScreen = "usuarios"

// UserFields are the Users screen filters, in chip order.
var UserFields = []listquery.Field{
	{Name: "busca", Label: "Busca"},
	{Name: "status", Label: "Status"},
	{Name: "role", Label: "Perfil"},
}

// UserForm is the create/edit form. ID is zero when creating.
type UserForm struct {
	ID       int64
	Username string
	Email    string
	Phone    string
	Role     domain.Role
	Active   bool
}

// SaveResult reports a save attempt. The form is echoed back normalized so
// the caller can retry without re-entering it.
type SaveResult struct {
	Saved   bool
	Form    UserForm
	Message string
}

type usersScreenState struct {
	list       *listquery.Controller[domain.User]
	submitMu   sync.Mutex
	submitting bool
}

func (s *usersScreenState) begin() bool {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

func (s *usersScreenState) end() {
	s.submitMu.Lock()
	s.submitting = false
	s.submitMu.Unlock()
}

// UsersService drives the user administration screen.
type UsersService struct {
	client   *backend.Client
	notices  *NotificationService
	registry *ScreenRegistry
	pageSize int
	logger   *zap.Logger
}

// NewUsersService builds the service.
func NewUsersService(client *backend.Client, notices *NotificationService, registry *ScreenRegistry, pageSize int, logger *zap.Logger) *UsersService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsersService{
		client:   client,
		notices:  notices,
		registry: registry,
		pageSize: pageSize,
		logger:   logger,
	}
}

func (s *UsersService) screen(sess *session.Session) *usersScreenState {
	return screenState(s.registry, sess.Key(), usersScreen, func() *usersScreenState {
		return &usersScreenState{
			list: listquery.New(listquery.Config[domain.User]{
				Fields:         UserFields,
				PageSize:       s.pageSize,
				Fetch:          s.fetch,
				Notify:         s.notices.Notify(sess.Key()),
				DeniedMessage:  UsersDeniedMessage,
				FailureMessage: UsersFailureMessage,
			}),
		}
	})
}

func (s *UsersService) fetch(ctx context.Context, q listquery.Query) (listquery.Page[domain.User], error) {
	sess := sessionFrom(ctx)
	token, err := bearer(sess)
	if err != nil {
		return listquery.Page[domain.User]{}, err
	}

	page, err := s.client.ListUsers(ctx, token, backend.UserQuery{
		Page:    q.Page,
		PerPage: q.PageSize,
		Search:  strings.TrimSpace(q.Filters["busca"]),
		Status:  q.Filters["status"],
		Role:    strings.ToLower(q.Filters["role"]),
	})
	if err != nil {
		dropOnUnauthorized(ctx, sess, err)
		return listquery.Page[domain.User]{}, err
	}
	return listquery.Page[domain.User]{Records: page.Users, Pages: page.TotalPages}, nil
}

// Mount loads the current page of the screen.
func (s *UsersService) Mount(ctx context.Context, sess *session.Session) listquery.Snapshot[domain.User] {
	return s.screen(sess).list.Mount(withSession(ctx, sess))
}

// Snapshot returns the screen state without fetching.
func (s *UsersService) Snapshot(sess *session.Session) listquery.Snapshot[domain.User] {
	return s.screen(sess).list.Snapshot()
}

// SetPage moves to page.
func (s *UsersService) SetPage(ctx context.Context, sess *session.Session, page int) listquery.Snapshot[domain.User] {
	return s.screen(sess).list.SetPage(withSession(ctx, sess), page)
}

// ApplyFilters merges values into the draft and applies it. Draft fields
// absent from values keep their current value.
func (s *UsersService) ApplyFilters(ctx context.Context, sess *session.Session, values map[string]string) (listquery.Snapshot[domain.User], error) {
	list := s.screen(sess).list
	if err := list.SetDrafts(values); err != nil {
		return list.Snapshot(), err
	}
	return list.Apply(withSession(ctx, sess)), nil
}

// RemoveFilter clears one applied filter.
func (s *UsersService) RemoveFilter(ctx context.Context, sess *session.Session, field string) (listquery.Snapshot[domain.User], error) {
	return s.screen(sess).list.RemoveChip(withSession(ctx, sess), field)
}

// ClearFilters empties every filter.
func (s *UsersService) ClearFilters(ctx context.Context, sess *session.Session) listquery.Snapshot[domain.User] {
	return s.screen(sess).list.ClearAll(withSession(ctx, sess))
}

// AssignableRoles lists the roles the caller may grant. Failures yield an
// empty list.
func (s *UsersService) AssignableRoles(ctx context.Context, sess *session.Session) []domain.Role {
	identity := sess.Identity()
	token, err := bearer(sess)
	if err != nil || identity == nil {
		return []domain.Role{}
	}
	roles, err := s.client.ListRoles(ctx, token)
	if err != nil {
		dropOnUnauthorized(ctx, sess, err)
		s.logger.Warn("failed to load roles", zap.Error(err))
		return []domain.Role{}
	}
	return domain.AssignableRoles(identity.Role, roles)
}

// Save creates or updates a user and refreshes the list on success. Only
// one save per screen runs at a time.
func (s *UsersService) Save(ctx context.Context, sess *session.Session, form UserForm) (SaveResult, error) {
	key := sess.Key()
	form.Phone = domain.FormatPhone(form.Phone)
	form.Role = domain.ParseRole(string(form.Role))
	result := SaveResult{Form: form}

	if strings.TrimSpace(form.Username) == "" || strings.TrimSpace(form.Email) == "" || form.Role == "" {
		s.notices.Warning(key, UserRequiredMessage)
		result.Message = UserRequiredMessage
		return result, apperrors.NewValidationError(UserRequiredMessage, nil)
	}

	state := s.screen(sess)
	if !state.begin() {
		result.Message = UserSaveBusyMessage
		return result, apperrors.NewConflict(UserSaveBusyMessage, nil)
	}
	defer state.end()

	token, err := bearer(sess)
	if err != nil {
		s.notices.Warning(key, SessionExpiredMessage)
		result.Message = SessionExpiredMessage
		return result, err
	}

	input := backend.UserInput{
		Username: form.Username,
		Email:    form.Email,
		Phone:    form.Phone,
		Role:     string(form.Role),
		Status:   string(domain.StatusFromBool(form.Active)),
	}
	var resp backend.MessageResponse
	fallback := UserCreatedMessage
	if form.ID == 0 {
		resp, err = s.client.CreateUser(ctx, token, input)
	} else {
		fallback = UserUpdatedMessage
		resp, err = s.client.UpdateUser(ctx, token, form.ID, input)
	}
	if err != nil {
		dropOnUnauthorized(ctx, sess, err)
		result.Message = s.reportFailure(key, err, UserSaveFallbackMessage, UserSaveTransportMessage)
		return result, err
	}

	result.Saved = true
	result.Message = orDefault(resp.Text(), fallback)
	s.notices.Success(key, result.Message)
	state.list.Refresh(withSession(ctx, sess))
	return result, nil
}

// ToggleStatus flips a user between ativo and inativo, then reloads the
// list at the current page and filters.
func (s *UsersService) ToggleStatus(ctx context.Context, sess *session.Session, id int64, current domain.UserStatus) (listquery.Snapshot[domain.User], error) {
	key := sess.Key()
	list := s.screen(sess).list

	token, err := bearer(sess)
	if err != nil {
		s.notices.Warning(key, SessionExpiredMessage)
		return list.Snapshot(), err
	}
	if _, err := s.client.SetUserStatus(ctx, token, id, current.Toggled()); err != nil {
		dropOnUnauthorized(ctx, sess, err)
		s.reportFailure(key, err, StatusFallbackMessage, StatusTransportMessage)
		return list.Snapshot(), err
	}
	return list.Refresh(withSession(ctx, sess)), nil
}

// reportFailure turns a backend error into a notice and returns its text.
// Refusals surface the backend message as a warning; transport failures a
// connectivity error.
func (s *UsersService) reportFailure(key string, err error, fallback, transport string) string {
	if apperrors.IsTransport(err) {
		s.notices.Error(key, transport)
		return transport
	}
	msg := orDefault(backend.BackendMessage(err), fallback)
	s.notices.Warning(key, msg)
	return msg
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
