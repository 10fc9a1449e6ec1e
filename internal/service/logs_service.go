package service

import (
	"context"
	"strings"

	"github.com/telaviv/ops-dashboard/internal/backend"
	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/listquery"
	"github.com/telaviv/ops-dashboard/internal/session"
)

// Logs screen messages.
const (
	LogsDeniedMessage  = "Você não tem permissão para acessar os logs."
	LogsFailureMessage = "Não foi possível carregar os logs."
)

const logsScreen = "logs"

// LogFields are the audit log filters, in chip order.
var LogFields = []listquery.Field{
	{Name: "busca", Label: "Busca"},
	{Name: "data_de", Label: "De"},
	{Name: "data_ate", Label: "Até"},
}

// LogsService drives the audit log screen.
type LogsService struct {
	client   *backend.Client
	notices  *NotificationService
	registry *ScreenRegistry
	pageSize int
}

// NewLogsService builds the service.
func NewLogsService(client *backend.Client, notices *NotificationService, registry *ScreenRegistry, pageSize int) *LogsService {
	return &LogsService{
		client:   client,
		notices:  notices,
		registry: registry,
		pageSize: pageSize,
	}
}

func (s *LogsService) list(sess *session.Session) *listquery.Controller[domain.LogEntry] {
	return screenState(s.registry, sess.Key(), logsScreen, func() *listquery.Controller[domain.LogEntry] {
		return listquery.New(listquery.Config[domain.LogEntry]{
			Fields:         LogFields,
			PageSize:       s.pageSize,
			Fetch:          s.fetch,
			Notify:         s.notices.Notify(sess.Key()),
			DeniedMessage:  LogsDeniedMessage,
			FailureMessage: LogsFailureMessage,
		})
	})
}

func (s *LogsService) fetch(ctx context.Context, q listquery.Query) (listquery.Page[domain.LogEntry], error) {
	sess := sessionFrom(ctx)
	token, err := bearer(sess)
	if err != nil {
		return listquery.Page[domain.LogEntry]{}, err
	}

	page, err := s.client.ListLogs(ctx, token, backend.LogQuery{
		Page:    q.Page,
		PerPage: q.PageSize,
		Search:  strings.TrimSpace(q.Filters["busca"]),
		From:    q.Filters["data_de"],
		To:      q.Filters["data_ate"],
	})
	if err != nil {
		dropOnUnauthorized(ctx, sess, err)
		return listquery.Page[domain.LogEntry]{}, err
	}
	return listquery.Page[domain.LogEntry]{Records: page.Entries, Total: page.Total}, nil
}

// Mount loads the current page of the screen.
func (s *LogsService) Mount(ctx context.Context, sess *session.Session) listquery.Snapshot[domain.LogEntry] {
	return s.list(sess).Mount(withSession(ctx, sess))
}

// Refresh reloads the current page and filters.
func (s *LogsService) Refresh(ctx context.Context, sess *session.Session) listquery.Snapshot[domain.LogEntry] {
	return s.list(sess).Refresh(withSession(ctx, sess))
}

// SetPage moves to page.
func (s *LogsService) SetPage(ctx context.Context, sess *session.Session, page int) listquery.Snapshot[domain.LogEntry] {
	return s.list(sess).SetPage(withSession(ctx, sess), page)
}

// ApplyFilters merges values into the draft and applies it. Draft fields
// absent from values keep their current value.
func (s *LogsService) ApplyFilters(ctx context.Context, sess *session.Session, values map[string]string) (listquery.Snapshot[domain.LogEntry], error) {
	list := s.list(sess)
	if err := list.SetDrafts(values); err != nil {
		return list.Snapshot(), err
	}
	return list.Apply(withSession(ctx, sess)), nil
}

// RemoveFilter clears one applied filter.
func (s *LogsService) RemoveFilter(ctx context.Context, sess *session.Session, field string) (listquery.Snapshot[domain.LogEntry], error) {
	return s.list(sess).RemoveChip(withSession(ctx, sess), field)
}

// ClearFilters empties every filter.
func (s *LogsService) ClearFilters(ctx context.Context, sess *session.Session) listquery.Snapshot[domain.LogEntry] {
	return s.list(sess).ClearAll(withSession(ctx, sess))
}
