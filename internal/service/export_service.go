package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/telaviv/ops-dashboard/internal/backend"
	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/session"
	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

// Export messages.
const (
	WindowIncompleteMessage = "Por favor, preencha ambas as datas ou deixe as duas em branco para o padrão."
	WindowInvertedMessage   = "A data de início não pode ser posterior à data de fim."
	WindowInvalidMessage    = "Data inválida. Use o formato AAAA-MM-DD."
	ExportFetchFallback     = "Ocorreu um erro ao buscar os dados."
	ExportEmptyMessage      = "Não há dados para exportar."
)

const (
	exportScreen     = "nexti"
	dateInputLayout  = "2006-01-02"
	windowDayLayout  = "02012006"
	generatedAtStamp = "02/01/2006 15:04:05"
)

// ExportWindow is the optional date window of the HR snapshot, as entered
// on the form (YYYY-MM-DD). Both empty means the current state.
type ExportWindow struct {
	Start  string
	Finish string
}

// WindowTooLongMessage is shown when the window exceeds maxDays.
func WindowTooLongMessage(maxDays int) string {
	return fmt.Sprintf("O intervalo entre as datas não pode ser maior que %d dias.", maxDays+1)
}

// ValidateWindow checks the window and returns the backend payload values
// (DDMMYYYY000000 and DDMMYYYY235959). Both are empty for an empty window.
func ValidateWindow(w ExportWindow, maxDays int) (start, finish string, err error) {
	w.Start = strings.TrimSpace(w.Start)
	w.Finish = strings.TrimSpace(w.Finish)
	if w.Start == "" && w.Finish == "" {
		return "", "", nil
	}
	if w.Start == "" || w.Finish == "" {
		return "", "", apperrors.NewValidationError(WindowIncompleteMessage, nil)
	}

	from, err := time.Parse(dateInputLayout, w.Start)
	if err != nil {
		return "", "", apperrors.NewValidationError(WindowInvalidMessage, map[string]any{"start": w.Start})
	}
	to, err := time.Parse(dateInputLayout, w.Finish)
	if err != nil {
		return "", "", apperrors.NewValidationError(WindowInvalidMessage, map[string]any{"finish": w.Finish})
	}
	if from.After(to) {
		return "", "", apperrors.NewValidationError(WindowInvertedMessage, nil)
	}
	if days := int(math.Ceil(to.Sub(from).Hours() / 24)); days > maxDays {
		return "", "", apperrors.NewValidationError(WindowTooLongMessage(maxDays), map[string]any{"days": days})
	}
	return from.Format(windowDayLayout) + "000000", to.Format(windowDayLayout) + "235959", nil
}

type exportPreview struct {
	mu   sync.Mutex
	rows []domain.Collaborator
}

func (p *exportPreview) set(rows []domain.Collaborator) {
	p.mu.Lock()
	p.rows = rows
	p.mu.Unlock()
}

func (p *exportPreview) get() []domain.Collaborator {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Collaborator(nil), p.rows...)
}

// ExportService runs the HR collaborator export.
type ExportService struct {
	client   *backend.Client
	notices  *NotificationService
	registry *ScreenRegistry
	maxDays  int
	loc      *time.Location
	now      func() time.Time
}

// ExportOption customizes the export service.
type ExportOption func(*ExportService)

// WithExportClock replaces the clock that stamps generated rows.
func WithExportClock(now func() time.Time) ExportOption {
	return func(s *ExportService) {
		s.now = now
	}
}

// NewExportService builds the service. Generation times are rendered in loc.
func NewExportService(client *backend.Client, notices *NotificationService, registry *ScreenRegistry, maxDays int, loc *time.Location, opts ...ExportOption) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	if maxDays <= 0 {
		maxDays = 30
	}
	s := &ExportService{
		client:   client,
		notices:  notices,
		registry: registry,
		maxDays:  maxDays,
		loc:      loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ExportService) preview(sess *session.Session) *exportPreview {
	return screenState(s.registry, sess.Key(), exportScreen, func() *exportPreview {
		return &exportPreview{}
	})
}

// Generate fetches the snapshot for the window, stamps every row with the
// generation time and keeps it as the session's preview.
func (s *ExportService) Generate(ctx context.Context, sess *session.Session, w ExportWindow) ([]domain.Collaborator, error) {
	key := sess.Key()
	start, finish, err := ValidateWindow(w, s.maxDays)
	if err != nil {
		s.notices.Warning(key, apperrors.ToDomainError(err).Message)
		return nil, err
	}

	preview := s.preview(sess)
	preview.set(nil)

	token, err := bearer(sess)
	if err != nil {
		s.notices.Warning(key, SessionExpiredMessage)
		return nil, err
	}

	rows, err := s.client.CollaboratorsSnapshot(ctx, token, start, finish)
	if err != nil {
		dropOnUnauthorized(ctx, sess, err)
		msg := backend.BackendMessage(err)
		switch {
		case apperrors.IsTransport(err):
			msg = apperrors.ConnectivityMessage
		case msg == "":
			msg = ExportFetchFallback
		}
		s.notices.Warning(key, "Erro: "+msg)
		return nil, err
	}

	stamp := s.now().In(s.loc).Format(generatedAtStamp)
	for i := range rows {
		rows[i].GeneratedAt = stamp
	}
	preview.set(rows)
	return rows, nil
}

// Preview returns the rows of the last generation.
func (s *ExportService) Preview(sess *session.Session) []domain.Collaborator {
	return s.preview(sess).get()
}

// Download renders the session's preview as a spreadsheet.
func (s *ExportService) Download(sess *session.Session) ([]byte, error) {
	rows := s.preview(sess).get()
	if len(rows) == 0 {
		s.notices.Warning(sess.Key(), ExportEmptyMessage)
		return nil, apperrors.NewValidationError(ExportEmptyMessage, nil)
	}
	data, err := BuildWorkbook(rows)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return data, nil
}
