package dto

import (
	"time"

	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/listquery"
)

// LogResponse is one audit log row.
type LogResponse struct {
	ID        int64      `json:"id"`
	Message   string     `json:"mensagem"`
	CreatedAt *time.Time `json:"data_cadastro"`
	UpdatedAt *time.Time `json:"update_cadastro"`
}

// NewLogResponse maps a domain log entry.
func NewLogResponse(e domain.LogEntry) LogResponse {
	return LogResponse{ID: e.ID, Message: e.Message, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// NewLogListResponse maps a logs screen snapshot.
func NewLogListResponse(s listquery.Snapshot[domain.LogEntry]) ListResponse[LogResponse] {
	return newListResponse(s, NewLogResponse)
}
