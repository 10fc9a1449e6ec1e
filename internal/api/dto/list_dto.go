package dto

import (
	"github.com/telaviv/ops-dashboard/internal/listquery"
)

// ListResponse is the state of a list screen as sent to the UI.
type ListResponse[T any] struct {
	Status           listquery.Status  `json:"status"`
	Records          []T               `json:"records"`
	Total            int               `json:"total"`
	Page             int               `json:"page"`
	Pages            int               `json:"pages"`
	PageSize         int               `json:"page_size"`
	Draft            map[string]string `json:"draft"`
	Active           map[string]string `json:"active"`
	Chips            []listquery.Chip  `json:"chips"`
	PermissionDenied bool              `json:"permission_denied"`
	Error            string            `json:"error,omitempty"`
}

func newListResponse[R, T any](s listquery.Snapshot[R], mapRecord func(R) T) ListResponse[T] {
	records := make([]T, 0, len(s.Records))
	for _, r := range s.Records {
		records = append(records, mapRecord(r))
	}
	return ListResponse[T]{
		Status:           s.Status,
		Records:          records,
		Total:            s.Total,
		Page:             s.Page,
		Pages:            s.Pages,
		PageSize:         s.PageSize,
		Draft:            s.Draft,
		Active:           s.Active,
		Chips:            s.Chips,
		PermissionDenied: s.PermissionDenied,
		Error:            s.Error,
	}
}
