package listquery

import (
	"context"
	"fmt"
	"sync"

	"github.com/telaviv/ops-dashboard/internal/domain"
	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

// Status is the fetch state of a list screen.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusFetching Status = "fetching"
	StatusLoaded   Status = "loaded"
	StatusFailed   Status = "failed"
)

// Field declares one filter of a screen.
type Field struct {
	Name  string
	Label string
}

// Query is what a fetch asks the backend for.
type Query struct {
	Page     int
	PageSize int
	Filters  map[string]string
}

// Page is one backend result. Pages is optional; when zero it is derived
// from Total.
type Page[R any] struct {
	Records []R
	Total   int
	Pages   int
}

// Fetcher loads one page.
type Fetcher[R any] func(ctx context.Context, q Query) (Page[R], error)

// Chip is an active filter rendered as a removable tag.
type Chip struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Config describes a list screen.
type Config[R any] struct {
	Fields         []Field
	PageSize       int
	Fetch          Fetcher[R]
	Notify         func(domain.Notice)
	DeniedMessage  string
	FailureMessage string
}

// Snapshot is a read-only copy of the controller state.
type Snapshot[R any] struct {
	Status           Status            `json:"status"`
	Records          []R               `json:"records"`
	Total            int               `json:"total"`
	Page             int               `json:"page"`
	Pages            int               `json:"pages"`
	PageSize         int               `json:"page_size"`
	Draft            map[string]string `json:"draft"`
	Active           map[string]string `json:"active"`
	Chips            []Chip            `json:"chips"`
	PermissionDenied bool              `json:"permission_denied"`
	Error            string            `json:"error,omitempty"`
}

// Controller drives a filterable, paginated, backend-served list. Every
// fetch is numbered; a response that arrives after a newer fetch started
// is discarded.
type Controller[R any] struct {
	cfg Config[R]

	mu      sync.Mutex
	draft   map[string]string
	active  map[string]string
	page    int
	status  Status
	records []R
	total   int
	pages   int
	denied  bool
	errMsg  string
	seq     uint64
}

// New builds an idle controller at page 1 with every filter empty.
func New[R any](cfg Config[R]) *Controller[R] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	c := &Controller[R]{
		cfg:    cfg,
		draft:  make(map[string]string, len(cfg.Fields)),
		active: make(map[string]string, len(cfg.Fields)),
		page:   1,
		pages:  1,
		status: StatusIdle,
	}
	for _, f := range cfg.Fields {
		c.draft[f.Name] = ""
		c.active[f.Name] = ""
	}
	return c
}

// Mount loads the current page.
func (c *Controller[R]) Mount(ctx context.Context) Snapshot[R] {
	return c.fetch(ctx)
}

// Refresh reloads with the same page and filters.
func (c *Controller[R]) Refresh(ctx context.Context) Snapshot[R] {
	return c.fetch(ctx)
}

// SetDraft edits one draft filter without fetching.
func (c *Controller[R]) SetDraft(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.draft[field]; !ok {
		return apperrors.NewValidationError(fmt.Sprintf("filtro desconhecido: %s", field), nil)
	}
	c.draft[field] = value
	return nil
}

// SetDrafts edits several draft filters at once; unknown fields are an
// error and leave the draft untouched.
func (c *Controller[R]) SetDrafts(values map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for field := range values {
		if _, ok := c.draft[field]; !ok {
			return apperrors.NewValidationError(fmt.Sprintf("filtro desconhecido: %s", field), nil)
		}
	}
	for field, value := range values {
		c.draft[field] = value
	}
	return nil
}

// Apply promotes the draft filters to active and fetches page 1.
func (c *Controller[R]) Apply(ctx context.Context) Snapshot[R] {
	c.mu.Lock()
	for k, v := range c.draft {
		c.active[k] = v
	}
	c.page = 1
	c.mu.Unlock()
	return c.fetch(ctx)
}

// RemoveChip clears one field in both draft and active filters and
// fetches page 1. Other filters keep their values.
func (c *Controller[R]) RemoveChip(ctx context.Context, field string) (Snapshot[R], error) {
	c.mu.Lock()
	if _, ok := c.active[field]; !ok {
		c.mu.Unlock()
		return c.Snapshot(), apperrors.NewValidationError(fmt.Sprintf("filtro desconhecido: %s", field), nil)
	}
	c.draft[field] = ""
	c.active[field] = ""
	c.page = 1
	c.mu.Unlock()
	return c.fetch(ctx), nil
}

// ClearAll empties every filter and fetches page 1.
func (c *Controller[R]) ClearAll(ctx context.Context) Snapshot[R] {
	c.mu.Lock()
	for k := range c.draft {
		c.draft[k] = ""
		c.active[k] = ""
	}
	c.page = 1
	c.mu.Unlock()
	return c.fetch(ctx)
}

// SetPage moves to page, clamped to the known page range, and fetches.
func (c *Controller[R]) SetPage(ctx context.Context, page int) Snapshot[R] {
	c.mu.Lock()
	if c.status == StatusLoaded {
		c.page = ClampPage(page, c.pages)
	} else {
		c.page = ClampPage(page, page)
	}
	c.mu.Unlock()
	return c.fetch(ctx)
}

// Chips lists the non-empty active filters in declaration order.
func (c *Controller[R]) Chips() []Chip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chipsLocked()
}

// Snapshot copies the current state.
func (c *Controller[R]) Snapshot() Snapshot[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[R]) fetch(ctx context.Context) Snapshot[R] {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.status = StatusFetching
	query := Query{Page: c.page, PageSize: c.cfg.PageSize, Filters: copyMap(c.active)}
	c.mu.Unlock()

	result, err := c.cfg.Fetch(ctx, query)

	c.mu.Lock()
	if seq != c.seq {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}

	var notice *domain.Notice
	switch {
	case err == nil:
		c.records = result.Records
		if c.records == nil {
			c.records = []R{}
		}
		c.total = result.Total
		c.pages = result.Pages
		if c.pages <= 0 {
			c.pages = PageCount(result.Total, c.cfg.PageSize)
		}
		c.denied = false
		c.errMsg = ""
		c.status = StatusLoaded
	case apperrors.IsForbidden(err):
		c.clearPageLocked()
		c.denied = true
		c.errMsg = c.cfg.DeniedMessage
		c.status = StatusFailed
		notice = &domain.Notice{Level: domain.NoticeError, Message: c.cfg.DeniedMessage}
	default:
		c.clearPageLocked()
		c.denied = false
		c.errMsg = c.failureMessage(err)
		c.status = StatusFailed
		notice = &domain.Notice{Level: domain.NoticeError, Message: c.errMsg}
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if notice != nil && c.cfg.Notify != nil {
		c.cfg.Notify(*notice)
	}
	return snap
}

func (c *Controller[R]) failureMessage(err error) string {
	if c.cfg.FailureMessage != "" {
		return c.cfg.FailureMessage
	}
	return apperrors.ToDomainError(err).Message
}

func (c *Controller[R]) clearPageLocked() {
	c.records = []R{}
	c.total = 0
	c.pages = 1
}

func (c *Controller[R]) chipsLocked() []Chip {
	chips := make([]Chip, 0, len(c.cfg.Fields))
	for _, f := range c.cfg.Fields {
		if v := c.active[f.Name]; v != "" {
			chips = append(chips, Chip{Field: f.Name, Label: f.Label, Value: v})
		}
	}
	return chips
}

func (c *Controller[R]) snapshotLocked() Snapshot[R] {
	records := make([]R, len(c.records))
	copy(records, c.records)
	return Snapshot[R]{
		Status:           c.status,
		Records:          records,
		Total:            c.total,
		Page:             c.page,
		Pages:            c.pages,
		PageSize:         c.cfg.PageSize,
		Draft:            copyMap(c.draft),
		Active:           copyMap(c.active),
		Chips:            c.chipsLocked(),
		PermissionDenied: c.denied,
		Error:            c.errMsg,
	}
}

func copyMap(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
