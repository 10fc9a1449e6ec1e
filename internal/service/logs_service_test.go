package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/listquery"
)

func TestLogsForbiddenYieldsDeniedEmptyPage(t *testing.T) {
	h := newHarness(t)
	h.respond("GET /api/logs", http.StatusForbidden, `{"msg":"Acesso restrito"}`)
	sess := h.open(domain.RoleFinanceiro)

	snap := NewLogsService(h.client, h.notices, h.registry, 20).Mount(context.Background(), sess)

	assert.Equal(t, listquery.StatusFailed, snap.Status)
	assert.True(t, snap.PermissionDenied)
	assert.Empty(t, snap.Records)
	assert.Equal(t, 1, snap.Pages)
	assert.Len(t, h.recorded(), 1, "no automatic retry")
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeError, Message: LogsDeniedMessage}}, h.notices.Drain(sess.Key()))
}

func TestLogsPagesFromTotal(t *testing.T) {
	h := newHarness(t)
	h.respond("GET /api/logs", http.StatusOK, `{"logs":[{"id":1,"mensagem":"login","data_cadastro":"2024-05-10T08:30:00"}],"total":41}`)
	sess := h.open(domain.RoleAdministrador)
	svc := NewLogsService(h.client, h.notices, h.registry, 20)
	ctx := context.Background()

	snap := svc.Mount(ctx, sess)
	assert.Equal(t, 3, snap.Pages)
	assert.Equal(t, "login", snap.Records[0].Message)

	snap, err := svc.ApplyFilters(ctx, sess, map[string]string{"busca": " erro ", "data_de": "2024-05-01", "data_ate": "2024-05-31"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"page": "1", "per_page": "20", "busca": "erro", "data_de": "2024-05-01", "data_ate": "2024-05-31",
	}, h.last().Query)
	assert.Len(t, snap.Chips, 3)

	svc.SetPage(ctx, sess, 3)
	snap, err = svc.RemoveFilter(ctx, sess, "data_de")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, map[string]string{
		"page": "1", "per_page": "20", "busca": "erro", "data_ate": "2024-05-31",
	}, h.last().Query)

	svc.Refresh(ctx, sess)
	assert.Equal(t, "1", h.last().Query["page"])
	assert.Empty(t, svc.ClearFilters(ctx, sess).Chips)
}

func TestLogsWithoutSessionFails(t *testing.T) {
	h := newHarness(t)
	sess := h.open("")

	snap := NewLogsService(h.client, h.notices, h.registry, 20).Mount(context.Background(), sess)
	assert.Equal(t, listquery.StatusFailed, snap.Status)
	assert.Empty(t, h.recorded())
}
