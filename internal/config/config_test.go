package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_DRIVER", "")
	t.Setenv("BACKEND_API_ROOT", "https://api.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SessionDriverMemory, cfg.Session.Driver)
	assert.Equal(t, "https://api.example.com", cfg.Backend.APIRoot)
	assert.Equal(t, 10, cfg.Lists.UsersPageSize)
	assert.Equal(t, 20, cfg.Lists.LogsPageSize)
	assert.Equal(t, "/logado", cfg.Auth.HomePath)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadReportsAndDriver(t *testing.T) {
	t.Setenv("SESSION_DRIVER", "Redis")
	t.Setenv("REPORT_URL_EFETIVO", "https://bi.example.com/efetivo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SessionDriverRedis, cfg.Session.Driver)
	assert.Equal(t, "https://bi.example.com/efetivo", cfg.Navigation.Reports["efetivo"])
	_, ok := cfg.Navigation.Reports["caixa"]
	assert.False(t, ok)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("SESSION_DRIVER", "etcd")

	_, err := Load()
	require.Error(t, err)
}

func TestDurations(t *testing.T) {
	assert.Equal(t, 30*time.Second, BackendConfig{}.Timeout())
	assert.Equal(t, 5*time.Second, BackendConfig{TimeoutSeconds: 5}.Timeout())
	assert.Zero(t, AppConfig{}.RequestTimeout())
	assert.Equal(t, 2*time.Hour, SessionConfig{RedisTTLHours: 2}.RedisTTL())
	assert.Equal(t, time.UTC, ExportConfig{Timezone: "Not/AZone"}.Location())
}
