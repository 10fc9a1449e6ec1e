package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the dashboard.
type Config struct {
	App        AppConfig
	Backend    BackendConfig
	Session    SessionConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Lists      ListsConfig
	Export     ExportConfig
	Navigation NavigationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig points at the REST backend the dashboard fronts.
type BackendConfig struct {
	APIRoot        string
	TimeoutSeconds int
}

// Session storage drivers.
const (
	SessionDriverMemory   = "memory"
	SessionDriverRedis    = "redis"
	SessionDriverPostgres = "postgres"
)

// SessionConfig selects where credential tokens are persisted.
type SessionConfig struct {
	Driver         string
	CookieName     string
	CookieSecure   bool
	SealSecret     string
	RedisKeyPrefix string
	RedisTTLHours  int
	CacheSize      int
	CredentialsDir string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines login and landing behavior.
type AuthConfig struct {
	RequireRecaptcha bool
	LoginPath        string
	HomePath         string
}

// ListsConfig sets the page sizes of the list screens.
type ListsConfig struct {
	UsersPageSize int
	LogsPageSize  int
}

// ExportConfig controls the collaborator spreadsheet export.
type ExportConfig struct {
	Timezone      string
	MaxWindowDays int
}

// NavigationConfig points at the screen catalog and the BI embeds.
type NavigationConfig struct {
	CatalogFile string
	Reports     map[string]string
}

// reportKeys are the BI report screens whose embed URL comes from the environment.
var reportKeys = []string{
	"efetivo",
	"maracana",
	"beneficios",
	"caixa",
	"rentabilidade",
	"provisionamento",
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	driver := strings.ToLower(getEnv("SESSION_DRIVER", SessionDriverMemory))
	switch driver {
	case SessionDriverMemory, SessionDriverRedis, SessionDriverPostgres:
	default:
		return nil, fmt.Errorf("invalid SESSION_DRIVER: %q", driver)
	}

	reports := make(map[string]string, len(reportKeys))
	for _, key := range reportKeys {
		if url := os.Getenv("REPORT_URL_" + strings.ToUpper(key)); url != "" {
			reports[key] = url
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "telaviv-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Backend: BackendConfig{
			APIRoot:        strings.TrimRight(getEnv("BACKEND_API_ROOT", "http://127.0.0.1:5000"), "/"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 30),
		},
		Session: SessionConfig{
			Driver:         driver,
			CookieName:     getEnv("SESSION_COOKIE_NAME", "telaviv_sid"),
			CookieSecure:   getEnvAsBool("SESSION_COOKIE_SECURE", false),
			SealSecret:     os.Getenv("SESSION_SEAL_SECRET"),
			RedisKeyPrefix: getEnv("SESSION_REDIS_PREFIX", "telaviv:"),
			RedisTTLHours:  getEnvAsInt("SESSION_REDIS_TTL_HOURS", 24),
			CacheSize:      getEnvAsInt("SESSION_SCREEN_CACHE_SIZE", 1024),
			CredentialsDir: os.Getenv("TELAVIV_CREDENTIALS_DIR"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			RequireRecaptcha: getEnvAsBool("AUTH_REQUIRE_RECAPTCHA", true),
			LoginPath:        getEnv("AUTH_LOGIN_PATH", "/"),
			HomePath:         getEnv("AUTH_HOME_PATH", "/logado"),
		},
		Lists: ListsConfig{
			UsersPageSize: getEnvAsInt("USERS_PAGE_SIZE", 10),
			LogsPageSize:  getEnvAsInt("LOGS_PAGE_SIZE", 20),
		},
		Export: ExportConfig{
			Timezone:      getEnv("EXPORT_TIMEZONE", "America/Sao_Paulo"),
			MaxWindowDays: getEnvAsInt("EXPORT_MAX_WINDOW_DAYS", 30),
		},
		Navigation: NavigationConfig{
			CatalogFile: os.Getenv("NAVIGATION_CATALOG_FILE"),
			Reports:     reports,
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call backend timeout.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// RedisTTL returns how long a persisted token survives in Redis.
func (s SessionConfig) RedisTTL() time.Duration {
	if s.RedisTTLHours <= 0 {
		return 0
	}
	return time.Duration(s.RedisTTLHours) * time.Hour
}

// Location resolves the export timezone, falling back to UTC.
func (e ExportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
