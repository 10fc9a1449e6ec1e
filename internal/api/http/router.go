package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/telaviv/ops-dashboard/internal/api/http/handlers"
	"github.com/telaviv/ops-dashboard/internal/auth"
	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/navigation"
)

// Screen paths served by dedicated handlers.
const (
	HomePath   = "/logado"
	LeavePath  = "/logado/sair"
	UsersPath  = "/logado/usuarios"
	LogsPath   = "/logado/log"
	ExportPath = "/logado/nexti"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Session           *handlers.SessionHandler
	Shell             *handlers.ShellHandler
	Users             *handlers.UsersHandler
	Logs              *handlers.LogsHandler
	Export            *handlers.ExportHandler
	SessionMiddleware *auth.SessionMiddleware
	Guard             auth.GuardConfig
	Catalog           *navigation.Catalog
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Use("/api", cfg.SessionMiddleware.Handle)
	app.Use(HomePath, cfg.SessionMiddleware.Handle)

	app.Get("/", cfg.SessionMiddleware.Handle, cfg.Session.State)

	api := app.Group("/api")
	api.Get("/session", cfg.Session.State)
	api.Post("/session/login", cfg.Session.Login)
	api.Post("/session/logout", cfg.Session.Logout)
	api.Get("/notices", cfg.Session.Notices)
	api.Post("/password/recover", cfg.Session.RequestPasswordReset)
	api.Post("/password/reset/:code", cfg.Session.ResetPassword)
	api.Post("/password/check", cfg.Session.CheckPassword)

	guard := func(path string, fallback []domain.Role) fiber.Handler {
		if screen, ok := cfg.Catalog.Lookup(path); ok {
			return cfg.Guard.Guard(screen.Allow...)
		}
		return cfg.Guard.Guard(fallback...)
	}

	app.Get(LeavePath, cfg.Session.Leave)
	app.Get(HomePath, guard(HomePath, auth.AnyRole), cfg.Shell.Home)

	for _, screen := range cfg.Catalog.Reports() {
		app.Get(screen.Path, cfg.Guard.Guard(screen.Allow...), cfg.Shell.Report)
	}

	users := app.Group(UsersPath, guard(UsersPath, auth.AdminOnly))
	users.Get("", cfg.Users.List)
	users.Post("", cfg.Users.Create)
	users.Get("/roles", cfg.Users.Roles)
	users.Post("/filters", cfg.Users.ApplyFilters)
	users.Delete("/filters", cfg.Users.ClearFilters)
	users.Delete("/filters/:field", cfg.Users.RemoveFilter)
	users.Put("/:id", cfg.Users.Update)
	users.Put("/:id/status", cfg.Users.ToggleStatus)

	logs := app.Group(LogsPath, guard(LogsPath, auth.AdminOnly))
	logs.Get("", cfg.Logs.List)
	logs.Post("/refresh", cfg.Logs.Refresh)
	logs.Post("/filters", cfg.Logs.ApplyFilters)
	logs.Delete("/filters", cfg.Logs.ClearFilters)
	logs.Delete("/filters/:field", cfg.Logs.RemoveFilter)

	export := app.Group(ExportPath, guard(ExportPath, auth.AdminOnly))
	export.Get("", cfg.Export.Preview)
	export.Post("/generate", cfg.Export.Generate)
	export.Get("/download", cfg.Export.Download)
}
