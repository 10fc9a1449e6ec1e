package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telaviv/ops-dashboard/internal/auth"
	"github.com/telaviv/ops-dashboard/internal/backend"
	"github.com/telaviv/ops-dashboard/internal/config"
	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/events"
	"github.com/telaviv/ops-dashboard/internal/navigation"
	"github.com/telaviv/ops-dashboard/internal/observability"
	"github.com/telaviv/ops-dashboard/internal/service"
	"github.com/telaviv/ops-dashboard/internal/session"
	"github.com/telaviv/ops-dashboard/internal/worker"
	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

type options struct {
	apiRoot        string
	credentialsDir string
	verbose        bool
}

// runtime is the single-user session and the services bound to it.
type runtime struct {
	cfg     *config.Config
	store   *session.FileStore
	session *session.Session
	notices *service.NotificationService
	auth    *service.AuthService
	logs    *service.LogsService
	export  *service.ExportService
	catalog *navigation.Catalog
}

// NewRootCommand builds the telavivctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "telavivctl",
		Short: "Tel Aviv dashboard CLI",
		Long: `telavivctl talks to the Tel Aviv dashboard backend from the terminal.
It keeps one login under the credentials directory and reuses it for every command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opened, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			*rt = *opened
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.apiRoot, "api-root", "", "Backend API root (defaults to BACKEND_API_ROOT)")
	root.PersistentFlags().StringVar(&opts.credentialsDir, "credentials-dir", "", "Credentials directory (defaults to TELAVIV_CREDENTIALS_DIR or ~/.telaviv)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log backend calls to stdout")

	root.AddCommand(newLoginCommand(rt))
	root.AddCommand(newLogoutCommand(rt))
	root.AddCommand(newStatusCommand(rt))
	root.AddCommand(newLogsCommand(rt))
	root.AddCommand(newExportCommand(rt))
	return root
}

// Execute runs the root command. Errors already shown as notices are not
// printed twice.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func openRuntime(ctx context.Context, opts *options) (*runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.apiRoot != "" {
		cfg.Backend.APIRoot = strings.TrimRight(opts.apiRoot, "/")
	}

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = observability.NewLogger(cfg.Logger, cfg.App); err != nil {
			return nil, fmt.Errorf("failed to init logger: %w", err)
		}
	}

	dir := opts.credentialsDir
	if dir == "" {
		dir = cfg.Session.CredentialsDir
	}
	fileStore, err := session.NewFileStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}
	var tokens session.TokenStore = fileStore
	if cfg.Session.SealSecret != "" {
		if tokens, err = session.NewSealedStore(fileStore, cfg.Session.SealSecret); err != nil {
			return nil, err
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	registry, err := service.NewScreenRegistry(16)
	if err != nil {
		return nil, err
	}
	notices, err := service.NewNotificationService(logger, 16)
	if err != nil {
		return nil, err
	}
	worker.StartNotificationWorker(dispatcher, notices, registry)

	manager := session.NewManager(tokens, session.NewDecoder(), dispatcher, logger)
	// The session is usable even when restoring fails, so login and logout
	// still work against broken storage.
	sess, err := manager.OpenDefault(ctx)
	if err != nil {
		logger.Warn("failed to restore session", zap.Error(err))
		pterm.Warning.Printfln("Could not restore the saved session: %v", err)
	}

	catalog := navigation.Default()
	if cfg.Navigation.CatalogFile != "" {
		if catalog, err = navigation.Load(cfg.Navigation.CatalogFile); err != nil {
			return nil, err
		}
	}

	client := backend.NewClient(cfg.Backend.APIRoot, cfg.Backend.Timeout(), backend.WithLogger(logger))
	return &runtime{
		cfg:     cfg,
		store:   fileStore,
		session: sess,
		notices: notices,
		auth:    service.NewAuthService(client, notices, false, logger),
		logs:    service.NewLogsService(client, notices, registry, cfg.Lists.LogsPageSize),
		export:  service.NewExportService(client, notices, registry, cfg.Export.MaxWindowDays, cfg.Export.Location()),
		catalog: catalog,
	}, nil
}

var errNotLoggedIn = errors.New("not logged in, run telavivctl login")

// requireScreen applies the dashboard's route guard to a command.
func (rt *runtime) requireScreen(path string) error {
	var allow []domain.Role
	if screen, ok := rt.catalog.Lookup(path); ok {
		allow = screen.Allow
	}
	switch auth.Decide(rt.session.State(), allow) {
	case auth.DecisionDenyLogin:
		return errNotLoggedIn
	case auth.DecisionDenyHome:
		return fmt.Errorf("perfil %s não tem acesso a %s", rt.session.Identity().Role.DisplayName(), path)
	}
	return nil
}
