package cli

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/telaviv/ops-dashboard/internal/navigation"
)

func newLoginCommand(rt *runtime) *cobra.Command {
	var email, password, recaptcha string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the dashboard backend",
		Long: `Logs in with e-mail and password and stores the returned token in the
credentials directory. Later commands reuse it until it expires or logout is run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := rt.auth.Login(cmd.Context(), rt.session, email, password, recaptcha)
			rt.flushNotices()
			if err != nil {
				return err
			}

			identity := rt.session.Identity()
			pterm.Info.Printf("Autenticado como %s (%s)\n", identity.Username, identity.Role.DisplayName())
			pterm.Info.Printf("Credenciais em %s\n", rt.store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&recaptcha, "recaptcha", "", "reCAPTCHA response token, when the backend asks for one")
	return cmd
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.auth.Logout(cmd.Context(), rt.session); err != nil {
				return err
			}
			pterm.Success.Println("Sessão encerrada.")
			return nil
		},
	}
}

func newStatusCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the logged in user and the screens it may open",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.flushNotices()
			identity := rt.session.Identity()
			if identity == nil {
				return errNotLoggedIn
			}

			pterm.DefaultSection.Println("Sessão")
			pterm.Info.Printf("Olá, %s\n", identity.Username)
			pterm.Info.Printf("Perfil: %s\n", identity.Role.DisplayName())

			pterm.DefaultSection.Println("Menu")
			table := pterm.TableData{{"TELA", "CAMINHO"}}
			table = appendMenuRows(table, rt.catalog.VisibleMenu(identity.Role), "")
			return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
		},
	}
}

func appendMenuRows(table pterm.TableData, screens []navigation.Screen, indent string) pterm.TableData {
	for _, s := range screens {
		path := s.Path
		if path == "" {
			path = "-"
		}
		table = append(table, []string{indent + s.Label, path})
		table = appendMenuRows(table, s.Children, indent+"  ")
	}
	return table
}
