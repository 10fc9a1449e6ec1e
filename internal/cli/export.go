package cli

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/telaviv/ops-dashboard/internal/service"
)

const exportScreen = "/logado/nexti"

func newExportCommand(rt *runtime) *cobra.Command {
	var start, finish, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the Nexti collaborator spreadsheet",
		Long: `Fetches the collaborator snapshot for an optional date window and writes it
as an .xlsx workbook. Leave both dates empty for the current state.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.requireScreen(exportScreen); err != nil {
				return err
			}
			rows, err := rt.export.Generate(cmd.Context(), rt.session, service.ExportWindow{Start: start, Finish: finish})
			if err != nil {
				rt.flushNotices()
				return err
			}
			data, err := rt.export.Download(rt.session)
			rt.flushNotices()
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write workbook: %w", err)
			}
			pterm.Success.Printf("%d registros exportados para %s\n", len(rows), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&finish, "finish", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&out, "out", "o", service.ExportFileName, "Output file")
	return cmd
}
