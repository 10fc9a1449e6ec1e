package cli

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/listquery"
)

const (
	logsScreen      = "/logado/log"
	timestampLayout = "02/01/2006 15:04:05"
)

func newLogsCommand(rt *runtime) *cobra.Command {
	var (
		page             int
		search, from, to string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List the audit log",
		Long:  `Lists one page of the audit log. Filters match the dashboard's Logs screen.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.requireScreen(logsScreen); err != nil {
				return err
			}
			ctx := cmd.Context()
			snap, err := rt.logs.ApplyFilters(ctx, rt.session, map[string]string{
				"busca":    search,
				"data_de":  from,
				"data_ate": to,
			})
			if err == nil && page > 1 {
				snap = rt.logs.SetPage(ctx, rt.session, page)
			}
			rt.flushNotices()
			if err != nil {
				return err
			}
			if snap.Status == listquery.StatusFailed {
				return fmt.Errorf("failed to list logs: %s", snap.Error)
			}

			table := pterm.TableData{{"ID", "DATA", "MENSAGEM"}}
			for _, entry := range snap.Records {
				table = append(table, []string{strconv.FormatInt(entry.ID, 10), formatTimestamp(entry), entry.Message})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(table).Render(); err != nil {
				return err
			}
			pterm.Info.Printf("Página %d de %d (%d registros)\n", snap.Page, snap.Pages, snap.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().StringVar(&search, "busca", "", "Free text search")
	cmd.Flags().StringVar(&from, "de", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "ate", "", "End date (YYYY-MM-DD)")
	return cmd
}

func formatTimestamp(entry domain.LogEntry) string {
	if entry.CreatedAt == nil {
		return "-"
	}
	return entry.CreatedAt.Format(timestampLayout)
}
