package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newReportsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Browse and manage evaluation reports",
	}

	cmd.AddCommand(newReportsListCommand(app))
	cmd.AddCommand(newReportsShowCommand(app))
	cmd.AddCommand(newReportsDeleteCommand(app))
	return cmd
}

func newReportsListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List report summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.FetchReports(cmd.Context()); err != nil {
				return err
			}

			state := app.Store.Snapshot()
			if app.Format == "json" {
				return printJSON(cmd, state.Reports)
			}

			rows := make([][]string, 0, len(state.Reports))
			for _, report := range state.Reports {
				accuracy := ""
				if v, ok := report.Summary["accuracy"].(float64); ok {
					accuracy = strconv.FormatFloat(v, 'f', 4, 64)
				}
				rows = append(rows, []string{
					strconv.Itoa(report.ID),
					report.Dataset,
					report.Model,
					report.Timestamp,
					accuracy,
				})
			}
			printTable(cmd, []string{"ID", "DATASET", "MODEL", "TIMESTAMP", "ACCURACY"}, rows)
			return nil
		},
	}
}

func newReportsShowCommand(app *App) *cobra.Command {
	var showBadcases bool

	cmd := &cobra.Command{
		Use:   "show <dataset> <model>",
		Short: "Show one full report, keyed by dataset and model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := app.Store.FetchReportDetail(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if app.Format == "json" {
				return printJSON(cmd, detail)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s / %s (%s)\n", detail.Dataset, detail.Model, detail.Timestamp)
			for _, key := range []string{"accuracy", "average_score", "total_count", "badcase_count"} {
				if v, ok := detail.Summary[key]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", key, v)
				}
			}
			if showBadcases {
				fmt.Fprintf(cmd.OutOrStdout(), "badcases: %d\n", len(detail.Badcases))
				return printJSON(cmd, detail.Badcases)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showBadcases, "badcases", false, "print badcase records")
	return cmd
}

func newReportsDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <report-id>",
		Short: "Delete a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid report id %q", args[0])
			}
			ok, err := app.confirm(cmd, fmt.Sprintf("Delete report %d?", reportID))
			if err != nil || !ok {
				return err
			}
			if err := app.Store.DeleteReport(cmd.Context(), reportID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}
