package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newModelsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect available models and scoring functions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List active model configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := app.Store.FetchModelConfigs(cmd.Context())
			if err != nil {
				return err
			}

			if app.Format == "json" {
				return printJSON(cmd, configs)
			}
			rows := make([][]string, 0, len(configs))
			for _, config := range configs {
				rows = append(rows, []string{
					strconv.Itoa(config.ID),
					config.ModelName,
					strings.Join(config.APIUrls, ","),
					strconv.Itoa(config.MaxConcurrency),
					config.Description,
				})
			}
			printTable(cmd, []string{"ID", "MODEL", "API URLS", "CONCURRENCY", "DESCRIPTION"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "scoring",
		Short: "List scoring function names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.FetchScoringFunctions(cmd.Context()); err != nil {
				return err
			}
			state := app.Store.Snapshot()
			if app.Format == "json" {
				return printJSON(cmd, state.ScoringFunctions)
			}
			for _, name := range state.ScoringFunctions {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	return cmd
}

func newEvaluateCommand(app *App) *cobra.Command {
	var (
		modelName string
		dataFile  string
		scoring   string
		testMode  bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Start an evaluation run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := app.Store.Snapshot()
			form := state.FormData
			if modelName != "" {
				form.Model = modelName
			}
			if dataFile != "" {
				form.DataFile = dataFile
			}
			if scoring != "" {
				form.Scoring = scoring
			}
			form.TestMode = testMode

			if form.Model == "" || form.DataFile == "" {
				return fmt.Errorf("--model and --data-file are required")
			}

			// Persist the submitted form as the next draft.
			app.Store.SetFormData(form)

			taskID, err := app.Store.StartEvaluation(cmd.Context(), &form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s created\n", taskID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "", "model name to evaluate")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "data file id")
	cmd.Flags().StringVar(&scoring, "scoring", "", "scoring function")
	cmd.Flags().BoolVar(&testMode, "test-mode", false, "run on a small sample")
	return cmd
}
