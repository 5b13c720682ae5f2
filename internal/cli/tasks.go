package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newTasksCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Monitor and manage evaluation tasks",
	}

	cmd.AddCommand(newTasksListCommand(app))
	cmd.AddCommand(newTasksStatusCommand(app))
	cmd.AddCommand(newTasksCancelCommand(app))
	cmd.AddCommand(newTasksDeleteCommand(app))
	cmd.AddCommand(newTasksUpdateCommand(app))
	cmd.AddCommand(newTasksWatchCommand(app))
	return cmd
}

func newTasksListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.FetchTasks(cmd.Context(), false); err != nil {
				return err
			}
			return app.printTasks(cmd)
		},
	}
}

func (a *App) printTasks(cmd *cobra.Command) error {
	state := a.Store.Snapshot()
	if a.Format == "json" {
		return printJSON(cmd, state.Tasks)
	}

	rows := make([][]string, 0, len(state.Tasks))
	for _, task := range state.Tasks {
		rows = append(rows, []string{
			task.TaskID,
			task.Status,
			strconv.FormatFloat(task.Progress, 'f', 1, 64) + "%",
			task.Message,
		})
	}
	printTable(cmd, []string{"TASK", "STATUS", "PROGRESS", "MESSAGE"}, rows)
	return nil
}

func newTasksStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := app.Store.FetchTaskStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if app.Format == "json" {
				return printJSON(cmd, task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %.1f%% %s\n",
				task.TaskID, task.Status, task.Progress, task.Message)
			return nil
		},
	}
}

func newTasksCancelCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <task-id>",
		Short: "Cancel a running task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.confirm(cmd, fmt.Sprintf("Cancel task %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := app.Store.CancelTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		},
	}
}

func newTasksDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a finished task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.confirm(cmd, fmt.Sprintf("Delete task %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := app.Store.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}

func newTasksUpdateCommand(app *App) *cobra.Command {
	var updatesJSON string

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Apply a partial update to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var updates map[string]interface{}
			if err := json.Unmarshal([]byte(updatesJSON), &updates); err != nil {
				return fmt.Errorf("invalid --set JSON: %w", err)
			}
			return app.Store.UpdateTask(cmd.Context(), args[0], updates)
		},
	}

	cmd.Flags().StringVar(&updatesJSON, "set", "{}", `updates as JSON, e.g. '{"message":"note"}'`)
	return cmd
}

func newTasksWatchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the task list until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Store.FetchTasks(ctx, false); err != nil {
				return err
			}
			if err := app.printTasks(cmd); err != nil {
				return err
			}

			app.Store.StartPolling(ctx)

			// Re-render on the same cadence the store polls with.
			// Rendering reads snapshots; it never drives fetching.
			ticker := time.NewTicker(app.Config.PollInterval())
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := app.printTasks(cmd); err != nil {
						return err
					}
				}
			}
		},
	}
}
