package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wzyjerry/llm-judge-client/internal/model"
)

// Admin commands talk to the client directly: the admin console has
// no optimistic state worth holding, every view is fetch-render.
func newAdminCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative console (admin account required)",
	}

	cmd.AddCommand(newAdminUsersCommand(app))
	cmd.AddCommand(newAdminTasksCommand(app))
	cmd.AddCommand(newAdminDataCommand(app))
	cmd.AddCommand(newAdminModelConfigsCommand(app))
	return cmd
}

func newAdminUsersCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.API.GetAdminUsers(cmd.Context())
			if err != nil {
				return err
			}
			if app.Format == "json" {
				return printJSON(cmd, users)
			}
			rows := make([][]string, 0, len(users))
			for _, user := range users {
				rows = append(rows, []string{
					strconv.Itoa(user.ID), user.Username, user.Email, user.CreatedAt,
				})
			}
			printTable(cmd, []string{"ID", "USERNAME", "EMAIL", "CREATED"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user and everything they own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			ok, err := app.confirm(cmd, fmt.Sprintf("Delete user %d and all their data?", userID))
			if err != nil || !ok {
				return err
			}
			if err := app.API.DeleteAdminUser(cmd.Context(), userID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	})

	return cmd
}

func newAdminTasksCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks across all users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.API.GetAdminTasks(cmd.Context())
			if err != nil {
				return err
			}
			if app.Format == "json" {
				return printJSON(cmd, tasks)
			}
			rows := make([][]string, 0, len(tasks))
			for _, task := range tasks {
				rows = append(rows, []string{
					task.TaskID,
					task.Status,
					strconv.FormatFloat(task.Progress, 'f', 1, 64) + "%",
					task.Message,
				})
			}
			printTable(cmd, []string{"TASK", "STATUS", "PROGRESS", "MESSAGE"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "terminate <task-id>",
		Short: "Force-terminate any user's task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.confirm(cmd, fmt.Sprintf("Terminate task %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := app.API.TerminateAdminTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Terminated")
			return nil
		},
	})

	return cmd
}

func newAdminDataCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage data files across all users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all data files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := app.API.GetAdminData(cmd.Context())
			if err != nil {
				return err
			}
			if app.Format == "json" {
				return printJSON(cmd, files)
			}
			rows := make([][]string, 0, len(files))
			for _, file := range files {
				rows = append(rows, []string{
					strconv.Itoa(file.ID), file.Filename, strconv.Itoa(file.FileSize), file.Description,
				})
			}
			printTable(cmd, []string{"ID", "FILENAME", "SIZE", "DESCRIPTION"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <user-id> <data-id>",
		Short: "Delete one data file of one user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			dataID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid data id %q", args[1])
			}
			ok, err := app.confirm(cmd, fmt.Sprintf("Delete data %d of user %d?", dataID, userID))
			if err != nil || !ok {
				return err
			}
			if err := app.API.DeleteAdminData(cmd.Context(), userID, dataID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	})

	return cmd
}

func newAdminModelConfigsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model-configs",
		Short: "Manage model configurations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all model configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := app.API.GetAdminModelConfigs(cmd.Context())
			if err != nil {
				return err
			}
			if app.Format == "json" {
				return printJSON(cmd, configs)
			}
			rows := make([][]string, 0, len(configs))
			for _, config := range configs {
				active := "no"
				if config.IsActive == 1 {
					active = "yes"
				}
				rows = append(rows, []string{
					strconv.Itoa(config.ID),
					config.ModelName,
					strings.Join(config.APIUrls, ","),
					active,
				})
			}
			printTable(cmd, []string{"ID", "MODEL", "API URLS", "ACTIVE"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create a model configuration from JSON on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			var create model.ModelConfigCreate
			if err := json.Unmarshal(raw, &create); err != nil {
				return fmt.Errorf("invalid model config JSON: %w", err)
			}
			created, err := app.API.CreateAdminModelConfig(cmd.Context(), &create)
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "update <config-id>",
		Short: "Update a model configuration from JSON on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid config id %q", args[0])
			}
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			var update model.ModelConfigUpdate
			if err := json.Unmarshal(raw, &update); err != nil {
				return fmt.Errorf("invalid model config JSON: %w", err)
			}
			if err := app.API.UpdateAdminModelConfig(cmd.Context(), configID, &update); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Updated")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <config-id>",
		Short: "Delete a model configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid config id %q", args[0])
			}
			ok, err := app.confirm(cmd, fmt.Sprintf("Delete model config %d?", configID))
			if err != nil || !ok {
				return err
			}
			if err := app.API.DeleteAdminModelConfig(cmd.Context(), configID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	})

	return cmd
}
