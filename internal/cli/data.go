package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func newDataCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage uploaded datasets",
	}

	cmd.AddCommand(newDataListCommand(app))
	cmd.AddCommand(newDataUploadCommand(app))
	cmd.AddCommand(newDataShowCommand(app))
	cmd.AddCommand(newDataEditItemCommand(app))
	cmd.AddCommand(newDataAddItemCommand(app))
	cmd.AddCommand(newDataDeleteItemCommand(app))
	cmd.AddCommand(newDataAppendCommand(app))
	cmd.AddCommand(newDataDeleteCommand(app))
	return cmd
}

func newDataListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded data files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.FetchUserDataFiles(cmd.Context()); err != nil {
				return err
			}

			state := app.Store.Snapshot()
			if app.Format == "json" {
				return printJSON(cmd, state.UserDataFiles)
			}

			rows := make([][]string, 0, len(state.UserDataFiles))
			for _, file := range state.UserDataFiles {
				rows = append(rows, []string{
					strconv.Itoa(file.ID),
					file.Filename,
					strconv.Itoa(file.FileSize),
					file.Description,
				})
			}
			printTable(cmd, []string{"ID", "FILENAME", "SIZE", "DESCRIPTION"}, rows)
			return nil
		},
	}
}

func newDataUploadCommand(app *App) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a JSONL or CSV data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, filename, err := readFileOrStdin(args[0])
			if err != nil {
				return err
			}
			defer content.Close()

			if err := app.Store.UploadUserDataFile(cmd.Context(), filename, content, description); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Uploaded")
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "file description")
	return cmd
}

func newDataShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <data-id>",
		Short: "Show the records of one data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid data id %q", args[0])
			}

			detail, err := app.Store.FetchDataContent(cmd.Context(), dataID)
			if err != nil {
				return err
			}

			if app.Format == "json" {
				return printJSON(cmd, detail)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d records)\n", detail.Filename, detail.TotalCount)
			for i, record := range detail.Data {
				raw, _ := json.Marshal(record)
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", i, truncate(string(raw), 120))
			}
			return nil
		},
	}
}

func newDataEditItemCommand(app *App) *cobra.Command {
	var editedFile string

	cmd := &cobra.Command{
		Use:   "edit-item <data-id> <item-index>",
		Short: "Replace one record with edited JSON",
		Long: "Reads the edited record JSON from --from (or stdin) and submits it. " +
			"Only meta.meta_description and turns[].text may change; any structural " +
			"or other value change is rejected locally before anything is sent.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid data id %q", args[0])
			}
			itemIndex, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid item index %q", args[1])
			}

			source := editedFile
			if source == "" {
				source = "-"
			}
			content, _, err := readFileOrStdin(source)
			if err != nil {
				return err
			}
			defer content.Close()

			editedJSON, err := io.ReadAll(content)
			if err != nil {
				return err
			}

			// The edit is diffed against the server's current copy.
			if _, err := app.Store.FetchDataContent(cmd.Context(), dataID); err != nil {
				return err
			}

			if err := app.Store.EditSingleItem(cmd.Context(), dataID, itemIndex, string(editedJSON)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Edited")
			return nil
		},
	}

	cmd.Flags().StringVar(&editedFile, "from", "", "file with the edited record JSON (default: stdin)")
	return cmd
}

func newDataAddItemCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add-item <data-id>",
		Short: "Append one record read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid data id %q", args[0])
			}

			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			var item map[string]interface{}
			if err := json.Unmarshal(raw, &item); err != nil {
				return fmt.Errorf("invalid record JSON: %w", err)
			}

			if err := app.Store.AddSingleItem(cmd.Context(), dataID, item); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Added")
			return nil
		},
	}
}

func newDataDeleteItemCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-item <data-id> <item-index>...",
		Short: "Delete one or more records by index",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid data id %q", args[0])
			}
			indices := make([]int, 0, len(args)-1)
			for _, arg := range args[1:] {
				index, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid item index %q", arg)
				}
				indices = append(indices, index)
			}

			ok, err := app.confirm(cmd, fmt.Sprintf("Delete %d record(s) from data %d?", len(indices), dataID))
			if err != nil || !ok {
				return err
			}

			if len(indices) == 1 {
				err = app.Store.DeleteSingleItem(cmd.Context(), dataID, indices[0])
			} else {
				err = app.Store.BatchDeleteItems(cmd.Context(), dataID, indices)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}

func newDataAppendCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "append <data-id> <file>",
		Short: "Import and append a CSV or JSONL file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid data id %q", args[0])
			}
			content, filename, err := readFileOrStdin(args[1])
			if err != nil {
				return err
			}
			defer content.Close()

			if err := app.Store.AppendDataFile(cmd.Context(), dataID, filename, content); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Appended")
			return nil
		},
	}
}

func newDataDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <data-id>",
		Short: "Delete a data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid data id %q", args[0])
			}
			ok, err := app.confirm(cmd, fmt.Sprintf("Delete data file %d?", dataID))
			if err != nil || !ok {
				return err
			}
			if err := app.Store.DeleteUserDataFile(cmd.Context(), dataID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
