// Package cli wires the client store and API into a command tree.
// Commands never mutate store slices themselves; they trigger store
// actions and print the resulting state.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/wzyjerry/llm-judge-client/internal/client"
	"github.com/wzyjerry/llm-judge-client/internal/pkg/config"
	"github.com/wzyjerry/llm-judge-client/internal/pkg/localstore"
	"github.com/wzyjerry/llm-judge-client/internal/pkg/logger"
	"github.com/wzyjerry/llm-judge-client/internal/store"
)

// App holds everything the commands share. Built once per invocation
// in the root PersistentPreRunE.
type App struct {
	ConfigPath string
	Format     string // "table" | "json"
	Yes        bool   // skip confirmation prompts

	Config *config.Config
	Local  *localstore.LocalStore
	API    *client.Client
	Store  *store.Store
}

// NewRootCommand creates the root command for the llm-judge CLI.
func NewRootCommand() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "llm-judge",
		Short:         "Client for the LLM Judge evaluation platform",
		Long:          "Configure evaluation runs, monitor tasks, browse reports and manage uploaded datasets on an LLM Judge server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "path to config file (yaml)")
	cmd.PersistentFlags().StringVarP(&app.Format, "format", "f", "table", "output format (table|json)")
	cmd.PersistentFlags().BoolVarP(&app.Yes, "yes", "y", false, "answer yes to confirmation prompts")

	cmd.AddCommand(newLoginCommand(app))
	cmd.AddCommand(newRegisterCommand(app))
	cmd.AddCommand(newLogoutCommand(app))
	cmd.AddCommand(newWhoamiCommand(app))
	cmd.AddCommand(newEvaluateCommand(app))
	cmd.AddCommand(newTasksCommand(app))
	cmd.AddCommand(newReportsCommand(app))
	cmd.AddCommand(newDataCommand(app))
	cmd.AddCommand(newModelsCommand(app))
	cmd.AddCommand(newAdminCommand(app))

	return cmd
}

func (a *App) init() error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	local, err := localstore.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	a.Local = local

	api := client.New(cfg.Server.BaseURL, cfg.RequestTimeout())
	a.API = api
	a.Store = store.New(api, local, cfg.PollInterval())
	return nil
}

func (a *App) close() {
	if a.Local != nil {
		a.Local.Close()
	}
	logger.Sync()
}
