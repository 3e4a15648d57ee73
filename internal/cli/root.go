package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"todo-cli/internal/format"
	"todo-cli/internal/items"
	"todo-cli/internal/logging"
	"todo-cli/internal/store"
	"todo-cli/internal/tui"
)

type App struct {
	Dir        string
	Backend    string
	Format     string
	PrettyJSON bool
	LogLevel   string

	// cfg is the effective configuration (defaults < config.toml < env < flags).
	cfg store.Config
	log *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "A small local to-do list (TUI + CLI)",
		SilenceUsage:  true,
		SilenceErrors: true, // writeErr prints command errors; main prints the rest
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands
  todo add buy milk
  todo list --filter milk
  todo toggle todo-abcd2345

  # Direct item lookup (shortcut for: todo show <todo-id>)
  todo todo-abcd2345
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.resolveConfig(cmd); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data directory (env TODO_DIR; default <config dir>/data)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (sqlite|json|memory; env TODO_BACKEND)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TODO_FORMAT", format.FormatJSON), "Output format (json|text)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// resolveConfig layers config.toml, env and explicitly set flags.
func (app *App) resolveConfig(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = app.Dir
	}
	if flags.Changed("backend") {
		cfg.Backend = app.Backend
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = app.LogLevel
	}
	if !format.Valid(app.Format) {
		return fmt.Errorf("unknown format: %s (want json|text)", app.Format)
	}
	lvl, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	app.cfg = cfg
	app.log = logging.New(cmd.ErrOrStderr(), lvl)
	return nil
}

// openPort opens the configured backend. Callers close the returned KV.
func openPort(ctx context.Context, app *App) (store.Port, store.KV, error) {
	dir, err := app.cfg.DataDir()
	if err != nil {
		return nil, nil, err
	}
	kv, err := store.OpenKV(ctx, app.cfg.Backend, dir)
	if err != nil {
		return nil, nil, err
	}
	app.log.Debug("opened store", "backend", app.cfg.Backend, "dir", dir)
	return store.NewCollection(kv, app.cfg.Key), kv, nil
}

// withItems opens the item store for one command and closes the backend afterwards.
func withItems(cmd *cobra.Command, app *App, fn func(ctx context.Context, st *items.Store) error) error {
	ctx := cmd.Context()
	port, kv, err := openPort(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			app.log.Warn("close store", "err", err)
		}
	}()
	st := items.Open(ctx, port, items.WithLogger(app.log))
	return fn(ctx, st)
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	dir, err := app.cfg.DataDir()
	if err != nil {
		return writeErr(cmd, err)
	}
	lvl, _ := logging.ParseLevel(app.cfg.LogLevel)
	lg, closer, err := logging.OpenFile(dir, lvl)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closer.Close()
	app.log = lg

	port, kv, err := openPort(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer kv.Close()

	watchPath := ""
	if w, ok := kv.(store.Watchable); ok {
		watchPath = w.WatchPath(app.cfg.Key)
	}
	lg.Info("starting tui", "backend", app.cfg.Backend, "dir", dir)
	return tui.Run(ctx, tui.Options{
		Port:      port,
		WatchPath: watchPath,
		Logger:    lg,
		TrimEdits: app.cfg.TrimEdits,
		Theme:     app.cfg.TUI.Theme,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	var r reportedError
	if errors.As(err, &r) {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return reportedError{err: err}
}

// checkWrite surfaces a failed save as the command error. The output was already written.
func checkWrite(cmd *cobra.Command, st *items.Store) error {
	if err := st.LastWriteError(); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
