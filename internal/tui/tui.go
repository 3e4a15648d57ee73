// Package tui is the interactive terminal front end: a bubbletea program that turns keys and
// mouse clicks into controller commands.
package tui

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todo-cli/internal/store"
)

type Options struct {
	Port store.Port
	// WatchPath is the file holding the state; empty disables watching.
	WatchPath string
	Logger    *log.Logger
	TrimEdits bool
	// Theme is auto|light|dark.
	Theme string
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	opts.Theme = applyThemePreference(opts.Theme)

	m := newAppModel(ctx, opts)
	if opts.WatchPath != "" {
		w, err := newStateWatcher(opts.WatchPath)
		if err != nil {
			m.log.Warn("could not watch state file", "path", opts.WatchPath, "err", err)
		} else {
			defer w.Close()
			m.watcher = w
			m.watchBase = filepath.Base(opts.WatchPath)
		}
	}

	_, err := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	).Run()
	return err
}
