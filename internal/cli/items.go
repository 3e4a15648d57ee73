package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"todo-cli/internal/filter"
	"todo-cli/internal/items"
	"todo-cli/internal/model"
)

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add an item (prepended to the list)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				return writeErr(cmd, errors.New("missing text"))
			}
			return withItems(cmd, app, func(ctx context.Context, st *items.Store) error {
				it := st.Add(ctx, text)
				if err := writeOut(cmd, app, map[string]any{"data": it}); err != nil {
					return writeErr(cmd, err)
				}
				return checkWrite(cmd, st)
			})
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var q string
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List items (newest first)",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withItems(cmd, app, func(_ context.Context, st *items.Store) error {
				all := st.Items()
				shown := filter.Apply(all, q)
				return writeOut(cmd, app, map[string]any{
					"data": shown,
					"meta": map[string]any{
						"total": len(all),
						"shown": len(shown),
					},
				})
			})
		},
	}
	cmd.Flags().StringVar(&q, "filter", "", "Only items whose text contains this (case-insensitive)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show <todo-id>",
		Short:   "Show an item",
		Aliases: []string{"get"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return withItems(cmd, app, func(_ context.Context, st *items.Store) error {
				it, ok := st.Find(id)
				if !ok {
					return writeErr(cmd, errNotFound("item", id))
				}
				return writeOut(cmd, app, map[string]any{"data": it})
			})
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <todo-id>",
		Short: "Flip an item between open and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return withItems(cmd, app, func(ctx context.Context, st *items.Store) error {
				changed := st.ToggleCompleted(ctx, id)
				return writeChanged(cmd, app, st, id, changed)
			})
		},
	}
}

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <todo-id> <text...>",
		Short: "Replace an item's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			text := strings.Join(args[1:], " ")
			if app.cfg.TrimEdits {
				text = strings.TrimSpace(text)
			}
			if strings.TrimSpace(text) == "" {
				return writeErr(cmd, errors.New("missing text"))
			}
			return withItems(cmd, app, func(ctx context.Context, st *items.Store) error {
				changed := st.Rename(ctx, id, text)
				return writeChanged(cmd, app, st, id, changed)
			})
		},
	}
}

// writeChanged prints {data: item|null, meta: {changed}}. Unknown ids are not an error.
func writeChanged(cmd *cobra.Command, app *App, st *items.Store, id string, changed bool) error {
	var data *model.Item
	if it, ok := st.Find(id); ok {
		data = &it
	}
	if err := writeOut(cmd, app, map[string]any{
		"data": data,
		"meta": map[string]any{"changed": changed},
	}); err != nil {
		return writeErr(cmd, err)
	}
	if changed {
		return checkWrite(cmd, st)
	}
	return nil
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <todo-id>...",
		Short:   "Delete items",
		Aliases: []string{"rm"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]string, 0, len(args))
			for _, a := range args {
				if id := strings.TrimSpace(a); id != "" {
					ids = append(ids, id)
				}
			}
			return withItems(cmd, app, func(ctx context.Context, st *items.Store) error {
				n := 0
				for _, id := range ids {
					if _, ok := st.Find(id); ok {
						n++
					}
				}
				if n > 0 && !yes {
					ok, err := confirm(cmd, fmt.Sprintf("Delete %d item(s)? [y/N] ", n))
					if err != nil {
						return writeErr(cmd, err)
					}
					if !ok {
						return writeOut(cmd, app, map[string]any{
							"data": nil,
							"meta": map[string]any{"deleted": 0, "canceled": true},
						})
					}
				}
				deleted := st.Delete(ctx, ids...)
				if err := writeOut(cmd, app, map[string]any{
					"data": nil,
					"meta": map[string]any{"deleted": deleted},
				}); err != nil {
					return writeErr(cmd, err)
				}
				if deleted > 0 {
					return checkWrite(cmd, st)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// confirm writes prompt to stderr and reads one line from stdin. Only y/yes confirms.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		// EOF without an answer means no.
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
