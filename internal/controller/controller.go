// Package controller implements the selection/edit state machine on top of the item store.
//
// Everything the user can do is a Command passed to Dispatch, which applies it synchronously
// and returns the resulting State. The controller is not safe for concurrent use; the owner
// (TUI update loop, tests) serializes calls.
package controller

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"todo-cli/internal/filter"
	"todo-cli/internal/items"
	"todo-cli/internal/logging"
	"todo-cli/internal/model"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSingle
	PhaseMulti
	PhaseEditing
)

func (p Phase) String() string {
	switch p {
	case PhaseSingle:
		return "single-selected"
	case PhaseMulti:
		return "multi-selected"
	case PhaseEditing:
		return "editing"
	default:
		return "no-selection"
	}
}

// EditSession is the transient draft for renaming one item.
type EditSession struct {
	TargetID string
	Draft    string
	// Original is the text when the session started.
	Original string
}

// State is a snapshot of everything a view needs to render.
type State struct {
	// Visible is the filtered item list in display order.
	Visible []model.Item
	Total   int
	Filter  string

	// Selected holds item ids in selection order.
	Selected []string
	Edit     *EditSession
	Phase    Phase

	ConfirmingDelete bool
	CanDelete        bool
	CanEdit          bool

	// Err is the most recent write failure (nil when the last write succeeded).
	Err error
	// LoadErr is the failure of the last Reload. It clears once a reload succeeds or a
	// change is written over the unreadable state.
	LoadErr error
}

// IsSelected reports whether id is in the selection.
func (s State) IsSelected(id string) bool {
	return slices.Contains(s.Selected, id)
}

type Controller struct {
	items     *items.Store
	log       *log.Logger
	trimEdits bool

	selected   []string
	edit       *EditSession
	filter     string
	confirming bool
	reloadErr  error
}

type Option func(*Controller)

// WithTrimEdits controls whether saved edit text is trimmed of surrounding whitespace.
func WithTrimEdits(on bool) Option {
	return func(c *Controller) { c.trimEdits = on }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func New(st *items.Store, opts ...Option) *Controller {
	c := &Controller{
		items:     st,
		log:       logging.Discard(),
		trimEdits: true,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Dispatch applies cmd and returns the resulting state.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) State {
	// The delete confirmation is modal: nothing else gets through until it is resolved.
	if c.confirming {
		switch cmd.(type) {
		case ConfirmDelete:
			c.confirmDelete(ctx)
		case CancelDelete:
			c.confirming = false
		default:
			c.log.Debug("ignored while confirming delete", "cmd", cmdName(cmd))
		}
		return c.State()
	}

	switch cmd := cmd.(type) {
	case Click:
		c.click(cmd.ID)
	case ClickOutside:
		c.selected = nil
		c.edit = nil
	case SelectVisible:
		c.selectVisible()
	case BeginEdit:
		c.beginEdit()
	case SetDraft:
		if c.edit != nil {
			c.edit.Draft = cmd.Text
		}
	case SaveEdit:
		c.saveEdit(ctx)
	case CancelEdit:
		c.edit = nil
	case RequestDelete:
		if len(c.selected) > 0 {
			c.confirming = true
		}
	case Add:
		if strings.TrimSpace(cmd.Text) != "" {
			c.items.Add(ctx, cmd.Text)
			c.committed(true)
		}
	case Toggle:
		c.committed(c.items.ToggleCompleted(ctx, cmd.ID))
	case SetFilter:
		c.filter = cmd.Text
	case Reload:
		c.reload(ctx)
	case ConfirmDelete, CancelDelete:
		// Nothing pending.
	default:
		c.log.Warn("unknown command", "cmd", cmdName(cmd))
	}
	return c.State()
}

// State returns the current snapshot; the visible list is recomputed on every call.
func (c *Controller) State() State {
	all := c.items.Items()
	st := State{
		Visible:          filter.Apply(all, c.filter),
		Total:            len(all),
		Filter:           c.filter,
		Selected:         slices.Clone(c.selected),
		ConfirmingDelete: c.confirming,
		CanDelete:        len(c.selected) > 0,
		CanEdit:          len(c.selected) == 1 && c.edit == nil,
	}
	if c.edit != nil {
		e := *c.edit
		st.Edit = &e
	}
	switch {
	case c.edit != nil:
		st.Phase = PhaseEditing
	case len(c.selected) == 1:
		st.Phase = PhaseSingle
	case len(c.selected) > 1:
		st.Phase = PhaseMulti
	default:
		st.Phase = PhaseIdle
	}
	st.Err = c.items.LastWriteError()
	st.LoadErr = c.reloadErr
	return st
}

// Item looks up id in the whole collection, ignoring the filter.
func (c *Controller) Item(id string) (model.Item, bool) {
	return c.items.Find(id)
}

func (c *Controller) click(id string) {
	if _, ok := c.items.Find(id); !ok {
		return
	}
	if slices.Contains(c.selected, id) {
		c.selected = slices.DeleteFunc(c.selected, func(s string) bool { return s == id })
		c.edit = nil
		return
	}
	// Clicking never extends the selection.
	c.selected = []string{id}
	c.edit = nil
}

func (c *Controller) selectVisible() {
	vis := filter.Apply(c.items.Items(), c.filter)
	sel := make([]string, 0, len(vis))
	for _, it := range vis {
		sel = append(sel, it.ID)
	}
	c.selected = sel
	c.edit = nil
}

func (c *Controller) beginEdit() {
	if len(c.selected) != 1 || c.edit != nil {
		return
	}
	it, ok := c.items.Find(c.selected[0])
	if !ok {
		return
	}
	c.edit = &EditSession{TargetID: it.ID, Draft: it.Text, Original: it.Text}
}

func (c *Controller) saveEdit(ctx context.Context) {
	if c.edit == nil {
		return
	}
	text := c.edit.Draft
	if c.trimEdits {
		text = strings.TrimSpace(text)
	}
	c.committed(c.items.Rename(ctx, c.edit.TargetID, text))
	c.edit = nil
}

func (c *Controller) confirmDelete(ctx context.Context) {
	c.committed(c.items.Delete(ctx, c.selected...) > 0)
	c.selected = nil
	c.edit = nil
	c.confirming = false
}

func (c *Controller) reload(ctx context.Context) {
	if err := c.items.Reload(ctx); err != nil {
		c.reloadErr = err
		return
	}
	c.reloadErr = nil
	c.selected = slices.DeleteFunc(c.selected, func(id string) bool {
		_, ok := c.items.Find(id)
		return !ok
	})
	if c.edit != nil {
		if _, ok := c.items.Find(c.edit.TargetID); !ok {
			c.edit = nil
		}
	}
}

// committed drops a stale reload error once a change has been written successfully.
func (c *Controller) committed(changed bool) {
	if changed && c.items.LastWriteError() == nil {
		c.reloadErr = nil
	}
}

func cmdName(cmd Command) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", cmd), "controller.")
}
