package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"todo-cli/internal/controller"
	"todo-cli/internal/items"
	"todo-cli/internal/logging"
)

const (
	// listTop is the screen row of the first list entry (header + blank line above it).
	listTop = 2
	// chromeHeight covers the header, blank lines, status line and help line.
	chromeHeight = 5

	flashDuration = 3 * time.Second
)

type appModel struct {
	ctx   context.Context
	ctrl  *controller.Controller
	log   *log.Logger
	state controller.State
	theme string

	keys     keyMap
	help     help.Model
	list     list.Model
	input    textinput.Model
	textarea textarea.Model
	helpView viewport.Model

	modal        modal
	confirmFocus confirmModalFocus

	width  int
	height int

	watcher   *fsnotify.Watcher
	watchBase string
	writes    *selfWrites

	flash    string
	flashErr bool
	flashSeq int
	// lastErr is the error already flashed, so a sticky error does not re-flash every frame.
	lastErr error

	copy func(string) error
}

func newAppModel(ctx context.Context, opts Options) appModel {
	lg := opts.Logger
	if lg == nil {
		lg = logging.Discard()
	}
	writes := &selfWrites{}
	port := markingPort{Port: opts.Port, writes: writes}
	st := items.Open(ctx, port, items.WithLogger(lg))
	ctrl := controller.New(st,
		controller.WithTrimEdits(opts.TrimEdits),
		controller.WithLogger(lg),
	)

	l := list.New(nil, newTodoDelegate(), 80, 10)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	in := textinput.New()
	in.CharLimit = 0

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetHeight(4)

	m := appModel{
		ctx:      ctx,
		ctrl:     ctrl,
		log:      lg,
		theme:    opts.Theme,
		keys:     newKeyMap(),
		help:     help.New(),
		list:     l,
		input:    in,
		textarea: ta,
		helpView: viewport.New(60, 16),
		writes:   writes,
		copy:     copyToClipboard,
	}
	if m.theme == "" {
		m.theme = resolveTheme("")
	}
	m.apply(ctrl.State())
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return watchState(m.watcher, m.watchBase, m.writes)
}

// dispatch runs cmd through the controller and refreshes the view state.
func (m *appModel) dispatch(cmd controller.Command) tea.Cmd {
	return m.apply(m.ctrl.Dispatch(m.ctx, cmd))
}

// apply installs st as the current view state, keeping the cursor on the same item when it
// is still visible. A new persistence error starts a flash.
func (m *appModel) apply(st controller.State) tea.Cmd {
	curID := m.cursorID()
	m.state = st
	m.list.SetItems(listItemsFromState(st))
	if curID != "" {
		for i, it := range st.Visible {
			if it.ID == curID {
				m.list.Select(i)
				break
			}
		}
	}

	err, label := st.Err, "not saved"
	if err == nil && st.LoadErr != nil {
		err, label = st.LoadErr, "reload failed"
	}
	if err == nil {
		m.lastErr = nil
		return nil
	}
	if err == m.lastErr {
		return nil
	}
	m.lastErr = err
	return m.setFlash(fmt.Sprintf("%s: %v", label, err), true)
}

func (m *appModel) setFlash(msg string, isErr bool) tea.Cmd {
	m.flash = msg
	m.flashErr = isErr
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m appModel) cursorID() string {
	if it, ok := m.list.SelectedItem().(todoListItem); ok {
		return it.item.ID
	}
	return ""
}

func (m *appModel) resize() {
	h := m.height - chromeHeight
	if h < 1 {
		h = 1
	}
	w := m.width
	if w < 20 {
		w = 20
	}
	m.list.SetSize(w, h)
	m.help.Width = w
	m.input.Width = modalBodyWidth(w) - 2
	m.textarea.SetWidth(modalBodyWidth(w))
	m.helpView.Width = modalBodyWidth(w)
	m.helpView.Height = max(4, m.height-8)
}
