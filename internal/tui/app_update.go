package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"todo-cli/internal/controller"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashErr = false
		}
		return m, nil

	case stateChangedMsg:
		m.log.Debug("state changed on disk; reloading")
		cmd := m.dispatch(controller.Reload{})
		return m, tea.Batch(cmd, m.Init())

	case watchErrMsg:
		m.log.Warn("watch failed", "err", msg.err)
		return m, m.Init()

	case copyDoneMsg:
		if msg.err != nil {
			m.log.Warn("copy to clipboard failed", "err", msg.err)
			return m, m.setFlash("copy failed: "+msg.err.Error(), true)
		}
		return m, m.setFlash(fmt.Sprintf("copied %d item(s)", msg.n), false)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		switch m.modal {
		case modalAdd:
			return m.updateAdd(msg)
		case modalFilter:
			return m.updateFilter(msg)
		case modalEdit:
			return m.updateEdit(msg)
		case modalConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modalHelp:
			return m.updateHelp(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.list.CursorUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.list.CursorDown()
		return m, nil
	case key.Matches(msg, m.keys.Click):
		if id := m.cursorID(); id != "" {
			return m, m.dispatch(controller.Click{ID: id})
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if id := m.cursorID(); id != "" {
			return m, m.dispatch(controller.Toggle{ID: id})
		}
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.modal = modalAdd
		m.input.Reset()
		m.input.Placeholder = "What needs to be done?"
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Filter):
		m.modal = modalFilter
		m.input.SetValue(m.state.Filter)
		m.input.CursorEnd()
		m.input.Placeholder = "filter"
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Edit):
		cmd := m.dispatch(controller.BeginEdit{})
		if m.state.Edit == nil {
			return m, cmd
		}
		m.modal = modalEdit
		m.textarea.SetValue(m.state.Edit.Draft)
		return m, tea.Batch(cmd, m.textarea.Focus())
	case key.Matches(msg, m.keys.Delete):
		cmd := m.dispatch(controller.RequestDelete{})
		if m.state.ConfirmingDelete {
			m.modal = modalConfirmDelete
			m.confirmFocus = confirmFocusConfirm
		}
		return m, cmd
	case key.Matches(msg, m.keys.ClearSel):
		return m, m.dispatch(controller.ClickOutside{})
	case key.Matches(msg, m.keys.SelectAll):
		return m, m.dispatch(controller.SelectVisible{})
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelection()
	case key.Matches(msg, m.keys.Reload):
		return m, m.dispatch(controller.Reload{})
	case key.Matches(msg, m.keys.Help):
		m.modal = modalHelp
		m.helpView.SetContent(renderMarkdown(helpMarkdown, m.helpView.Width, m.theme))
		m.helpView.GotoTop()
		return m, nil
	}
	return m, nil
}

func (m appModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		m.closeInput()
		return m, m.dispatch(controller.Add{Text: text})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateFilter applies the filter on every keystroke. enter keeps it, esc clears it.
func (m appModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return m, m.dispatch(controller.SetFilter{Text: ""})
	case key.Matches(msg, m.keys.Submit):
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.state.Filter {
		return m, tea.Batch(cmd, m.dispatch(controller.SetFilter{Text: m.input.Value()}))
	}
	return m, cmd
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeEdit()
		return m, m.dispatch(controller.CancelEdit{})
	case key.Matches(msg, m.keys.Save):
		draft := m.textarea.Value()
		m.closeEdit()
		m.dispatch(controller.SetDraft{Text: draft})
		return m, m.dispatch(controller.SaveEdit{})
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, tea.Batch(cmd, m.dispatch(controller.SetDraft{Text: m.textarea.Value()}))
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SwitchFocus):
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case key.Matches(msg, m.keys.Yes):
		m.modal = modalNone
		return m, m.dispatch(controller.ConfirmDelete{})
	case key.Matches(msg, m.keys.No), key.Matches(msg, m.keys.Cancel):
		m.modal = modalNone
		return m, m.dispatch(controller.CancelDelete{})
	case key.Matches(msg, m.keys.Submit):
		m.modal = modalNone
		if m.confirmFocus == confirmFocusConfirm {
			return m, m.dispatch(controller.ConfirmDelete{})
		}
		return m, m.dispatch(controller.CancelDelete{})
	}
	return m, nil
}

func (m appModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.modal = modalNone
		return m, nil
	}
	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return m, cmd
}

// updateMouse maps a left click on a row to Click and any other left click to ClickOutside.
// Clicks are ignored while a modal is open.
func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if id, ok := m.rowAt(msg.Y); ok {
		if idx := m.indexOf(id); idx >= 0 {
			m.list.Select(idx)
		}
		return m, m.dispatch(controller.Click{ID: id})
	}
	return m, m.dispatch(controller.ClickOutside{})
}

// rowAt returns the id of the item drawn at screen row y.
func (m appModel) rowAt(y int) (string, bool) {
	row := y - listTop
	if row < 0 || row >= m.list.Height() {
		return "", false
	}
	start, end := m.list.Paginator.GetSliceBounds(len(m.state.Visible))
	i := start + row
	if i >= end {
		return "", false
	}
	return m.state.Visible[i].ID, true
}

func (m appModel) indexOf(id string) int {
	for i, it := range m.state.Visible {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// copySelection copies the selected items' text in selection order, or the item under the
// cursor when nothing is selected, one per line.
func (m appModel) copySelection() tea.Cmd {
	var texts []string
	// Selection order; items hidden by the filter are still copied.
	for _, id := range m.state.Selected {
		if it, ok := m.ctrl.Item(id); ok {
			texts = append(texts, it.Text)
		}
	}
	if len(texts) == 0 {
		if it, ok := m.list.SelectedItem().(todoListItem); ok {
			texts = append(texts, it.item.Text)
		}
	}
	if len(texts) == 0 {
		return nil
	}
	copyFn := m.copy
	payload := strings.Join(texts, "\n")
	n := len(texts)
	return func() tea.Msg {
		return copyDoneMsg{n: n, err: copyFn(payload)}
	}
}

func (m *appModel) closeInput() {
	m.modal = modalNone
	m.input.Blur()
	m.input.Reset()
}

func (m *appModel) closeEdit() {
	m.modal = modalNone
	m.textarea.Blur()
}
