package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}

	body := m.list.View()
	if len(m.state.Visible) == 0 {
		if m.state.Filter != "" {
			body = styleMuted().Render("  no items match the filter")
		} else {
			body = styleMuted().Render("  nothing to do; press a to add an item")
		}
	}

	screen := strings.Join([]string{
		m.viewHeader(),
		"",
		body,
		"",
		m.viewStatus(),
		m.help.View(m.keys),
	}, "\n")

	if overlay := m.viewModal(w); overlay != "" {
		h := m.height
		if h <= 0 {
			h = lipgloss.Height(screen)
		}
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, overlay)
	}
	return screen
}

func (m appModel) viewHeader() string {
	parts := []string{styleHeader().Render("todo")}
	open := 0
	for _, it := range m.state.Visible {
		if !it.Completed {
			open++
		}
	}
	counts := fmt.Sprintf("%d items, %d open", m.state.Total, open)
	if m.state.Filter != "" {
		counts = fmt.Sprintf("%d of %d items, filter %q", len(m.state.Visible), m.state.Total, m.state.Filter)
	}
	parts = append(parts, styleMuted().Render(counts))
	if n := len(m.state.Selected); n > 0 {
		parts = append(parts, styleMuted().Render(fmt.Sprintf("%d selected", n)))
	}
	return strings.Join(parts, "  ")
}

func (m appModel) viewStatus() string {
	if m.flash != "" {
		if m.flashErr {
			return styleError().Render(m.flash)
		}
		return styleMuted().Render(m.flash)
	}
	return styleMuted().Render(m.state.Phase.String())
}

func (m appModel) viewModal(width int) string {
	bodyW := modalBodyWidth(width)
	switch m.modal {
	case modalAdd:
		return renderModalBox(width, "Add item", m.input.View()+"\n\n"+styleMuted().Width(bodyW).Render("enter: add   esc: cancel"))
	case modalFilter:
		return renderModalBox(width, "Filter", m.input.View()+"\n\n"+styleMuted().Width(bodyW).Render("enter: keep   esc: clear"))
	case modalEdit:
		return renderModalBox(width, "Edit item", m.textarea.View()+"\n\n"+styleMuted().Width(bodyW).Render("ctrl+s: save   esc: cancel"))
	case modalConfirmDelete:
		n := len(m.state.Selected)
		body := lipgloss.NewStyle().Width(bodyW).Render(fmt.Sprintf("Delete %d item(s)?", n))
		return renderConfirmModal(width, "Delete", body, "Delete", "Cancel", m.confirmFocus)
	case modalHelp:
		return renderModalBox(width, "Help", m.helpView.View()+"\n"+styleMuted().Render("esc: close"))
	}
	return ""
}
