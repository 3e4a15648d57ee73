package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// todoDelegate renders one item per line:
//
//	› [x] text ..................... 5/1/2024, 9:30:00 AM
type todoDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	meta     lipgloss.Style
}

func newTodoDelegate() todoDelegate {
	return todoDelegate{
		normal:   lipgloss.NewStyle().Foreground(colorSurfaceFg),
		selected: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
		done:     lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true),
		meta:     styleMuted(),
	}
}

func (d todoDelegate) Height() int  { return 1 }
func (d todoDelegate) Spacing() int { return 0 }
func (d todoDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d todoDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	it, ok := item.(todoListItem)
	if !ok || contentW < 8 {
		fmt.Fprint(w, "")
		return
	}
	fmt.Fprint(w, d.renderRow(it, index == m.Index(), contentW))
}

func (d todoDelegate) renderRow(it todoListItem, cursor bool, width int) string {
	marker := "  "
	if cursor {
		marker = "› "
	}
	box := "[ ] "
	if it.item.Completed {
		box = "[x] "
	}
	text := strings.Join(strings.Fields(it.item.Text), " ")
	if it.editing {
		text += " (editing)"
	}
	meta := it.item.CreatedAt

	prefixW := xansi.StringWidth(marker + box)
	metaW := xansi.StringWidth(meta)
	textW := width - prefixW - metaW - 1
	if textW < 4 {
		// Too narrow for the timestamp.
		meta, metaW = "", 0
		textW = width - prefixW
	}
	text = xansi.Truncate(text, textW, "…")
	gap := width - prefixW - xansi.StringWidth(text) - metaW
	if gap < 0 {
		gap = 0
	}

	base := d.normal
	if it.selected {
		base = d.selected
	}
	textStyle := base
	if it.item.Completed {
		textStyle = base.Inherit(d.done)
	}
	metaStyle := base.Inherit(d.meta)
	if cursor {
		base = base.Bold(true)
	}

	return base.Render(marker+box) +
		textStyle.Render(text) +
		base.Render(strings.Repeat(" ", gap)) +
		metaStyle.Render(meta)
}
