package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"todo-cli/internal/controller"
	"todo-cli/internal/model"
)

type todoListItem struct {
	item     model.Item
	selected bool
	editing  bool
}

func (i todoListItem) FilterValue() string { return i.item.Text }
func (i todoListItem) Title() string       { return i.item.Text }

func listItemsFromState(st controller.State) []list.Item {
	out := make([]list.Item, 0, len(st.Visible))
	for _, it := range st.Visible {
		out = append(out, todoListItem{
			item:     it,
			selected: st.IsSelected(it.ID),
			editing:  st.Edit != nil && st.Edit.TargetID == it.ID,
		})
	}
	return out
}
