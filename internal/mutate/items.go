// Package mutate holds the pure snapshot transformations behind every item mutation.
//
// Each function leaves its input untouched and returns a new slice plus whether anything
// changed, so callers can swap snapshots whole and skip persistence for no-ops.
package mutate

import "todo-cli/internal/model"

// Prepend returns items with it placed first.
func Prepend(items []model.Item, it model.Item) []model.Item {
	out := make([]model.Item, 0, len(items)+1)
	out = append(out, it)
	return append(out, items...)
}

// Delete removes every item whose id is in ids. Unknown ids are ignored.
func Delete(items []model.Item, ids []string) ([]model.Item, int) {
	if len(ids) == 0 {
		return items, 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if _, ok := drop[it.ID]; ok {
			continue
		}
		out = append(out, it)
	}
	removed := len(items) - len(out)
	if removed == 0 {
		return items, 0
	}
	return out, removed
}

// ToggleCompleted flips Completed on the item with id.
func ToggleCompleted(items []model.Item, id string) ([]model.Item, bool) {
	i := model.IndexOf(items, id)
	if i < 0 {
		return items, false
	}
	out := model.CloneItems(items)
	out[i].Completed = !out[i].Completed
	return out, true
}

// Rename replaces Text on the item with id. Setting the same text is not a change.
func Rename(items []model.Item, id, text string) ([]model.Item, bool) {
	i := model.IndexOf(items, id)
	if i < 0 || items[i].Text == text {
		return items, false
	}
	out := model.CloneItems(items)
	out[i].Text = text
	return out, true
}
