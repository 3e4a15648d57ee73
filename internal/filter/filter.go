// Package filter derives the visible subset of items for a free-text query.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"todo-cli/internal/model"
)

// Apply returns the items whose text contains q, ignoring case, in their original order.
// An empty q returns every item.
func Apply(items []model.Item, q string) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if Match(it, q) {
			out = append(out, it)
		}
	}
	return out
}

// Match reports whether the item's text contains q, ignoring case. An empty q matches everything.
func Match(it model.Item, q string) bool {
	if q == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(it.Text), fold.String(q))
}
