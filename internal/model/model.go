package model

import "time"

// CreatedAtLayout is the display layout used for Item.CreatedAt.
const CreatedAtLayout = "1/2/2006, 3:04:05 PM"

type Item struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`

	// CreatedAt is a display string (see CreatedAtLayout), not a machine timestamp.
	// Seed and imported items may carry other formats; it is never parsed.
	CreatedAt string `json:"createdAt"`
}

func FormatCreatedAt(t time.Time) string {
	return t.Local().Format(CreatedAtLayout)
}

// CloneItems returns a copy of items that shares no backing array with the input.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func IndexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
