package store

import (
	_ "embed"
	"encoding/json"

	"todo-cli/internal/model"
)

//go:embed seed.json
var seedJSON []byte

// Seed returns a fresh copy of the bundled starter list, used when nothing has been persisted.
func Seed() []model.Item {
	var items []model.Item
	if err := json.Unmarshal(seedJSON, &items); err != nil {
		// The seed is compiled in; a decode failure is a build defect.
		panic("store: invalid seed.json: " + err.Error())
	}
	return items
}
