package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"todo-cli/internal/model"
)

// WriteText renders an output envelope for humans.
//
// Item data becomes a table; anything else is flattened into key/value rows. The
// meta object, if any, follows as "key: value" lines.
func WriteText(w io.Writer, v any) error {
	data, meta, err := splitEnvelope(v)
	if err != nil {
		return err
	}

	var b strings.Builder
	switch d := data.(type) {
	case nil:
		b.WriteString("(none)\n")
	case model.Item:
		b.WriteString(itemTable([]model.Item{d}))
		b.WriteByte('\n')
	case *model.Item:
		if d == nil {
			b.WriteString("(none)\n")
		} else {
			b.WriteString(itemTable([]model.Item{*d}))
			b.WriteByte('\n')
		}
	case []model.Item:
		if len(d) == 0 {
			b.WriteString("(no items)\n")
		} else {
			b.WriteString(itemTable(d))
			b.WriteByte('\n')
		}
	default:
		s, err := kvTable(d)
		if err != nil {
			return err
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, meta[k])
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func splitEnvelope(v any) (any, map[string]any, error) {
	env, ok := v.(map[string]any)
	if !ok {
		return v, nil, nil
	}
	data, ok := env["data"]
	if !ok {
		return v, nil, nil
	}
	var meta map[string]any
	switch m := env["meta"].(type) {
	case nil:
	case map[string]any:
		meta = m
	default:
		return nil, nil, fmt.Errorf("unexpected meta type %T", m)
	}
	return data, meta, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func itemTable(items []model.Item) string {
	t := newTable().Headers("ID", "DONE", "TEXT", "CREATED")
	for _, it := range items {
		done := "[ ]"
		if it.Completed {
			done = "[x]"
		}
		t.Row(it.ID, done, oneLine(it.Text), it.CreatedAt)
	}
	return t.String()
}

// kvTable renders any JSON-marshalable value as two columns.
func kvTable(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return string(b), nil
	}
	rows := map[string]string{}
	flatten("", m, rows)
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	t := newTable().Headers("KEY", "VALUE")
	for _, k := range keys {
		t.Row(k, rows[k])
	}
	return t.String(), nil
}

func flatten(prefix string, m map[string]any, out map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(key, sub, out)
			continue
		}
		out[key] = fmt.Sprint(v)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
