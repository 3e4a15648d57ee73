package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style + wrap width. WithAutoStyle can block on terminal queries, so a fixed
	// style is used and renderers are reused.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

const helpMarkdown = `
# Keys

| Key | Action |
|---|---|
| ` + "`j` `k` / arrows" + ` | move the cursor |
| ` + "`space` `enter`" + ` | select / deselect the item under the cursor |
| ` + "`x`" + ` | toggle completed |
| ` + "`a`" + ` | add an item |
| ` + "`/`" + ` | filter (live) |
| ` + "`e`" + ` | edit the selected item (` + "`ctrl+s`" + ` save, ` + "`esc`" + ` cancel) |
| ` + "`d`" + ` | delete the selection |
| ` + "`A`" + ` | select every visible item |
| ` + "`esc`" + ` | clear the selection |
| ` + "`y`" + ` | copy selected text |
| ` + "`r`" + ` | reload from disk |
| ` + "`q`" + ` | quit |

Clicking a row selects it; clicking it again deselects it. Clicking outside the list clears
the selection.
`

func renderMarkdown(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	if style != "light" {
		style = "dark"
	}

	key := style + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if style == "light" {
		cfg = styles.LightStyleConfig
	}

	heading := mdColor(colorSurfaceFg, style)
	cfg.Heading.Color = heading
	cfg.H1.Color = heading
	cfg.H1.BackgroundColor = nil
	cfg.Code.Color = mdColor(colorAccent, style)
	cfg.Code.BackgroundColor = nil
	cfg.Text.Color = mdColor(colorSurfaceFg, style)
	return cfg
}

func mdColor(c lipgloss.AdaptiveColor, style string) *string {
	s := c.Dark
	if style == "light" {
		s = c.Light
	}
	return &s
}
