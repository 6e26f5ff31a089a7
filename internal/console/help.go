package console

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Keys

| key | action |
| --- | --- |
| enter | go to the typed fragment |
| ctrl+s | save the typed search as the current filter |
| ctrl+b | history back |
| ctrl+f | history forward |
| ctrl+x | exit the open overlay |
| f1 | toggle this help |
| ctrl+c | quit |

Fragments look like ` + "`#narrow/stream/Denmark/topic/party`" + ` or ` + "`#settings/profile`" + `.
Searches look like ` + "`stream:Denmark -topic:party`" + `.
`

// renderHelp renders the key reference. It falls back to the raw markdown
// when rendering fails.
func renderHelp(width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
