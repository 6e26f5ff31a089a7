package console

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("navsync console"))
	b.WriteString("\n\n")

	st := m.router.State()
	row := func(label, value string) {
		b.WriteString(s.Label.Render(label))
		b.WriteString(s.Value.Render(value))
		b.WriteString("\n")
	}
	row("url", m.mem.URL())
	active := "(home)"
	if f := m.rec.ActiveFilter(); f != nil {
		active = f.String()
		if active == "" {
			active = "(all messages)"
		}
	}
	row("view", active)
	group := m.router.Registry().GroupName(st.CurrentGroup)
	if group == "" {
		group = "-"
	}
	row("overlay", group)
	prev := "-"
	if st.HasPreviousNonOverlay {
		prev = st.PreviousNonOverlay
	}
	row("return to", prev)
	lastOld := st.LastRawOld
	if lastOld == "" {
		lastOld = "-"
	}
	row("came from", lastOld)
	row("suppress", fmt.Sprint(st.SuppressNextOnce))

	var calls []string
	all := m.rec.Calls()
	if len(all) > 8 {
		all = all[len(all)-8:]
	}
	for _, c := range all {
		calls = append(calls, s.Call.Render(c))
	}
	b.WriteString(s.Panel.Render("calls\n" + strings.Join(calls, "\n")))
	b.WriteString("\n")

	var events []string
	for _, e := range m.events {
		events = append(events, s.Notice.Render(e))
	}
	b.WriteString(s.Panel.Render("events\n" + strings.Join(events, "\n")))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(s.Error.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(m.help)
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(s.Help.Render("enter: go to fragment  ctrl+s: save filter  ctrl+b/ctrl+f: back/forward  ctrl+x: exit overlay  f1: help  ctrl+c: quit"))
	return b.String()
}
