// Package console is an interactive terminal front end for the router. It
// drives a router against the in-memory browser so fragment handling can be
// explored by typing fragments and pressing history keys.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"navsync/internal/location"
	"navsync/internal/narrow"
	"navsync/internal/router"
)

// maxEvents caps the event log.
const maxEvents = 12

// Model is the bubbletea model of the console.
type Model struct {
	mem    *location.Memory
	router *router.Router
	rec    *router.Recorder
	logger *zap.Logger

	input  textinput.Model
	styles Styles
	events []string
	err    error
	width  int

	showHelp bool
	help     string
}

// New builds a console over mem. It runs the startup dispatch.
func New(mem *location.Memory, opts router.Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	rec := &router.Recorder{}
	r := router.New(mem, rec.Collaborators(), opts)
	r.Writer().OnBeforeChange(rec.BeforeChange)

	in := textinput.New()
	in.Placeholder = "#narrow/stream/Denmark"
	in.Prompt = "> "
	in.CharLimit = 512
	in.Focus()

	m := Model{
		mem:    mem,
		router: r,
		rec:    rec,
		logger: opts.Logger,
		input:  in,
		styles: DefaultStyles(),
	}
	changed, err := r.Initialize()
	if err != nil {
		return Model{}, fmt.Errorf("initialize router: %w", err)
	}
	m.record("startup", changed)
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			m.navigate(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			return m, nil
		case tea.KeyCtrlB:
			m.step("back", m.mem.Back)
			return m, nil
		case tea.KeyCtrlF:
			m.step("forward", m.mem.Forward)
			return m, nil
		case tea.KeyCtrlX:
			m.exitOverlay()
			return m, nil
		case tea.KeyCtrlS:
			m.saveFilter(m.input.Value())
			m.input.SetValue("")
			return m, nil
		case tea.KeyF1:
			m.showHelp = !m.showHelp
			if m.showHelp {
				m.help = renderHelp(m.width)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) navigate(fragment string) {
	m.err = nil
	m.mem.Navigate(fragment)
	m.pump("navigate " + location.Normalize(fragment))
}

func (m *Model) step(what string, move func() bool) {
	m.err = nil
	if !move() {
		m.note(what + ": no history")
		return
	}
	m.pump(what)
}

func (m *Model) exitOverlay() {
	m.err = nil
	called := false
	if err := m.router.ExitOverlay(func() { called = true }); err != nil {
		m.fail(err)
		return
	}
	if !called {
		m.note("exit: not in an overlay")
		return
	}
	m.pump("exit overlay")
}

func (m *Model) saveFilter(query string) {
	m.err = nil
	f, err := narrow.ParseFilter(query)
	if err != nil {
		m.fail(err)
		return
	}
	if len(f) == 0 {
		f = nil
	}
	if err := m.router.SaveFilter(f); err != nil {
		m.fail(err)
		return
	}
	m.note("saved " + m.router.Codec().Encode(f))
	m.pump("save")
}

// pump hands every pending change to the router.
func (m *Model) pump(cause string) {
	changes := m.mem.Drain()
	if len(changes) == 0 {
		m.note(cause + ": no hashchange")
		return
	}
	for _, c := range changes {
		changed, err := m.router.HandleChange(c)
		if err != nil {
			m.fail(err)
			continue
		}
		m.record(cause+" "+c.OldFragment()+" -> "+c.NewFragment(), changed)
	}
}

func (m *Model) record(what string, changed bool) {
	if changed {
		what += " [view changed]"
	}
	m.note(what)
}

func (m *Model) note(line string) {
	m.logger.Debug("console", zap.String("event", line))
	m.events = append(m.events, line)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
}

func (m *Model) fail(err error) {
	m.err = err
	m.logger.Warn("console action failed", zap.Error(err))
}

// Router returns the router being driven.
func (m Model) Router() *router.Router { return m.router }

// Recorder returns the collaborator recorder.
func (m Model) Recorder() *router.Recorder { return m.rec }

// Events returns the event log, oldest first.
func (m Model) Events() []string { return append([]string(nil), m.events...) }

// HelpVisible reports whether the key reference is shown.
func (m Model) HelpVisible() bool { return m.showHelp }

// Err returns the error of the last action, if any.
func (m Model) Err() error { return m.err }
