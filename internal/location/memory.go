package location

import (
	"errors"
	"strings"
	"sync"
)

// DefaultChangeBuffer is the number of undelivered changes Memory holds.
const DefaultChangeBuffer = 128

// Memory is an in-process browser tab: a history stack of fragments plus
// the change notifications a real browser would deliver. It backs tests and
// the console.
type Memory struct {
	mu        sync.Mutex
	origin    string
	path      string
	pushState bool
	entries   []string
	index     int
	changes   chan Change
	dropped   int
	lastPush  string
}

// MemoryOption configures a Memory.
type MemoryOption func(*Memory)

// WithoutPushState makes the tab report no history push support, so writers
// fall back to direct assignment.
func WithoutPushState() MemoryOption {
	return func(m *Memory) { m.pushState = false }
}

// WithPath sets the page path.
func WithPath(path string) MemoryOption {
	return func(m *Memory) { m.path = path }
}

// WithChangeBuffer sets how many undelivered changes are kept.
func WithChangeBuffer(n int) MemoryOption {
	return func(m *Memory) {
		if n > 0 {
			m.changes = make(chan Change, n)
		}
	}
}

// NewMemory opens a tab at origin with the initial fragment.
func NewMemory(origin, initial string, opts ...MemoryOption) *Memory {
	m := &Memory{
		origin:    strings.TrimSuffix(origin, "/"),
		path:      "/",
		pushState: true,
		entries:   []string{initial},
		changes:   make(chan Change, DefaultChangeBuffer),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Hash implements Location.
func (m *Memory) Hash() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return displayHash(m.entries[m.index]), nil
}

// SetHash implements Location.
func (m *Memory) SetHash(fragment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignLocked(fragment)
	return nil
}

// CanPushState implements Location.
func (m *Memory) CanPushState() bool { return m.pushState }

// PushState implements Location. Only the fragment of url is kept.
func (m *Memory) PushState(url string) error {
	if !m.pushState {
		return errors.New("history push not supported")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPush = url
	fragment := ""
	if i := strings.IndexByte(url, '#'); i >= 0 {
		fragment = url[i:]
	}
	m.appendLocked(fragment)
	return nil
}

// Origin implements Location.
func (m *Memory) Origin() (string, error) { return m.origin, nil }

// Pathname implements Location.
func (m *Memory) Pathname() (string, error) { return m.path, nil }

// URL returns the full address of the current entry.
func (m *Memory) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.urlLocked(m.index)
}

// LastPushed returns the URL of the most recent PushState call.
func (m *Memory) LastPushed() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPush
}

// Navigate simulates the user editing the address bar.
func (m *Memory) Navigate(fragment string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignLocked(fragment)
}

// Back moves one entry back. It reports false at the start of history.
func (m *Memory) Back() bool {
	return m.step(-1)
}

// Forward moves one entry forward. It reports false at the end of history.
func (m *Memory) Forward() bool {
	return m.step(1)
}

// Changes delivers fragment-change notifications in order.
func (m *Memory) Changes() <-chan Change { return m.changes }

// Drain removes and returns every pending change.
func (m *Memory) Drain() []Change {
	var out []Change
	for {
		select {
		case c := <-m.changes:
			out = append(out, c)
		default:
			return out
		}
	}
}

// Dropped returns how many changes were discarded because the buffer was full.
func (m *Memory) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// History returns the fragments of every entry and the current index.
func (m *Memory) History() ([]string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries...), m.index
}

func (m *Memory) step(delta int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.index + delta
	if next < 0 || next >= len(m.entries) {
		return false
	}
	old := m.index
	m.index = next
	if displayHash(m.entries[old]) != displayHash(m.entries[next]) {
		m.emitLocked(NewChange(m.urlLocked(old), m.urlLocked(next)))
	}
	return true
}

func (m *Memory) assignLocked(fragment string) {
	fragment = Normalize(fragment)
	if displayHash(fragment) == displayHash(m.entries[m.index]) {
		return
	}
	oldURL := m.urlLocked(m.index)
	m.appendLocked(fragment)
	m.emitLocked(NewChange(oldURL, m.urlLocked(m.index)))
}

func (m *Memory) appendLocked(fragment string) {
	m.entries = append(m.entries[:m.index+1], fragment)
	m.index = len(m.entries) - 1
}

func (m *Memory) emitLocked(c Change) {
	select {
	case m.changes <- c:
	default:
		m.dropped++
	}
}

func (m *Memory) urlLocked(i int) string {
	return m.origin + m.path + m.entries[i]
}

func displayHash(fragment string) string {
	if IsEmpty(fragment) {
		return ""
	}
	return fragment
}
