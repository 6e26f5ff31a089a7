package router

import (
	"strings"
	"sync"

	"navsync/internal/narrow"
)

// Recorder implements every collaborator by recording the calls it
// receives. Call names look like "tab:home", "narrow.activate:stream:x",
// "overlay.settings" or "modals.close".
type Recorder struct {
	mu       sync.Mutex
	calls    []string
	lastOpts ActivateOptions
	active   narrow.Filter
}

// Collaborators binds every collaborator to rec.
func (rec *Recorder) Collaborators() Collaborators {
	return Collaborators{
		Views:    rec,
		Narrow:   rec,
		Overlays: rec,
		Modals:   rec,
		Focus:    rec,
		Floating: rec,
		Badge:    rec,
	}
}

func (rec *Recorder) add(call string) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.calls = append(rec.calls, call)
}

// Calls returns a copy of every recorded call.
func (rec *Recorder) Calls() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]string(nil), rec.calls...)
}

// Count returns how many calls start with prefix.
func (rec *Recorder) Count(prefix string) int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	n := 0
	for _, c := range rec.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// BeforeChange records a pre-change hook run. Register it with
// Writer.OnBeforeChange.
func (rec *Recorder) BeforeChange() { rec.add("hash.before_change") }

// Clear forgets recorded calls.
func (rec *Recorder) Clear() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.calls = nil
}

// LastOptions returns the options of the most recent narrow activation.
func (rec *Recorder) LastOptions() ActivateOptions {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.lastOpts
}

// ActiveFilter returns the filter currently shown, or nil on the home view.
func (rec *Recorder) ActiveFilter() narrow.Filter {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.active
}

func (rec *Recorder) ActivateTab(id string) { rec.add("tab:" + id) }

func (rec *Recorder) Activate(f narrow.Filter, opts ActivateOptions) {
	rec.mu.Lock()
	rec.lastOpts = opts
	rec.active = f
	rec.mu.Unlock()
	rec.add("narrow.activate:" + f.String())
}

func (rec *Recorder) Deactivate() {
	rec.mu.Lock()
	rec.active = nil
	rec.mu.Unlock()
	rec.add("narrow.deactivate")
}

func (rec *Recorder) SubscriptionsSetup()  { rec.add("overlay.subscriptions") }
func (rec *Recorder) SettingsSetup()       { rec.add("overlay.settings") }
func (rec *Recorder) AdministrationSetup() { rec.add("overlay.administration") }
func (rec *Recorder) CloseAll()            { rec.add("modals.close") }
func (rec *Recorder) BlurActive()          { rec.add("focus.blur") }
func (rec *Recorder) Update()              { rec.add("floating.update") }
func (rec *Recorder) Reset()               { rec.add("badge.reset") }
