// Package router keeps the navigation fragment and the visible view in
// sync.
//
// Every fragment change is classified as an overlay transition, a
// primary-view transition, or the router's own corrective write, which is
// swallowed. Router state lives in one Router value; all methods must be
// called from a single goroutine (Run provides one).
package router

import (
	"fmt"

	"go.uber.org/zap"

	"navsync/internal/location"
	"navsync/internal/narrow"
	"navsync/internal/overlay"
)

// State is the dispatcher's memory between changes.
type State struct {
	// SuppressNextOnce swallows exactly the next non-overlay change. It is
	// set by ExitOverlay.
	SuppressNextOnce bool
	// PreviousNonOverlay is the fragment that was showing when the current
	// overlay section was entered.
	PreviousNonOverlay    string
	HasPreviousNonOverlay bool
	// LastRawOld is the old fragment of the most recent change.
	LastRawOld   string
	CurrentGroup overlay.GroupID
}

// Options configures a Router.
type Options struct {
	Registry *overlay.Registry
	Codec    narrow.Codec
	// HomeTab is the tab shown for the home view and for narrows;
	// TabHome if empty.
	HomeTab string
	// InitialPointer is the message a reloaded narrow view resumes at;
	// zero means none.
	InitialPointer int64
	Logger         *zap.Logger
}

// Router is the hash dispatcher.
type Router struct {
	loc      location.Location
	writer   *location.Writer
	collab   Collaborators
	registry *overlay.Registry
	codec    narrow.Codec
	homeTab  string
	pointer  int64
	logger   *zap.Logger

	state       State
	initialized bool
	tasks       chan func()
}

// New returns a router for loc.
func New(loc location.Location, collab Collaborators, opts Options) *Router {
	if opts.Registry == nil {
		opts.Registry = overlay.DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.HomeTab == "" {
		opts.HomeTab = TabHome
	}
	collab = collab.withDefaults()
	return &Router{
		loc:      loc,
		writer:   location.NewWriter(loc, opts.Codec, collab.Badge, opts.Logger),
		collab:   collab,
		registry: opts.Registry,
		codec:    opts.Codec,
		homeTab:  opts.HomeTab,
		pointer:  opts.InitialPointer,
		logger:   opts.Logger,
		state:    State{CurrentGroup: overlay.NoGroup},
		tasks:    make(chan func()),
	}
}

// Writer returns the router's fragment writer.
func (r *Router) Writer() *location.Writer { return r.writer }

// Codec returns the filter codec.
func (r *Router) Codec() narrow.Codec { return r.codec }

// Registry returns the overlay table in use.
func (r *Router) Registry() *overlay.Registry { return r.registry }

// SetRegistry replaces the overlay table. The current group is kept.
func (r *Router) SetRegistry(reg *overlay.Registry) {
	if reg != nil {
		r.registry = reg
	}
}

// State returns a copy of the dispatcher state.
func (r *Router) State() State { return r.state }

// Initialized reports whether the startup dispatch has run.
func (r *Router) Initialized() bool { return r.initialized }

// Initialize runs the startup dispatch for the page's initial fragment. It
// reports whether a filtered view was activated.
func (r *Router) Initialize() (bool, error) {
	r.initialized = true
	current, err := r.loc.Hash()
	if err != nil {
		return false, fmt.Errorf("read initial fragment: %w", err)
	}
	r.logger.Info("router initialized", zap.String("fragment", current))
	return r.dispatch(current, current, true)
}

// HandleChange dispatches one fragment change. It reports whether a
// filtered view was activated.
func (r *Router) HandleChange(c location.Change) (bool, error) {
	current := c.NewFragment()
	if location.IsEmpty(current) {
		current = ""
	}
	changed, err := r.dispatch(current, c.OldFragment(), false)
	r.logger.Debug("fragment change handled",
		zap.String("id", c.ID),
		zap.String("old", c.OldFragment()),
		zap.String("new", current),
		zap.Bool("view_changed", changed))
	return changed, err
}

// dispatch handles current, the fragment a change arrived at, coming from
// old.
func (r *Router) dispatch(current, old string, fromReload bool) (bool, error) {
	r.state.LastRawOld = old

	if r.registry.IsOverlay(current) {
		r.enterOverlay(current, old)
		return false, nil
	}

	if r.state.SuppressNextOnce {
		r.state.SuppressNextOnce = false
		r.logger.Debug("suppressed corrective change", zap.String("fragment", current))
		return false, nil
	}

	r.collab.Modals.CloseAll()
	var (
		changed bool
		err     error
	)
	r.writer.Hold(func() {
		changed, err = r.primary(current, fromReload)
	})
	return changed, err
}

func (r *Router) enterOverlay(current, old string) {
	base := overlay.MainSegment(current)
	oldWasOverlay := r.registry.IsOverlay(old)
	group := r.registry.GroupOf(base)

	if oldWasOverlay && group == r.state.CurrentGroup {
		return
	}
	if group != r.state.CurrentGroup {
		r.collab.Modals.CloseAll()
	}
	if !oldWasOverlay {
		r.state.PreviousNonOverlay = old
		r.state.HasPreviousNonOverlay = true
	}

	switch base {
	case overlay.Subscriptions:
		r.collab.Overlays.SubscriptionsSetup()
	case overlay.Settings, overlay.Administration:
		r.collab.Overlays.SettingsSetup()
		r.collab.Overlays.AdministrationSetup()
	default:
		r.logger.Debug("overlay has no setup", zap.String("overlay", base))
	}
	r.state.CurrentGroup = group
	r.logger.Debug("entered overlay",
		zap.String("overlay", base),
		zap.String("group", r.registry.GroupName(group)))
}

// ExitOverlay leaves the current overlay and returns to the fragment that
// was showing before it, or to home. callback may be nil. It does nothing
// when no overlay is showing.
func (r *Router) ExitOverlay(callback func()) error {
	current, err := r.loc.Hash()
	if err != nil {
		return fmt.Errorf("read fragment: %w", err)
	}
	if !r.registry.IsOverlay(current) {
		return nil
	}

	r.collab.Focus.BlurActive()
	r.state.SuppressNextOnce = true
	target := "#"
	if r.state.HasPreviousNonOverlay {
		target = r.state.PreviousNonOverlay
	}
	if err := r.loc.SetHash(target); err != nil {
		// No corrective change is coming.
		r.state.SuppressNextOnce = false
		return fmt.Errorf("restore fragment %q: %w", target, err)
	}
	if callback != nil {
		callback()
	}
	r.collab.Modals.CloseAll()
	return nil
}

// SaveFilter writes the fragment for f on behalf of the application.
func (r *Router) SaveFilter(f narrow.Filter) error {
	return r.writer.SaveFilter(f)
}

// ChangeTo writes fragment on behalf of the application.
func (r *Router) ChangeTo(fragment string) error {
	return r.writer.ChangeTo(fragment)
}
