package router

import (
	"navsync/internal/location"
	"navsync/internal/narrow"
)

// Tab identifiers passed to ViewSwitcher.
const (
	TabHome           = "home"
	TabSubscriptions  = "subscriptions"
	TabAdministration = "administration"
	TabSettings       = "settings"
)

// ActivateOptions tells the narrow controller how to open a filtered view.
type ActivateOptions struct {
	SelectFirstUnread bool
	// ChangeHash is false when the fragment already reflects the filter.
	ChangeHash bool
	Trigger    string
	// ThenSelectID is the message to select once the view is open; zero
	// means none.
	ThenSelectID int64
}

// ViewSwitcher switches the visible top-level tab.
type ViewSwitcher interface {
	ActivateTab(id string)
}

// NarrowController opens and closes filtered views.
type NarrowController interface {
	Activate(f narrow.Filter, opts ActivateOptions)
	Deactivate()
}

// OverlaySetup populates overlay pages.
type OverlaySetup interface {
	SubscriptionsSetup()
	SettingsSetup()
	AdministrationSetup()
}

// ModalManager closes open dialogs.
type ModalManager interface {
	CloseAll()
}

// FocusManager owns keyboard focus.
type FocusManager interface {
	BlurActive()
}

// FloatingBar is the recipient bar pinned over the message list.
type FloatingBar interface {
	Update()
}

// Collaborators are the views the router drives. Nil members are replaced
// with no-ops.
type Collaborators struct {
	Views    ViewSwitcher
	Narrow   NarrowController
	Overlays OverlaySetup
	Modals   ModalManager
	Focus    FocusManager
	Floating FloatingBar
	Badge    location.Badge
}

func (c Collaborators) withDefaults() Collaborators {
	var n nop
	if c.Views == nil {
		c.Views = n
	}
	if c.Narrow == nil {
		c.Narrow = n
	}
	if c.Overlays == nil {
		c.Overlays = n
	}
	if c.Modals == nil {
		c.Modals = n
	}
	if c.Focus == nil {
		c.Focus = n
	}
	if c.Floating == nil {
		c.Floating = n
	}
	if c.Badge == nil {
		c.Badge = n
	}
	return c
}

type nop struct{}

func (nop) ActivateTab(string)                      {}
func (nop) Activate(narrow.Filter, ActivateOptions) {}
func (nop) Deactivate()                             {}
func (nop) SubscriptionsSetup()                     {}
func (nop) SettingsSetup()                          {}
func (nop) AdministrationSetup()                    {}
func (nop) CloseAll()                               {}
func (nop) BlurActive()                             {}
func (nop) Update()                                 {}
func (nop) Reset()                                  {}
