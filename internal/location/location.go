// Package location abstracts the page's navigation fragment and provides the
// Fragment Writer that every application-initiated fragment change goes
// through.
package location

import (
	"strings"

	"github.com/google/uuid"
)

// Location is the page address as the router sees it.
type Location interface {
	// Hash returns the fragment including its '#', or "" when the page
	// has no fragment or an empty one.
	Hash() (string, error)
	// SetHash assigns the fragment directly. This creates a history entry
	// and fires a change when the fragment differs.
	SetHash(fragment string) error
	// CanPushState reports whether PushState is supported.
	CanPushState() bool
	// PushState adds a history entry for url without firing a change.
	PushState(url string) error
	// Origin returns protocol and host, e.g. "https://chat.example.com".
	Origin() (string, error)
	// Pathname returns the path of the page URL.
	Pathname() (string, error)
}

// Change is one fragment-change notification.
type Change struct {
	ID     string
	OldURL string
	NewURL string
}

// NewChange stamps a change with a fresh ID.
func NewChange(oldURL, newURL string) Change {
	return Change{ID: uuid.NewString(), OldURL: oldURL, NewURL: newURL}
}

// OldFragment returns the fragment the page navigated away from.
func (c Change) OldFragment() string { return FragmentOf(c.OldURL) }

// NewFragment returns the fragment the page navigated to.
func (c Change) NewFragment() string { return FragmentOf(c.NewURL) }

// FragmentOf returns "#" followed by everything after the first '#' of url,
// with any further '#' characters removed. A URL without '#' yields "#".
func FragmentOf(url string) string {
	parts := strings.Split(url, "#")
	return "#" + strings.Join(parts[1:], "")
}

// Normalize returns fragment with a leading '#'.
func Normalize(fragment string) string {
	if fragment == "" || fragment[0] != '#' {
		return "#" + fragment
	}
	return fragment
}

// IsEmpty reports whether fragment is one of the two empty forms, "" and "#".
func IsEmpty(fragment string) bool {
	return fragment == "" || fragment == "#"
}
