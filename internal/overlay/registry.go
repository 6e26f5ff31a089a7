// Package overlay classifies fragments that open full-page overlays
// (settings, administration, subscriptions) and groups them into sections.
//
// Moving between two fragments of the same group is navigation inside one
// section; moving between groups is a section change.
package overlay

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTable is returned when an overlay table is inconsistent.
var ErrInvalidTable = errors.New("invalid overlay table")

// Well-known overlay prefixes.
const (
	Subscriptions  = "subscriptions"
	Settings       = "settings"
	Administration = "administration"
)

// GroupID is a group's index in the registry table.
type GroupID int

// NoGroup is returned for segments outside every group.
const NoGroup GroupID = -1

// Group is a named set of overlay prefixes.
type Group struct {
	Name     string   `yaml:"name"`
	Prefixes []string `yaml:"prefixes"`
}

// Registry is an immutable overlay table.
type Registry struct {
	prefixes map[string]struct{}
	groups   []Group
}

// DefaultRegistry returns the built-in table: subscriptions on their own,
// settings and administration sharing one group.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		[]string{Subscriptions, Settings, Administration},
		[]Group{
			{Name: "subscriptions", Prefixes: []string{Subscriptions}},
			{Name: "settings", Prefixes: []string{Settings, Administration}},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// NewRegistry builds a registry. prefixes drives IsOverlay; groups drives
// GroupOf and must only reference listed prefixes.
func NewRegistry(prefixes []string, groups []Group) (*Registry, error) {
	r := &Registry{prefixes: make(map[string]struct{}, len(prefixes))}
	for _, p := range prefixes {
		if strings.TrimSpace(p) == "" || strings.ContainsAny(p, "#/") {
			return nil, fmt.Errorf("%w: bad prefix %q", ErrInvalidTable, p)
		}
		r.prefixes[p] = struct{}{}
	}
	for i, g := range groups {
		if g.Name == "" {
			return nil, fmt.Errorf("%w: group %d has no name", ErrInvalidTable, i)
		}
		for _, p := range g.Prefixes {
			if _, ok := r.prefixes[p]; !ok {
				return nil, fmt.Errorf("%w: group %q lists unknown prefix %q", ErrInvalidTable, g.Name, p)
			}
		}
		r.groups = append(r.groups, Group{Name: g.Name, Prefixes: append([]string(nil), g.Prefixes...)})
	}
	return r, nil
}

// MainSegment returns the first '/'-delimited token of fragment with a
// leading '#' removed.
func MainSegment(fragment string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	head, _, _ := strings.Cut(fragment, "/")
	return head
}

// IsOverlay reports whether fragment opens an overlay.
func (r *Registry) IsOverlay(fragment string) bool {
	_, ok := r.prefixes[MainSegment(fragment)]
	return ok
}

// GroupOf returns the first group containing segment.
func (r *Registry) GroupOf(segment string) GroupID {
	for i, g := range r.groups {
		for _, p := range g.Prefixes {
			if p == segment {
				return GroupID(i)
			}
		}
	}
	return NoGroup
}

// GroupName returns the name of id, or "" for NoGroup and unknown ids.
func (r *Registry) GroupName(id GroupID) string {
	if id < 0 || int(id) >= len(r.groups) {
		return ""
	}
	return r.groups[id].Name
}

// Groups returns a copy of the group table.
func (r *Registry) Groups() []Group {
	out := make([]Group, len(r.groups))
	copy(out, r.groups)
	return out
}
