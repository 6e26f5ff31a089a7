package router

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"navsync/internal/location"
	"navsync/internal/narrow"
)

// primary shows the primary view for fragment. Callers hold the writer
// guard. It reports whether a filtered view was activated.
func (r *Router) primary(fragment string, fromReload bool) (bool, error) {
	if expected, ok := r.writer.Expected(); ok {
		if expected == fragment || (location.IsEmpty(expected) && location.IsEmpty(fragment)) {
			return false, nil
		}
	}

	tokens := strings.Split(fragment, "/")
	switch tokens[0] {
	case narrow.Marker:
		r.collab.Views.ActivateTab(r.homeTab)
		f, err := r.codec.DecodeTokens(tokens)
		if err != nil {
			r.logger.Warn("unparseable narrow fragment, returning home",
				zap.String("fragment", fragment), zap.Error(err))
			if werr := r.writer.Write(""); werr != nil {
				return false, fmt.Errorf("reset fragment: %w", werr)
			}
			r.activateHome()
			return false, nil
		}
		opts := ActivateOptions{
			SelectFirstUnread: true,
			ChangeHash:        false,
			Trigger:           "hash change",
		}
		if fromReload && r.pointer != 0 {
			opts.ThenSelectID = r.pointer
		}
		r.collab.Narrow.Activate(f, opts)
		r.collab.Floating.Update()
		return true, nil
	case "", "#":
		r.activateHome()
	case "#" + TabSubscriptions:
		r.collab.Views.ActivateTab(TabSubscriptions)
	case "#" + TabAdministration:
		r.collab.Views.ActivateTab(TabAdministration)
	case "#" + TabSettings:
		r.collab.Views.ActivateTab(TabSettings)
	}
	return false, nil
}

func (r *Router) activateHome() {
	r.collab.Views.ActivateTab(r.homeTab)
	r.collab.Narrow.Deactivate()
	r.collab.Floating.Update()
}
