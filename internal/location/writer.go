package location

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"navsync/internal/narrow"
)

// Badge is the unread indicator reset after every application-initiated
// fragment change.
type Badge interface {
	Reset()
}

// Writer performs application-initiated fragment changes.
//
// While the guard is held (see Hold) ChangeTo and SaveFilter do nothing, so a
// view activated by the router cannot write the fragment it was activated
// from.
type Writer struct {
	loc    Location
	codec  narrow.Codec
	badge  Badge
	logger *zap.Logger

	hooks       []func()
	held        bool
	expected    string
	expectedSet bool
}

// NewWriter returns a writer for loc. badge and logger may be nil.
func NewWriter(loc Location, codec narrow.Codec, badge Badge, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{loc: loc, codec: codec, badge: badge, logger: logger}
}

// OnBeforeChange registers fn to run before every ChangeTo write.
func (w *Writer) OnBeforeChange(fn func()) {
	w.hooks = append(w.hooks, fn)
}

// Write sets the fragment, preferring a history push over direct
// assignment.
func (w *Writer) Write(fragment string) error {
	fragment = Normalize(fragment)
	if !w.loc.CanPushState() {
		if err := w.loc.SetHash(fragment); err != nil {
			return fmt.Errorf("assign fragment %q: %w", fragment, err)
		}
		return nil
	}

	origin, err := w.loc.Origin()
	if err != nil {
		return fmt.Errorf("read origin: %w", err)
	}
	path, err := w.loc.Pathname()
	if err != nil {
		w.logger.Debug("pathname unavailable, using /", zap.Error(err))
		path = "/"
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	url := strings.TrimSuffix(origin, "/") + path + fragment
	if err := w.loc.PushState(url); err != nil {
		return fmt.Errorf("push %q: %w", url, err)
	}
	return nil
}

// ChangeTo moves the page to fragment on behalf of the application.
func (w *Writer) ChangeTo(fragment string) error {
	if w.held {
		w.logger.Debug("fragment change suppressed during dispatch", zap.String("fragment", fragment))
		return nil
	}
	for _, fn := range w.hooks {
		fn()
	}
	if err := w.Write(fragment); err != nil {
		return err
	}
	w.expected, w.expectedSet = Normalize(fragment), true
	if w.badge != nil {
		w.badge.Reset()
	}
	return nil
}

// SaveFilter records f as the current fragment.
func (w *Writer) SaveFilter(f narrow.Filter) error {
	if w.held {
		return nil
	}
	return w.ChangeTo(w.codec.Encode(f))
}

// Hold runs fn with the guard held.
func (w *Writer) Hold(fn func()) {
	w.held = true
	defer func() { w.held = false }()
	fn()
}

// Held reports whether the guard is held.
func (w *Writer) Held() bool { return w.held }

// Expected returns the fragment last written through ChangeTo.
func (w *Writer) Expected() (string, bool) {
	return w.expected, w.expectedSet
}
