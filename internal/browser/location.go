package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Location reads and writes a page's address through script evaluation.
// It implements location.Location and the router's focus manager.
type Location struct {
	page   *rod.Page
	logger *zap.Logger
}

// NewLocation wraps page. logger may be nil.
func NewLocation(page *rod.Page, logger *zap.Logger) *Location {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Location{page: page, logger: logger}
}

func (l *Location) eval(js string, args ...interface{}) (*proto.RuntimeRemoteObject, error) {
	return l.page.Evaluate(&rod.EvalOptions{
		JS:      js,
		JSArgs:  args,
		ByValue: true,
	})
}

func (l *Location) evalString(what, js string) (string, error) {
	res, err := l.eval(js)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", what, err)
	}
	return res.Value.Str(), nil
}

// Hash implements location.Location.
func (l *Location) Hash() (string, error) {
	return l.evalString("location.hash", `() => window.location.hash`)
}

// SetHash implements location.Location. The page fires hashchange when
// the value differs.
func (l *Location) SetHash(fragment string) error {
	if _, err := l.eval(`(h) => { window.location.hash = h; }`, fragment); err != nil {
		return fmt.Errorf("assign location.hash: %w", err)
	}
	return nil
}

// CanPushState implements location.Location.
func (l *Location) CanPushState() bool {
	res, err := l.eval(`() => !!(window.history && window.history.pushState)`)
	if err != nil {
		l.logger.Debug("pushState probe failed", zap.Error(err))
		return false
	}
	return res.Value.Bool()
}

// PushState implements location.Location.
func (l *Location) PushState(url string) error {
	if _, err := l.eval(`(u) => { window.history.pushState(null, '', u); }`, url); err != nil {
		return fmt.Errorf("history.pushState: %w", err)
	}
	return nil
}

// Origin implements location.Location.
func (l *Location) Origin() (string, error) {
	return l.evalString("location.origin", `() => window.location.origin`)
}

// Pathname implements location.Location.
func (l *Location) Pathname() (string, error) {
	return l.evalString("location.pathname", `() => window.location.pathname`)
}

// BlurActive removes focus from the focused element, if any.
func (l *Location) BlurActive() {
	_, err := l.eval(`() => {
		const el = document.activeElement;
		if (el && typeof el.blur === 'function') el.blur();
	}`)
	if err != nil {
		l.logger.Warn("blur failed", zap.Error(err))
	}
}

func (l *Location) installHook() error {
	_, err := l.eval(hookFunc)
	return err
}
