// Package browser drives a real page through go-rod: it exposes the page's
// address as a location.Location, blurs focus on request, and turns the
// page's hashchange events into location.Change values.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"navsync/internal/config"
	"navsync/internal/location"
)

// Config holds browser configuration.
type Config struct {
	DebuggerURL       string
	Launch            bool
	Headless          bool
	StartURL          string
	NavigationTimeout time.Duration
	// ChangeBuffer bounds the queue of undelivered hash changes.
	ChangeBuffer int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Launch:            true,
		Headless:          true,
		StartURL:          "about:blank",
		NavigationTimeout: 30 * time.Second,
		ChangeBuffer:      location.DefaultChangeBuffer,
	}
}

// FromConfig maps the browser section of cfg.
func FromConfig(cfg *config.Config) Config {
	c := DefaultConfig()
	c.DebuggerURL = cfg.Browser.DebuggerURL
	c.Launch = cfg.Browser.Launch
	c.Headless = cfg.Browser.Headless
	if cfg.Browser.StartURL != "" {
		c.StartURL = cfg.Browser.StartURL
	}
	c.NavigationTimeout = cfg.NavigationTimeout()
	return c
}

// Session owns one browser connection and the page being routed.
type Session struct {
	ID string

	cfg    Config
	logger *zap.Logger

	mu         sync.Mutex
	launcher   *launcher.Launcher
	browser    *rod.Browser
	page       *rod.Page
	loc        *Location
	controlURL string
	changes    chan location.Change
	dropped    atomic.Int64
	stop       context.CancelFunc
	done       chan struct{}
}

// NewSession creates a session. logger may be nil.
func NewSession(cfg Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ChangeBuffer <= 0 {
		cfg.ChangeBuffer = location.DefaultChangeBuffer
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}
	id := uuid.NewString()
	return &Session{
		ID:      id,
		cfg:     cfg,
		logger:  logger.With(zap.String("session", id)),
		changes: make(chan location.Change, cfg.ChangeBuffer),
	}
}

// Start connects to an existing Chrome or launches a new one, opens the
// start page and begins forwarding hash changes. The event stream lives
// until ctx is done or Shutdown is called.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return errors.New("session already started")
	}

	controlURL := s.cfg.DebuggerURL
	if s.cfg.Launch || controlURL == "" {
		l := launcher.New().Headless(s.cfg.Headless)
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		s.launcher = l
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		s.killLauncher()
		return fmt.Errorf("connect to chrome: %w", err)
	}
	s.browser = b
	s.controlURL = controlURL

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		s.closeLocked()
		return fmt.Errorf("create page: %w", err)
	}
	if err := preparePage(page); err != nil {
		s.closeLocked()
		return err
	}
	s.page = page
	s.loc = NewLocation(page, s.logger)

	streamCtx, cancel := context.WithCancel(ctx)
	s.stop = cancel
	s.done = make(chan struct{})
	s.startEventStream(streamCtx, page)

	if s.cfg.StartURL != "" {
		nav := page.Timeout(s.cfg.NavigationTimeout)
		if err := nav.Navigate(s.cfg.StartURL); err != nil {
			s.closeLocked()
			return fmt.Errorf("navigate to %s: %w", s.cfg.StartURL, err)
		}
		if err := nav.WaitLoad(); err != nil {
			s.logger.Warn("start page did not finish loading", zap.Error(err))
		}
	}
	// The start page may have loaded before the new-document hook existed.
	if err := s.loc.installHook(); err != nil {
		s.logger.Warn("hashchange hook not installed on current document", zap.Error(err))
	}

	s.logger.Info("browser session started",
		zap.String("control_url", controlURL),
		zap.String("start_url", s.cfg.StartURL),
		zap.Bool("launched", s.launcher != nil))
	return nil
}

// hookablePage is the part of *rod.Page that page preparation uses.
type hookablePage interface {
	proto.Client
	EvalOnNewDocument(js string) (remove func() error, err error)
	Close() error
}

// preparePage installs the hashchange hook for every document and enables
// console events. The page is closed when either step fails.
func preparePage(page hookablePage) error {
	if _, err := page.EvalOnNewDocument(hookScript); err != nil {
		return errors.Join(fmt.Errorf("install hashchange hook: %w", err), page.Close())
	}
	if err := (proto.RuntimeEnable{}).Call(page); err != nil {
		return errors.Join(fmt.Errorf("enable runtime events: %w", err), page.Close())
	}
	return nil
}

// startEventStream forwards hashchange reports from the page console.
func (s *Session) startEventStream(ctx context.Context, page *rod.Page) {
	wait := page.Context(ctx).EachEvent(func(ev *proto.RuntimeConsoleAPICalled) {
		c, ok := decodeHashChange(ev)
		if !ok {
			return
		}
		select {
		case s.changes <- c:
			s.logger.Debug("hashchange", zap.String("old", c.OldURL), zap.String("new", c.NewURL))
		default:
			s.dropped.Add(1)
			s.logger.Warn("hash change dropped, router is not keeping up", zap.String("new", c.NewURL))
		}
	})
	done := s.done
	go func() {
		defer close(done)
		defer close(s.changes)
		wait()
	}()
}

// Location returns the page's address. Nil before Start.
func (s *Session) Location() *Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc
}

// Page returns the routed page. Nil before Start.
func (s *Session) Page() *rod.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Changes delivers hash changes in page order. The channel is closed when
// the event stream ends.
func (s *Session) Changes() <-chan location.Change { return s.changes }

// Dropped returns how many changes were discarded because the buffer was
// full.
func (s *Session) Dropped() int {
	return int(s.dropped.Load())
}

// ControlURL returns the WebSocket debugger URL.
func (s *Session) ControlURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controlURL
}

// Shutdown stops the event stream and closes the page and, when this
// session launched it, the browser.
func (s *Session) Shutdown() error {
	s.mu.Lock()
	done := s.done
	err := s.closeLocked()
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	s.logger.Info("browser session closed")
	return err
}

func (s *Session) closeLocked() error {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	var errs []error
	if s.page != nil {
		errs = append(errs, s.page.Close())
		s.page = nil
	}
	if s.browser != nil && s.launcher != nil {
		errs = append(errs, s.browser.Close())
	}
	s.browser = nil
	s.killLauncher()
	return errors.Join(errs...)
}

func (s *Session) killLauncher() {
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}
}
