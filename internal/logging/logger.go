// Package logging hands out categorized zap loggers. Each subsystem logs
// under its own category, and categories can be switched off from the
// logging section of the configuration.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"navsync/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryRouter  Category = "router"  // Hash dispatch and overlay transitions
	CategoryCodec   Category = "codec"   // Fragment encoding and decoding
	CategoryBrowser Category = "browser" // rod sessions and page events
	CategoryConfig  Category = "config"  // Config loading and reloads
	CategoryConsole Category = "console" // Interactive console
)

// Categories lists every known category.
func Categories() []Category {
	return []Category{CategoryRouter, CategoryCodec, CategoryBrowser, CategoryConfig, CategoryConsole}
}

// New builds the base logger and returns the level it filters on. verbose
// forces debug level; otherwise the configured level applies.
func New(cfg config.LoggingConfig, verbose bool) (*zap.Logger, zap.AtomicLevel, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		lvl, err := cfg.ZapLevel()
		if err != nil {
			return nil, zap.AtomicLevel{}, err
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, zc.Level, nil
}

// Named returns base scoped to category.
func Named(base *zap.Logger, category Category) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(string(category))
}

// Set hands out category loggers. Every logger it returns consults the
// Set's current toggles on each entry, so Reload reaches loggers that were
// handed out earlier.
type Set struct {
	mu       sync.RWMutex
	base     *zap.Logger
	cfg      config.LoggingConfig
	level    zap.AtomicLevel
	hasLevel bool
	loggers  map[Category]*zap.Logger
}

// SetOption configures a Set.
type SetOption func(*Set)

// WithLevel makes Reload apply logging.level to level, which should be the
// level the base logger was built on.
func WithLevel(level zap.AtomicLevel) SetOption {
	return func(s *Set) {
		s.level = level
		s.hasLevel = true
	}
}

// NewSet returns a Set over base. base may be nil.
func NewSet(base *zap.Logger, cfg config.LoggingConfig, opts ...SetOption) *Set {
	if base == nil {
		base = zap.NewNop()
	}
	s := &Set{base: base, cfg: cfg, loggers: make(map[Category]*zap.Logger)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns (or creates) the logger for category.
func (s *Set) Get(category Category) *zap.Logger {
	s.mu.RLock()
	if l, ok := s.loggers[category]; ok {
		s.mu.RUnlock()
		return l
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.loggers[category]; ok {
		return l
	}
	l := s.base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return &gatedCore{Core: c, set: s, category: category}
	})).Named(string(category))
	s.loggers[category] = l
	return l
}

// IsEnabled reports whether category logs anywhere.
func (s *Set) IsEnabled(category Category) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.IsCategoryEnabled(string(category))
}

// Reload swaps in new toggles and, with WithLevel, the new level. It takes
// effect for every logger the Set has handed out.
func (s *Set) Reload(cfg config.LoggingConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	if !s.hasLevel {
		return
	}
	lvl, err := cfg.ZapLevel()
	if err != nil {
		s.base.Warn("logging level not applied", zap.Error(err))
		return
	}
	s.level.SetLevel(lvl)
}

// Base returns the uncategorized logger.
func (s *Set) Base() *zap.Logger { return s.base }

// gatedCore drops entries while its category is switched off.
type gatedCore struct {
	zapcore.Core
	set      *Set
	category Category
}

func (c *gatedCore) Enabled(lvl zapcore.Level) bool {
	return c.set.IsEnabled(c.category) && c.Core.Enabled(lvl)
}

func (c *gatedCore) With(fields []zapcore.Field) zapcore.Core {
	return &gatedCore{Core: c.Core.With(fields), set: c.set, category: c.category}
}

func (c *gatedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.set.IsEnabled(c.category) {
		return ce
	}
	return c.Core.Check(ent, ce)
}
