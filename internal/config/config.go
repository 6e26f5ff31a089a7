package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"navsync/internal/overlay"
	"navsync/internal/people"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all navsync configuration.
type Config struct {
	Router   RouterConfig    `yaml:"router"`
	Overlays OverlaysConfig  `yaml:"overlays"`
	People   []people.Person `yaml:"people"`
	Browser  BrowserConfig   `yaml:"browser"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// RouterConfig configures the hash dispatcher.
type RouterConfig struct {
	HomeTab string `yaml:"home_tab"`
	// Message a reloaded narrow view resumes at; 0 means none.
	InitialPointer int64 `yaml:"initial_pointer"`
}

// OverlaysConfig is the overlay table.
type OverlaysConfig struct {
	Prefixes []string        `yaml:"prefixes"`
	Groups   []overlay.Group `yaml:"groups"`
}

// BrowserConfig configures the rod-driven browser.
type BrowserConfig struct {
	// DebuggerURL attaches to a running browser. Ignored when Launch is set.
	DebuggerURL       string `yaml:"debugger_url"`
	Launch            bool   `yaml:"launch"`
	Headless          bool   `yaml:"headless"`
	StartURL          string `yaml:"start_url"`
	NavigationTimeout string `yaml:"navigation_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Router: RouterConfig{
			HomeTab: "home",
		},
		Overlays: OverlaysConfig{
			Prefixes: []string{overlay.Subscriptions, overlay.Settings, overlay.Administration},
			Groups: []overlay.Group{
				{Name: "subscriptions", Prefixes: []string{overlay.Subscriptions}},
				{Name: "settings", Prefixes: []string{overlay.Settings, overlay.Administration}},
			},
		},
		Browser: BrowserConfig{
			Launch:            true,
			Headless:          true,
			StartURL:          "about:blank",
			NavigationTimeout: "30s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv("NAVSYNC_DEBUGGER_URL"); u != "" {
		c.Browser.DebuggerURL = u
		c.Browser.Launch = false
	}
	if u := os.Getenv("NAVSYNC_START_URL"); u != "" {
		c.Browser.StartURL = u
	}
	if level := os.Getenv("NAVSYNC_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if v := os.Getenv("NAVSYNC_HEADLESS"); v != "" {
		if headless, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = headless
		}
	}
}

// NavigationTimeout returns the page navigation timeout as a duration.
func (c *Config) NavigationTimeout() time.Duration {
	d, err := time.ParseDuration(c.Browser.NavigationTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Registry builds the overlay table.
func (c *Config) Registry() (*overlay.Registry, error) {
	reg, err := overlay.NewRegistry(c.Overlays.Prefixes, c.Overlays.Groups)
	if err != nil {
		return nil, fmt.Errorf("%w: overlays: %w", ErrInvalid, err)
	}
	return reg, nil
}

// Directory builds the people directory used for contact operands.
func (c *Config) Directory() *people.Directory {
	return people.NewDirectory(c.People...)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := c.Registry(); err != nil {
		return err
	}

	if c.Router.InitialPointer < 0 {
		return fmt.Errorf("%w: router.initial_pointer must not be negative", ErrInvalid)
	}

	seen := make(map[int]bool, len(c.People))
	for i, p := range c.People {
		if p.ID <= 0 || p.Email == "" {
			return fmt.Errorf("%w: people[%d] needs an id and an email", ErrInvalid, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: people[%d] repeats id %d", ErrInvalid, i, p.ID)
		}
		seen[p.ID] = true
	}

	if c.Browser.NavigationTimeout != "" {
		if _, err := time.ParseDuration(c.Browser.NavigationTimeout); err != nil {
			return fmt.Errorf("%w: browser.navigation_timeout: %w", ErrInvalid, err)
		}
	}

	if _, err := c.Logging.ZapLevel(); err != nil {
		return err
	}

	return nil
}
