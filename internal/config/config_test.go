package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"navsync/internal/overlay"
	"navsync/internal/people"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"NAVSYNC_DEBUGGER_URL", "NAVSYNC_START_URL", "NAVSYNC_LOG_LEVEL", "NAVSYNC_HEADLESS"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Router.HomeTab != "home" {
		t.Errorf("expected HomeTab=home, got %s", cfg.Router.HomeTab)
	}
	if !cfg.Browser.Launch || !cfg.Browser.Headless {
		t.Errorf("expected a launched headless browser by default, got %+v", cfg.Browser)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry failed: %v", err)
	}
	if diff := cmp.Diff(overlay.DefaultRegistry().Groups(), reg.Groups()); diff != "" {
		t.Errorf("default overlay groups mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "navsync.yaml")

	cfg := DefaultConfig()
	cfg.Router.InitialPointer = 99
	cfg.People = []people.Person{{ID: 4, Email: "iago@zulip.com", FullName: "Iago"}}
	cfg.Logging.Categories = map[string]bool{"codec": false}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "navsync.yaml")
	data := []byte("router:\n  initial_pointer: 12\nbrowser:\n  start_url: http://localhost:9991\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Router.InitialPointer != 12 {
		t.Errorf("expected InitialPointer=12, got %d", cfg.Router.InitialPointer)
	}
	if cfg.Browser.StartURL != "http://localhost:9991" {
		t.Errorf("expected StartURL override, got %s", cfg.Browser.StartURL)
	}
	if cfg.Router.HomeTab != "home" || cfg.Browser.NavigationTimeout != "30s" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navsync.yaml")
	if err := os.WriteFile(path, []byte("router: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := map[string]func(*Config){
		"group prefix not listed": func(c *Config) {
			c.Overlays.Groups = append(c.Overlays.Groups, overlay.Group{Name: "drafts", Prefixes: []string{"drafts"}})
		},
		"unnamed group": func(c *Config) {
			c.Overlays.Groups[0].Name = ""
		},
		"empty prefix": func(c *Config) {
			c.Overlays.Prefixes = append(c.Overlays.Prefixes, "")
		},
		"negative pointer": func(c *Config) {
			c.Router.InitialPointer = -1
		},
		"person without email": func(c *Config) {
			c.People = []people.Person{{ID: 3}}
		},
		"duplicate person id": func(c *Config) {
			c.People = []people.Person{{ID: 3, Email: "a@x.org"}, {ID: 3, Email: "b@x.org"}}
		},
		"bad timeout": func(c *Config) {
			c.Browser.NavigationTimeout = "soon"
		},
		"bad level": func(c *Config) {
			c.Logging.Level = "loud"
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfig_RegistryWrapsTableErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overlays.Prefixes = []string{"settings/x"}
	cfg.Overlays.Groups = nil

	_, err := cfg.Registry()
	if !errors.Is(err, ErrInvalid) || !errors.Is(err, overlay.ErrInvalidTable) {
		t.Fatalf("expected both ErrInvalid and ErrInvalidTable, got %v", err)
	}
}

func TestConfig_NavigationTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.NavigationTimeout(); got != 30*time.Second {
		t.Errorf("expected 30s, got %v", got)
	}
	cfg.Browser.NavigationTimeout = "5s"
	if got := cfg.NavigationTimeout(); got != 5*time.Second {
		t.Errorf("expected 5s, got %v", got)
	}
	cfg.Browser.NavigationTimeout = "garbage"
	if got := cfg.NavigationTimeout(); got != 30*time.Second {
		t.Errorf("expected fallback 30s, got %v", got)
	}
}

func TestConfig_Directory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.People = []people.Person{
		{ID: 4, Email: "iago@zulip.com"},
		{ID: 5, Email: "cordelia@zulip.com"},
	}
	dir := cfg.Directory()
	if dir.Len() != 2 {
		t.Fatalf("expected 2 people, got %d", dir.Len())
	}
	slug, ok := dir.EmailsToSlug("cordelia@zulip.com")
	if !ok || slug != "5-cordelia" {
		t.Errorf("expected 5-cordelia, got %q (%v)", slug, ok)
	}
}

func TestLoggingConfig_Categories(t *testing.T) {
	lc := LoggingConfig{}
	if !lc.IsCategoryEnabled("router") {
		t.Error("nil map should enable every category")
	}
	lc.Categories = map[string]bool{"router": false, "codec": true}
	if lc.IsCategoryEnabled("router") {
		t.Error("router should be disabled")
	}
	if !lc.IsCategoryEnabled("codec") || !lc.IsCategoryEnabled("browser") {
		t.Error("listed-true and unlisted categories should be enabled")
	}
}
