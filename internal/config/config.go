// Package config parses smokebreak.toml application configuration and
// applies SMOKEBREAK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/catalog"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = "smokebreak.toml"

// DefaultAccentColor is the default TUI accent color (ember orange).
const DefaultAccentColor = "#FF7F3F"

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// hexColorRe matches a 6-digit hex color string like "#FF7F3F".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level smokebreak.toml configuration.
type Config struct {
	Session       SessionConfig       `toml:"session"`
	Reminder      ReminderConfig      `toml:"reminder"`
	Storage       StorageConfig       `toml:"storage"`
	Advisory      AdvisoryConfig      `toml:"advisory"`
	Notifications NotificationsConfig `toml:"notifications"`
	TUI           TUIConfig           `toml:"tui"`
	Journal       JournalConfig       `toml:"journal"`
}

// SessionConfig controls the simulated burn.
type SessionConfig struct {
	DurationMS int    `toml:"duration_ms"`
	TickMS     int    `toml:"tick_ms"`
	Item       string `toml:"item" env:"SMOKEBREAK_ITEM"`
}

// ReminderConfig controls the evaluation cadence. The reminder rules
// themselves (window, interval, opt-in) are user settings, not config.
type ReminderConfig struct {
	EvaluateSeconds int `toml:"evaluate_seconds"`
}

// StorageConfig selects where history and settings live.
type StorageConfig struct {
	Dir     string `toml:"dir" env:"SMOKEBREAK_DATA_DIR"`
	Backend string `toml:"backend" env:"SMOKEBREAK_STORAGE_BACKEND"` // "json" or "sqlite"
}

// AdvisoryConfig points at the advisory message service.
type AdvisoryConfig struct {
	URL   string `toml:"url" env:"SMOKEBREAK_ADVISORY_URL"`
	Token string `toml:"token" env:"SMOKEBREAK_ADVISORY_TOKEN"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL        string `toml:"url" env:"SMOKEBREAK_NOTIFY_URL"`
	Title      string `toml:"title"`
	OnComplete bool   `toml:"on_complete"`
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color"`
	// IdleMinutes counts the terminal as backgrounded after this long
	// without input, until it reports focus changes itself. 0 disables.
	IdleMinutes int `toml:"idle_minutes"`
}

// JournalConfig controls the event journal.
type JournalConfig struct {
	Retention int `toml:"retention"` // number of journals to keep; 0 = unlimited
}

// SessionDuration returns the full burn time.
func (c *Config) SessionDuration() time.Duration {
	return time.Duration(c.Session.DurationMS) * time.Millisecond
}

// TickPeriod returns the session tick period.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.Session.TickMS) * time.Millisecond
}

// EvaluatePeriod returns the reminder evaluation period.
func (c *Config) EvaluatePeriod() time.Duration {
	return time.Duration(c.Reminder.EvaluateSeconds) * time.Second
}

// IdleAfter returns the TUI idle period.
func (c *Config) IdleAfter() time.Duration {
	return time.Duration(c.TUI.IdleMinutes) * time.Minute
}

// JournalDir is where journals are written.
func (c *Config) JournalDir() string {
	return filepath.Join(c.Storage.Dir, "journal")
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Session.DurationMS <= 0 {
		errs = append(errs, fmt.Errorf("session.duration_ms must be > 0"))
	}
	if c.Session.TickMS <= 0 {
		errs = append(errs, fmt.Errorf("session.tick_ms must be > 0"))
	} else if c.Session.DurationMS > 0 && c.Session.TickMS > c.Session.DurationMS {
		errs = append(errs, fmt.Errorf("session.tick_ms must not exceed session.duration_ms"))
	}
	if _, err := catalog.Find(c.Session.Item); err != nil {
		errs = append(errs, fmt.Errorf("session.item %q is not in the catalog", c.Session.Item))
	}

	if c.Reminder.EvaluateSeconds <= 0 {
		errs = append(errs, fmt.Errorf("reminder.evaluate_seconds must be > 0"))
	}

	if c.Storage.Dir == "" {
		errs = append(errs, fmt.Errorf("storage.dir must not be empty"))
	}
	if c.Storage.Backend != BackendJSON && c.Storage.Backend != BackendSQLite {
		errs = append(errs, fmt.Errorf("storage.backend must be %q or %q", BackendJSON, BackendSQLite))
	}

	if c.Advisory.URL != "" && !isHTTPURL(c.Advisory.URL) {
		errs = append(errs, fmt.Errorf("advisory.url must be a valid http or https URL"))
	}
	if c.Notifications.URL != "" && !isHTTPURL(c.Notifications.URL) {
		errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#FF7F3F\")"))
	}
	if c.TUI.IdleMinutes < 0 {
		errs = append(errs, fmt.Errorf("tui.idle_minutes must be >= 0 (0 = disabled)"))
	}
	if c.Journal.Retention < 0 {
		errs = append(errs, fmt.Errorf("journal.retention must be >= 0 (0 = unlimited)"))
	}

	return errors.Join(errs...)
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Session: SessionConfig{
			DurationMS: 60000,
			TickMS:     50,
			Item:       catalog.DefaultID,
		},
		Reminder: ReminderConfig{
			EvaluateSeconds: 60,
		},
		Storage: StorageConfig{
			Dir:     ".smokebreak",
			Backend: BackendJSON,
		},
		Notifications: NotificationsConfig{
			Title:      "SmokeBreak",
			OnComplete: false,
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
			IdleMinutes: 10,
		},
		Journal: JournalConfig{
			Retention: 20,
		},
	}
}

// Load reads smokebreak.toml from path. If path is empty, it walks up from
// the current working directory looking for smokebreak.toml and falls back
// to Defaults when none exists. Environment overrides are applied last.
// A relative storage.dir is resolved against the config file's directory
// (or the working directory when no file was used).
func Load(path string) (*Config, error) {
	cfg := Defaults()

	baseDir := ""
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, joinKeys(keys))
		}
		baseDir = filepath.Dir(path)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if cfg.Storage.Dir != "" && !filepath.IsAbs(cfg.Storage.Dir) {
		if baseDir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("config: get working directory: %w", err)
			}
			baseDir = wd
		}
		cfg.Storage.Dir = filepath.Join(baseDir, cfg.Storage.Dir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// joinKeys formats a slice of key names for display.
func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

// findConfig walks up from the current directory looking for
// smokebreak.toml. It returns "" without error when none is found.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// InitFile writes a default smokebreak.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	content := `# smokebreak.toml: SmokeBreak configuration
# Reminder rules (active hours, interval, opt-in) are user settings:
# change them with "smokebreak settings set".

[session]
duration_ms = 60000  # time for one session to burn down
tick_ms = 50         # progress update period
item = "classic"     # see "smokebreak catalog"

[reminder]
evaluate_seconds = 60  # how often reminder conditions are checked

[storage]
dir = ".smokebreak"  # relative to this file
backend = "json"     # "json" (one file per blob) or "sqlite"

[advisory]
url = ""    # advisory message endpoint (empty = disabled)
token = ""  # or set SMOKEBREAK_ADVISORY_TOKEN

[notifications]
url = ""             # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
title = "SmokeBreak"
on_complete = false  # also notify when a session completes

[tui]
accent_color = "#FF7F3F"
idle_minutes = 10  # no input for this long counts as backgrounded (0 = off)

[journal]
retention = 20  # number of event journals to keep; 0 = unlimited
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
