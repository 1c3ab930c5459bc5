// Package settings holds the validated reminder configuration and persists
// it through a Repository.
package settings

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrInvalid wraps every validation failure returned by Validate and Update.
var ErrInvalid = errors.New("settings: invalid config")

// AllowedIntervals lists the reminder intervals, in minutes, a Config may use.
var AllowedIntervals = []int{30, 45, 60, 90, 120}

// Config is the reminder configuration.
type Config struct {
	ActiveStart          TimeOfDay
	ActiveEnd            TimeOfDay
	IntervalMinutes      int
	NotificationsEnabled bool
}

// Defaults returns the configuration used on first run and whenever the
// persisted one cannot be trusted.
func Defaults() Config {
	return Config{
		ActiveStart:          MustParseTimeOfDay("09:00"),
		ActiveEnd:            MustParseTimeOfDay("22:00"),
		IntervalMinutes:      60,
		NotificationsEnabled: false,
	}
}

// Validate reports every problem with c. The returned error wraps ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	if !c.ActiveStart.Valid() {
		errs = append(errs, fmt.Errorf("activeStart %d is not a time of day", int(c.ActiveStart)))
	}
	if !c.ActiveEnd.Valid() {
		errs = append(errs, fmt.Errorf("activeEnd %d is not a time of day", int(c.ActiveEnd)))
	}
	if !slices.Contains(AllowedIntervals, c.IntervalMinutes) {
		errs = append(errs, fmt.Errorf("intervalMinutes must be one of %v, got %d", AllowedIntervals, c.IntervalMinutes))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Overnight reports whether the window is inverted (end before start).
// Inverted windows are accepted but never active.
func (c Config) Overnight() bool {
	return c.ActiveEnd < c.ActiveStart
}

// Repository loads and saves a Config.
type Repository interface {
	LoadConfig() (Config, error)
	SaveConfig(Config) error
}

// Store owns the current Config.
type Store struct {
	repo Repository

	mu      sync.Mutex
	cfg     Config
	unsaved bool // the last save failed; memory is ahead of the repository

	// OnChange, if set, is called with the new config after a successful
	// Update or Load. It runs outside the store lock.
	OnChange func(Config)
}

// NewStore returns a Store holding Defaults until Load is called.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo, cfg: Defaults()}
}

// Get returns the current config.
func (s *Store) Get() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Update validates cfg and, when valid, replaces the current config and
// persists it before returning. An invalid cfg leaves the store unchanged.
// A persistence failure is returned but the in-memory config stays updated.
func (s *Store) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	err := s.repo.SaveConfig(cfg)
	s.mu.Lock()
	s.unsaved = err != nil
	s.mu.Unlock()

	var saveErr error
	if err != nil {
		saveErr = fmt.Errorf("settings: save: %w", err)
	}
	s.changed(cfg)
	return saveErr
}

// Load restores the config from the repository. A missing config yields
// Defaults and no error. A malformed or invalid one yields Defaults and a
// non-nil warning; the store is usable either way.
func (s *Store) Load() error {
	cfg, err := s.repo.LoadConfig()
	var warn error
	switch {
	case errors.Is(err, ErrNotStored):
		cfg = Defaults()
	case err != nil:
		cfg = Defaults()
		warn = fmt.Errorf("settings: using defaults: %w", err)
	default:
		if vErr := cfg.Validate(); vErr != nil {
			cfg = Defaults()
			warn = fmt.Errorf("settings: using defaults: %w", vErr)
		}
	}

	s.mu.Lock()
	s.cfg = cfg
	s.unsaved = false
	s.mu.Unlock()
	s.changed(cfg)
	return warn
}

// Refresh picks up a config another process has saved since the last
// Load. It reports whether the config changed. Missing, unreadable or
// invalid data and a store whose own last save failed are left as they
// are. Refresh does not call OnChange.
func (s *Store) Refresh() bool {
	cfg, err := s.repo.LoadConfig()
	if err != nil || cfg.Validate() != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsaved || s.cfg == cfg {
		return false
	}
	s.cfg = cfg
	return true
}

func (s *Store) changed(cfg Config) {
	if s.OnChange != nil {
		s.OnChange(cfg)
	}
}
