package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// NOTE: This file provides the configuration model and full YAML-based
// load/save behavior, including first-run config creation and 0600
// permissions.

// Source type selectors for SourceConfig.Type.
const (
	TypeHTML   = "html"
	TypeSchema = "schema"
)

// SelectorConfig maps record fields to CSS selectors for HTML sources.
// Empty fields fall back to the documented defaults during Normalize.
type SelectorConfig struct {
	// Container matches one listing element per event.
	Container string `yaml:"container,omitempty" json:"container,omitempty"`
	// The remaining selectors are evaluated inside each container match.
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Date        string `yaml:"date,omitempty" json:"date,omitempty"`
	Location    string `yaml:"location,omitempty" json:"location,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// URL selects the element whose href becomes the event link.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`
}

// SourceConfig describes a single event listing to pull.
type SourceConfig struct {
	// Name is a human-friendly label used in diagnostics. Defaults to URL.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Type selects the fetch strategy: "html" (CSS selectors) or
	// "schema" (schema.org JSON-LD blocks). Defaults to "schema".
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// URL is the listing page to pull.
	URL string `yaml:"url" json:"url"`

	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Render loads the page in headless Chromium before parsing, for
	// listings that only build their markup client-side. HTML type only.
	Render bool `yaml:"render,omitempty" json:"render,omitempty"`

	Selectors SelectorConfig `yaml:"selectors,omitempty" json:"selectors,omitempty"`
}

// IsEnabled reports whether the source should be fetched. Absent means
// enabled.
func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// DisplayName returns the label used in diagnostics.
func (s SourceConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.URL
}

// TermFilter holds include/exclude term lists for one filter stage.
// Exclusion always wins; an empty include list admits everything.
type TermFilter struct {
	Enabled bool     `yaml:"enabled" json:"enabled"`
	Include []string `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// DateRangeFilter bounds events to an inclusive date window. Bounds that
// fail to parse are treated as absent.
type DateRangeFilter struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	StartDate string `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   string `yaml:"end_date,omitempty" json:"end_date,omitempty"`
}

// Filters configures the filter stages. Absent blocks pass everything
// through unchanged.
type Filters struct {
	Locations *TermFilter      `yaml:"locations,omitempty" json:"locations,omitempty"`
	Keywords  *TermFilter      `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	DateRange *DateRangeFilter `yaml:"date_range,omitempty" json:"date_range,omitempty"`
}

// Outputs controls which calendar artifacts a run produces.
type Outputs struct {
	// MainCalendar is the filename of the all-events calendar.
	MainCalendar string `yaml:"main_calendar" json:"main_calendar"`

	// ByLocation adds one calendar per normalized location.
	ByLocation bool `yaml:"by_location,omitempty" json:"by_location,omitempty"`

	// ByMonth adds one calendar per YYYY-MM start month.
	ByMonth bool `yaml:"by_month,omitempty" json:"by_month,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// CalendarName is the display name of the main calendar.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// UserAgent identifies the pipeline to the sites it pulls from.
	// Empty means the built-in default.
	UserAgent string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`

	// Timeout bounds each source fetch (e.g. "15s"). Zero means the
	// built-in default.
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Concurrency is the number of sources fetched in parallel.
	// 1 means sequential.
	Concurrency int `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`

	Filters Filters `yaml:"filters,omitempty" json:"filters,omitempty"`

	Outputs Outputs `yaml:"outputs" json:"outputs"`

	// Sources is the list of event listings to aggregate.
	Sources []SourceConfig `yaml:"sources" json:"sources"`
}

// DefaultConfig returns an in-memory default configuration: a single
// main calendar, no filters, no sources. A run on it reports that no
// sources are configured and performs no work.
func DefaultConfig() *Config {
	return &Config{
		CalendarName: "My Events",
		Concurrency:  1,
		Outputs: Outputs{
			MainCalendar: "events.ics",
		},
		Sources: []SourceConfig{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.CalendarName == "" {
		c.CalendarName = "My Events"
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Outputs.MainCalendar == "" {
		c.Outputs.MainCalendar = "events.ics"
	}
	if c.Sources == nil {
		c.Sources = []SourceConfig{}
	}

	for i := range c.Sources {
		src := &c.Sources[i]
		if src.Type == "" {
			src.Type = TypeSchema
		}
		if src.Type != TypeHTML {
			continue
		}
		sel := &src.Selectors
		if sel.Container == "" {
			sel.Container = ".event"
		}
		if sel.Title == "" {
			sel.Title = ".title"
		}
		if sel.Date == "" {
			sel.Date = ".date"
		}
		if sel.Location == "" {
			sel.Location = ".location"
		}
		if sel.Description == "" {
			sel.Description = ".description"
		}
		if sel.URL == "" {
			sel.URL = "a"
		}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".evcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Set permissions to 0600 on temp file before rename.
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	// Rename over the target path.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function:
//
//	cfg, _ := config.Load(path)
//	// ... mutate cfg ...
//	if err := cfg.Save(path); err != nil { ... }
func (c *Config) Save(path string) error {
	return Save(path, c)
}
