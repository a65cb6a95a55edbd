package source

import (
	"context"
	"fmt"
	"time"

	"evcal/internal/config"
	appLog "evcal/internal/log"
	"evcal/internal/model"
)

// Source pulls one event listing and normalizes it.
//
// Fetch returns every record the listing yielded, in document order. A
// whole-listing failure (network error, non-2xx status, unreadable page)
// returns a nil slice and an error; the caller decides how loudly to
// report it. Listing elements that cannot be normalized are skipped and
// never fail the batch.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Event, error)
}

// Options carries run-wide fetch settings shared by all sources.
type Options struct {
	// UserAgent is sent with every request. Empty means DefaultUserAgent.
	UserAgent string
	// Timeout bounds a single fetch. Zero means DefaultTimeout.
	Timeout time.Duration
}

// New constructs a Source from its configuration.
func New(cfg config.SourceConfig, opts Options) (Source, error) {
	switch cfg.Type {
	case config.TypeHTML:
		return newHTMLSource(cfg, opts), nil
	case config.TypeSchema:
		return newSchemaSource(cfg, opts), nil
	default:
		return nil, fmt.Errorf("source: unknown type %q", cfg.Type)
	}
}

// FromConfig builds all usable sources from the configuration. Disabled
// entries, entries without a URL and entries of unknown type are skipped
// with a diagnostic; they never abort construction of the others.
func FromConfig(cfg *config.Config) []Source {
	opts := Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
	}

	out := make([]Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		if !sc.IsEnabled() {
			appLog.Debug("source disabled, skipping", "source", sc.DisplayName())
			continue
		}
		if sc.URL == "" {
			appLog.Warn("source has no url, skipping", "source", sc.DisplayName())
			continue
		}
		s, err := New(sc, opts)
		if err != nil {
			appLog.Warn("skipping source", "source", sc.DisplayName(), "err", err)
			continue
		}
		out = append(out, s)
	}
	return out
}
