package filter

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"evcal/internal/config"
	"evcal/internal/dates"
	"evcal/internal/model"
)

// Apply runs the configured stages over events in a fixed order:
// locations, keywords, date range. Disabled or absent stages pass
// everything through. The input slice is never modified; the result is
// always a fresh slice.
func Apply(events []model.Event, cfg config.Filters) []model.Event {
	out := append([]model.Event(nil), events...)

	if f := cfg.Locations; f != nil && f.Enabled {
		out = byTerms(out, *f, func(ev model.Event) string {
			return ev.Location
		})
	}
	if f := cfg.Keywords; f != nil && f.Enabled {
		out = byTerms(out, *f, func(ev model.Event) string {
			return ev.Title + " " + ev.Description
		})
	}
	if f := cfg.DateRange; f != nil && f.Enabled {
		out = byDateRange(out, *f)
	}

	return out
}

// byTerms drops events matching any exclude term, then, when include
// terms exist, keeps only events matching at least one of them.
func byTerms(events []model.Event, f config.TermFilter, field func(model.Event) string) []model.Event {
	if len(f.Exclude) > 0 {
		events = lo.Filter(events, func(ev model.Event, _ int) bool {
			return !containsAny(field(ev), f.Exclude)
		})
	}
	if len(f.Include) > 0 {
		events = lo.Filter(events, func(ev model.Event, _ int) bool {
			return containsAny(field(ev), f.Include)
		})
	}
	return events
}

// containsAny reports whether any term occurs in text, ignoring case.
// Matching is plain substring containment, so a short term also matches
// inside longer words ("art" matches "party").
func containsAny(text string, terms []string) bool {
	text = strings.ToLower(text)
	return lo.SomeBy(terms, func(term string) bool {
		return strings.Contains(text, strings.ToLower(term))
	})
}

// byDateRange keeps events whose start falls inside the configured
// window, bounds inclusive. A bound that fails to parse is treated as
// absent. Events without a start never pass an enabled date filter.
func byDateRange(events []model.Event, f config.DateRangeFilter) []model.Event {
	var lower, upper *time.Time
	if f.StartDate != "" {
		if t, err := dates.Parse(f.StartDate); err == nil {
			lower = &t
		}
	}
	if f.EndDate != "" {
		if t, err := dates.Parse(f.EndDate); err == nil {
			upper = &t
		}
	}

	return lo.Filter(events, func(ev model.Event, _ int) bool {
		if ev.Start == nil {
			return false
		}
		if lower != nil && ev.Start.Before(*lower) {
			return false
		}
		if upper != nil && ev.Start.After(*upper) {
			return false
		}
		return true
	})
}
