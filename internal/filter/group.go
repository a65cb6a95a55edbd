package filter

import (
	"strings"

	"github.com/samber/lo"

	"evcal/internal/model"
)

// GroupByLocation buckets events by normalized location, preserving
// input order within each bucket.
func GroupByLocation(events []model.Event) map[string][]model.Event {
	return lo.GroupBy(events, func(ev model.Event) string {
		return normalizeLocation(ev.Location)
	})
}

// GroupByMonth buckets events by the YYYY-MM of their start. Events
// without a start are left out.
func GroupByMonth(events []model.Event) map[string][]model.Event {
	dated := lo.Filter(events, func(ev model.Event, _ int) bool {
		return ev.Start != nil
	})
	return lo.GroupBy(dated, func(ev model.Event) string {
		return ev.Start.Format("2006-01")
	})
}

// normalizeLocation reduces a free-text venue string to a grouping key:
// the last non-empty comma segment, so "Big Hall, 12 Main St,
// Springfield" and "Springfield" share a key. Empty input maps to
// model.Unknown.
func normalizeLocation(loc string) string {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return model.Unknown
	}
	if !strings.Contains(loc, ",") {
		return loc
	}
	segments := strings.Split(loc, ",")
	for i := len(segments) - 1; i >= 0; i-- {
		if seg := strings.TrimSpace(segments[i]); seg != "" {
			return seg
		}
	}
	return model.Unknown
}
