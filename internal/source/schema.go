package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/PuerkitoBio/goquery"

	"evcal/internal/config"
	"evcal/internal/dates"
	appLog "evcal/internal/log"
	"evcal/internal/model"
)

// schemaSource pulls schema.org Event metadata out of the JSON-LD
// blocks embedded in a listing page.
type schemaSource struct {
	cfg     config.SourceConfig
	fetcher *fetcher
}

func newSchemaSource(cfg config.SourceConfig, opts Options) *schemaSource {
	return &schemaSource{
		cfg:     cfg,
		fetcher: newFetcher(opts, false),
	}
}

func (s *schemaSource) Name() string { return s.cfg.DisplayName() }

func (s *schemaSource) Fetch(ctx context.Context) ([]model.Event, error) {
	body, err := s.fetcher.get(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("source: fetch %s: %w", s.Name(), err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("source: parse %s: %w", s.Name(), err)
	}

	events := make([]model.Event, 0)
	skipped := 0

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, el *goquery.Selection) {
		block, err := gabs.ParseJSON([]byte(el.Text()))
		if err != nil {
			// Skip this block, but keep processing others.
			appLog.Debug("unparsable ld+json block", "source", s.Name(), "block", i, "err", err)
			return
		}
		for _, item := range eventItems(block) {
			ev, ok := s.parseEvent(item)
			if !ok {
				skipped++
				continue
			}
			events = append(events, ev)
		}
	})

	if skipped > 0 {
		appLog.Debug("skipped schema objects", "source", s.Name(), "skipped", skipped)
	}
	appLog.Info("source fetch completed", "source", s.Name(), "events", len(events))

	return events, nil
}

// eventItems returns the Event-typed objects of one JSON-LD document:
// either the top-level object itself, or the Event members of a
// top-level array. Other shapes contribute nothing.
func eventItems(block *gabs.Container) []*gabs.Container {
	if _, ok := block.Data().([]any); ok {
		items := make([]*gabs.Container, 0)
		for _, child := range block.Children() {
			if isEvent(child) {
				items = append(items, child)
			}
		}
		return items
	}
	if isEvent(block) {
		return []*gabs.Container{block}
	}
	return nil
}

func isEvent(c *gabs.Container) bool {
	t, ok := c.Path("@type").Data().(string)
	return ok && t == "Event"
}

// parseEvent maps one schema.org Event object onto a record. Objects
// without a name are dropped; a missing or unparsable startDate leaves
// Start nil rather than dropping the record.
func (s *schemaSource) parseEvent(item *gabs.Container) (model.Event, bool) {
	title, _ := item.Path("name").Data().(string)
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Event{}, false
	}

	ev := model.Event{
		Title:    title,
		Location: schemaLocation(item.Path("location")),
	}

	if raw, ok := item.Path("startDate").Data().(string); ok {
		if t, err := dates.Parse(raw); err == nil {
			ev.Start = &t
		} else {
			appLog.Debug("unparsable startDate", "source", s.Name(), "value", raw)
		}
	}
	if raw, ok := item.Path("endDate").Data().(string); ok {
		if t, err := dates.Parse(raw); err == nil {
			ev.End = &t
		}
	}
	if d, ok := item.Path("description").Data().(string); ok {
		ev.Description = d
	}
	if u, ok := item.Path("url").Data().(string); ok {
		ev.URL = u
	}

	return ev, true
}

// schemaLocation flattens the polymorphic schema.org location field into
// display text. A venue name wins, then street + locality from a nested
// address object, then the stringified address value, then the
// stringified location itself.
func schemaLocation(loc *gabs.Container) string {
	if loc == nil || loc.Data() == nil {
		return ""
	}

	if _, ok := loc.Data().(map[string]any); ok {
		if name, ok := loc.Path("name").Data().(string); ok && name != "" {
			return name
		}

		addr := loc.Path("address")
		if addr == nil || addr.Data() == nil {
			return ""
		}
		if _, ok := addr.Data().(map[string]any); ok {
			parts := make([]string, 0, 2)
			if v, ok := addr.Path("streetAddress").Data().(string); ok && v != "" {
				parts = append(parts, v)
			}
			if v, ok := addr.Path("addressLocality").Data().(string); ok && v != "" {
				parts = append(parts, v)
			}
			return strings.Join(parts, ", ")
		}
		return fmt.Sprint(addr.Data())
	}

	if v, ok := loc.Data().(string); ok {
		return v
	}
	return fmt.Sprint(loc.Data())
}
