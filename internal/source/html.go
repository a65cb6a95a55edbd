package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"evcal/internal/config"
	"evcal/internal/dates"
	appLog "evcal/internal/log"
	"evcal/internal/model"
)

// htmlSource scrapes a listing page with the CSS selectors from its
// configuration.
type htmlSource struct {
	cfg     config.SourceConfig
	fetcher *fetcher
}

func newHTMLSource(cfg config.SourceConfig, opts Options) *htmlSource {
	return &htmlSource{
		cfg:     cfg,
		fetcher: newFetcher(opts, cfg.Render),
	}
}

func (s *htmlSource) Name() string { return s.cfg.DisplayName() }

func (s *htmlSource) Fetch(ctx context.Context) ([]model.Event, error) {
	body, err := s.fetcher.get(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("source: fetch %s: %w", s.Name(), err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("source: parse %s: %w", s.Name(), err)
	}

	base, err := url.Parse(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("source: source url %q: %w", s.cfg.URL, err)
	}

	now := time.Now()
	events := make([]model.Event, 0)
	skipped := 0

	doc.Find(s.cfg.Selectors.Container).Each(func(_ int, el *goquery.Selection) {
		ev, ok := s.parseElement(el, base, now)
		if !ok {
			// Skip this element, but keep parsing others.
			skipped++
			return
		}
		events = append(events, ev)
	})

	if skipped > 0 {
		appLog.Debug("skipped listing elements", "source", s.Name(), "skipped", skipped)
	}
	appLog.Info("source fetch completed", "source", s.Name(), "events", len(events))

	return events, nil
}

// parseElement normalizes one container element. Elements without a
// title or without a parsable date are dropped.
func (s *htmlSource) parseElement(el *goquery.Selection, base *url.URL, now time.Time) (model.Event, bool) {
	sel := s.cfg.Selectors

	title := selectText(el, sel.Title)
	if title == "" {
		return model.Event{}, false
	}

	var start *time.Time
	if txt := selectText(el, sel.Date); txt != "" {
		if t, err := dates.ParseFuzzy(txt, now); err == nil {
			start = &t
		} else {
			appLog.Debug("unparsable date text", "source", s.Name(), "text", txt)
		}
	}
	if start == nil {
		return model.Event{}, false
	}

	ev := model.Event{
		Title:       title,
		Start:       start,
		Location:    selectText(el, sel.Location),
		Description: selectText(el, sel.Description),
	}

	if sel.URL != "" {
		if href, ok := el.Find(sel.URL).First().Attr("href"); ok && href != "" {
			ev.URL = resolveHref(base, href)
		}
	}

	return ev, true
}

// selectText returns the trimmed text of the first match of sel under
// el, or "" when sel is empty or nothing matches.
func selectText(el *goquery.Selection, sel string) string {
	if sel == "" {
		return ""
	}
	return strings.TrimSpace(el.Find(sel).First().Text())
}

// resolveHref makes href absolute against the page URL. Already-absolute
// hrefs pass through unchanged.
func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
