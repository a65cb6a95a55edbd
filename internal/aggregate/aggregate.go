package aggregate

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"evcal/internal/config"
	"evcal/internal/filter"
	"evcal/internal/ics"
	appLog "evcal/internal/log"
	"evcal/internal/model"
	"evcal/internal/sink"
	"evcal/internal/source"
)

// ErrNoSources is returned by Run when the configuration names no
// usable sources. Callers should surface it to the user and exit
// cleanly rather than treat it as a crash.
var ErrNoSources = errors.New("no sources configured")

// Aggregator drives one full pipeline run: fetch every source, filter
// the combined records, and push the configured calendars through the
// sink.
type Aggregator struct {
	cfg     *config.Config
	sources []source.Source
	out     sink.Sink
	enc     *ics.Encoder
}

func New(cfg *config.Config, sources []source.Source, out sink.Sink) *Aggregator {
	return &Aggregator{
		cfg:     cfg,
		sources: sources,
		out:     out,
		enc:     ics.NewEncoder(),
	}
}

// Run executes one aggregation pass. Individual source and write
// failures are logged and absorbed; only an empty source list or a
// canceled context stops the run.
func (a *Aggregator) Run(ctx context.Context) error {
	if len(a.sources) == 0 {
		return ErrNoSources
	}

	all, err := a.collect(ctx)
	if err != nil {
		return err
	}

	filtered := filter.Apply(all, a.cfg.Filters)
	appLog.Info("filtering completed", "fetched", len(all), "kept", len(filtered))

	written := a.write(a.cfg.Outputs.MainCalendar, a.cfg.CalendarName, filtered)

	if a.cfg.Outputs.ByLocation {
		written += a.writeGroups(filter.GroupByLocation(filtered), sanitizeToken)
	}
	if a.cfg.Outputs.ByMonth {
		written += a.writeGroups(filter.GroupByMonth(filtered), nil)
	}

	appLog.Info("run completed",
		"sources", len(a.sources),
		"fetched", len(all),
		"kept", len(filtered),
		"calendars", written,
	)
	return nil
}

// collect fetches every source, at most cfg.Concurrency at a time, and
// concatenates the batches in configuration order. A failed source
// contributes nothing beyond a warning.
func (a *Aggregator) collect(ctx context.Context) ([]model.Event, error) {
	batches := make([][]model.Event, len(a.sources))

	g, gctx := errgroup.WithContext(ctx)
	limit := a.cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, src := range a.sources {
		g.Go(func() error {
			appLog.Info("fetching events", "source", src.Name())
			events, err := src.Fetch(gctx)
			if err != nil {
				appLog.Warn("source fetch failed", "source", src.Name(), "err", err)
				return nil
			}
			batches[i] = events
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return lo.Flatten(batches), nil
}

// write encodes events under displayName and pushes the artifact at
// filename. Returns the number of calendars written (0 or 1).
func (a *Aggregator) write(filename, displayName string, events []model.Event) int {
	data := a.enc.Encode(events, displayName)
	if err := a.out.Write(filename, data); err != nil {
		appLog.Error("calendar write failed", err, "sink", a.out.Name(), "filename", filename)
		return 0
	}
	appLog.Info("calendar written", "filename", filename, "events", len(events))
	return 1
}

// writeGroups emits one calendar per group key in sorted order. mangle,
// when non-nil, turns a group key into its filename token.
func (a *Aggregator) writeGroups(groups map[string][]model.Event, mangle func(string) string) int {
	keys := lo.Keys(groups)
	sort.Strings(keys)

	written := 0
	for _, key := range keys {
		token := key
		if mangle != nil {
			token = mangle(key)
		}
		written += a.write("events_"+token+".ics", "Events - "+key, groups[key])
	}
	return written
}

var unsafeToken = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// sanitizeToken makes a location key safe for filenames: everything
// outside letters, digits, underscore, space and hyphen is stripped,
// then the surviving spaces become underscores.
func sanitizeToken(s string) string {
	s = unsafeToken.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, " ", "_")
}
