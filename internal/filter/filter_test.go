package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evcal/internal/config"
	"evcal/internal/model"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func titles(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Title)
	}
	return out
}

func TestApplyNoFilters(t *testing.T) {
	in := []model.Event{
		{Title: "Jazz Night", Start: ts("2026-03-15")},
		{Title: "Art Fair", Start: ts("2026-04-01")},
	}

	out := Apply(in, config.Filters{})

	assert.Equal(t, titles(in), titles(out))

	// The result is a fresh slice even when nothing was filtered.
	out[0].Title = "changed"
	assert.Equal(t, "Jazz Night", in[0].Title)
}

func TestApplyEmptyInput(t *testing.T) {
	out := Apply(nil, config.Filters{
		Keywords: &config.TermFilter{Enabled: true, Include: []string{"jazz"}},
	})
	assert.Empty(t, out)
}

func TestApplyDisabledStageIsIdentity(t *testing.T) {
	in := []model.Event{
		{Title: "Jazz Night", Location: "Springfield", Start: ts("2026-03-15")},
	}

	out := Apply(in, config.Filters{
		Locations: &config.TermFilter{Enabled: false, Exclude: []string{"springfield"}},
	})

	assert.Len(t, out, 1)
}

func TestLocationStage(t *testing.T) {
	in := []model.Event{
		{Title: "A", Location: "Blue Note, New York", Start: ts("2026-03-15")},
		{Title: "B", Location: "City Hall, Springfield", Start: ts("2026-03-16")},
		{Title: "C", Location: "", Start: ts("2026-03-17")},
	}

	out := Apply(in, config.Filters{
		Locations: &config.TermFilter{Enabled: true, Include: []string{"new york"}},
	})
	assert.Equal(t, []string{"A"}, titles(out))

	out = Apply(in, config.Filters{
		Locations: &config.TermFilter{Enabled: true, Exclude: []string{"springfield"}},
	})
	assert.Equal(t, []string{"A", "C"}, titles(out))
}

func TestExcludeWinsOverInclude(t *testing.T) {
	in := []model.Event{
		{Title: "Jazz at City Hall", Location: "City Hall, Springfield", Start: ts("2026-03-15")},
	}

	out := Apply(in, config.Filters{
		Locations: &config.TermFilter{
			Enabled: true,
			Include: []string{"springfield"},
			Exclude: []string{"city hall"},
		},
	})

	assert.Empty(t, out)
}

func TestKeywordStageMatchesTitleAndDescription(t *testing.T) {
	in := []model.Event{
		{Title: "Jazz Night", Description: "live quartet", Start: ts("2026-03-15")},
		{Title: "Lecture", Description: "all about jazz history", Start: ts("2026-03-16")},
		{Title: "Pottery Class", Description: "hands on", Start: ts("2026-03-17")},
	}

	out := Apply(in, config.Filters{
		Keywords: &config.TermFilter{Enabled: true, Include: []string{"JAZZ"}},
	})

	assert.Equal(t, []string{"Jazz Night", "Lecture"}, titles(out))
}

func TestKeywordSubstringContainment(t *testing.T) {
	// Plain substring semantics: "art" also hits "Party".
	in := []model.Event{
		{Title: "Garden Party", Start: ts("2026-03-15")},
		{Title: "Art Walk", Start: ts("2026-03-16")},
		{Title: "Film Night", Start: ts("2026-03-17")},
	}

	out := Apply(in, config.Filters{
		Keywords: &config.TermFilter{Enabled: true, Exclude: []string{"art"}},
	})

	assert.Equal(t, []string{"Film Night"}, titles(out))
}

func TestDateRangeInclusiveBounds(t *testing.T) {
	in := []model.Event{
		{Title: "Before", Start: ts("2026-02-28")},
		{Title: "OnStart", Start: ts("2026-03-01")},
		{Title: "Inside", Start: ts("2026-03-15")},
		{Title: "OnEnd", Start: ts("2026-03-31")},
		{Title: "After", Start: ts("2026-04-01")},
	}

	out := Apply(in, config.Filters{
		DateRange: &config.DateRangeFilter{
			Enabled:   true,
			StartDate: "2026-03-01",
			EndDate:   "2026-03-31",
		},
	})

	assert.Equal(t, []string{"OnStart", "Inside", "OnEnd"}, titles(out))
}

func TestDateRangeDropsStartless(t *testing.T) {
	in := []model.Event{
		{Title: "Dated", Start: ts("2026-03-15")},
		{Title: "Undated"},
	}

	out := Apply(in, config.Filters{
		DateRange: &config.DateRangeFilter{Enabled: true},
	})

	assert.Equal(t, []string{"Dated"}, titles(out))
}

func TestDateRangeUnparsableBoundDegrades(t *testing.T) {
	in := []model.Event{
		{Title: "Early", Start: ts("2026-01-01")},
		{Title: "Late", Start: ts("2026-12-01")},
	}

	out := Apply(in, config.Filters{
		DateRange: &config.DateRangeFilter{
			Enabled:   true,
			StartDate: "not a date",
			EndDate:   "2026-06-30",
		},
	})

	// The broken lower bound is ignored; the upper bound still applies.
	assert.Equal(t, []string{"Early"}, titles(out))
}

func TestCombinedStages(t *testing.T) {
	in := []model.Event{
		{Title: "Jazz Night", Location: "Springfield", Start: ts("2026-03-15")},
		{Title: "Jazz Brunch", Location: "New York", Start: ts("2026-07-04")},
		{Title: "Opera", Location: "New York", Start: ts("2026-03-20")},
	}

	out := Apply(in, config.Filters{
		Locations: &config.TermFilter{Enabled: true, Include: []string{"new york"}},
		Keywords:  &config.TermFilter{Enabled: true, Include: []string{"jazz"}},
		DateRange: &config.DateRangeFilter{Enabled: true, EndDate: "2026-06-30"},
	})

	// Springfield falls at stage one, Opera at stage two, the July date
	// at stage three.
	require.Empty(t, titles(out))
}
