package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evcal/internal/model"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func pinnedEncoder() *Encoder {
	enc := NewEncoder()
	enc.Now = fixedClock
	return enc
}

func startAt(t time.Time) *time.Time { return &t }

func TestEncodeEmptyCalendar(t *testing.T) {
	data := string(pinnedEncoder().Encode(nil, "My Events"))

	assert.Contains(t, data, "BEGIN:VCALENDAR")
	assert.Contains(t, data, "END:VCALENDAR")
	assert.Contains(t, data, "VERSION:2.0")
	assert.Contains(t, data, "PRODID:-//Event Aggregator//EN")
	assert.Contains(t, data, "X-WR-CALNAME:My Events")
	assert.Contains(t, data, "X-WR-TIMEZONE:UTC")
	assert.NotContains(t, data, "BEGIN:VEVENT")
}

func TestEncodeEvent(t *testing.T) {
	start := time.Date(2026, 3, 15, 19, 30, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	events := []model.Event{{
		Title:       "Jazz Night",
		Start:       &start,
		End:         &end,
		Location:    "Blue Note",
		Description: "Live quartet",
		URL:         "https://example.com/events/1",
	}}

	data := string(pinnedEncoder().Encode(events, "My Events"))

	assert.Contains(t, data, "BEGIN:VEVENT")
	assert.Contains(t, data, "SUMMARY:Jazz Night")
	assert.Contains(t, data, "DTSTART:20260315T193000Z")
	assert.Contains(t, data, "DTEND:20260315T213000Z")
	assert.Contains(t, data, "DTSTAMP:20260301T120000Z")
	assert.Contains(t, data, "LOCATION:Blue Note")
	assert.Contains(t, data, "DESCRIPTION:Live quartet")
	assert.Contains(t, data, "URL:https://example.com/events/1")
	assert.Contains(t, data, "UID:"+UID("Jazz Night", start))
}

func TestEncodeOmitsEmptyOptionalFields(t *testing.T) {
	events := []model.Event{{
		Title: "Bare",
		Start: startAt(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)),
	}}

	data := string(pinnedEncoder().Encode(events, "My Events"))

	assert.NotContains(t, data, "LOCATION")
	assert.NotContains(t, data, "DESCRIPTION")
	assert.NotContains(t, data, "URL")
	assert.NotContains(t, data, "DTEND")
}

func TestEncodeSkipsStartlessEvents(t *testing.T) {
	events := []model.Event{
		{Title: "Dated", Start: startAt(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))},
		{Title: "Undated"},
	}

	data := string(pinnedEncoder().Encode(events, "My Events"))

	assert.Equal(t, 1, strings.Count(data, "BEGIN:VEVENT"))
	assert.Contains(t, data, "SUMMARY:Dated")
	assert.NotContains(t, data, "Undated")
}

func TestEncodeUntitledFallback(t *testing.T) {
	events := []model.Event{{
		Start: startAt(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)),
	}}

	data := string(pinnedEncoder().Encode(events, "My Events"))

	assert.Contains(t, data, "SUMMARY:Untitled Event")
}

func TestEncodeDeterministic(t *testing.T) {
	start := time.Date(2026, 3, 15, 19, 30, 0, 0, time.UTC)
	events := []model.Event{
		{Title: "A", Start: &start},
		{Title: "B", Start: startAt(start.Add(24 * time.Hour))},
	}

	enc := pinnedEncoder()
	first := enc.Encode(events, "My Events")
	second := enc.Encode(events, "My Events")

	require.Equal(t, first, second)
}

func TestEncodePreservesEventOrder(t *testing.T) {
	start := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	events := []model.Event{
		{Title: "First", Start: &start},
		{Title: "Second", Start: startAt(start.Add(time.Hour))},
	}

	data := string(pinnedEncoder().Encode(events, "My Events"))

	assert.Less(t, strings.Index(data, "SUMMARY:First"), strings.Index(data, "SUMMARY:Second"))
}

func TestUIDStable(t *testing.T) {
	start := time.Date(2026, 3, 15, 19, 30, 0, 0, time.UTC)

	a := UID("Jazz Night", start)
	b := UID("Jazz Night", start)

	assert.Equal(t, a, b)
	assert.True(t, strings.HasSuffix(a, "@event-aggregator"))
}

func TestUIDVariesWithContent(t *testing.T) {
	start := time.Date(2026, 3, 15, 19, 30, 0, 0, time.UTC)

	assert.NotEqual(t, UID("Jazz Night", start), UID("Jazz Morning", start))
	assert.NotEqual(t, UID("Jazz Night", start), UID("Jazz Night", start.Add(time.Hour)))
}
