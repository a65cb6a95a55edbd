package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"evcal/internal/model"
)

// ProdID identifies this pipeline in generated calendars.
const ProdID = "-//Event Aggregator//EN"

// displayTimezone is advertised on every calendar; encoded timestamps
// are emitted in UTC form.
const displayTimezone = "UTC"

// Encoder serializes normalized events into iCalendar documents.
type Encoder struct {
	// ProdID overrides the emitted PRODID.
	ProdID string
	// Now supplies the DTSTAMP for every emitted VEVENT. Injectable so
	// tests can pin it.
	Now func() time.Time
}

func NewEncoder() *Encoder {
	return &Encoder{
		ProdID: ProdID,
		Now:    time.Now,
	}
}

// Encode renders events into a single calendar named name. Events
// without a start are silently left out; an empty input still yields a
// valid calendar with zero VEVENTs. Identical input produces identical
// bytes apart from DTSTAMP.
func (e *Encoder) Encode(events []model.Event, name string) []byte {
	cal := ical.NewCalendar()
	cal.SetProductId(e.ProdID)
	cal.SetXWRCalName(name)
	cal.SetXWRTimezone(displayTimezone)

	stamp := e.Now()

	for _, ev := range events {
		if ev.Start == nil {
			continue
		}

		ve := cal.AddEvent(UID(ev.Title, *ev.Start))
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(*ev.Start)
		if ev.End != nil {
			ve.SetEndAt(*ev.End)
		}

		summary := ev.Title
		if summary == "" {
			summary = "Untitled Event"
		}
		ve.SetSummary(summary)

		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.URL != "" {
			ve.SetURL(ev.URL)
		}
	}

	return []byte(cal.Serialize())
}
