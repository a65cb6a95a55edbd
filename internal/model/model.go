package model

import "time"

// Unknown is the grouping bucket for events whose listing carries no
// usable location.
const Unknown = "Unknown"

// Event is the normalized record every source produces. Sources create
// Events; the rest of the pipeline only reads them.
type Event struct {
	// Title is required. A source drops listing elements it cannot title.
	Title string

	// Start and End are nil when the listing carried no parsable date.
	// Events without a Start never reach an encoded calendar.
	Start *time.Time
	End   *time.Time

	Location    string
	Description string

	// URL is absolute; sources resolve relative listing links against
	// the page they came from.
	URL string
}
