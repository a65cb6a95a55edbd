package ics

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// uidDomain is the fixed suffix carried by every generated UID.
const uidDomain = "@event-aggregator"

// UID derives a stable identifier from an event's title and start.
// Equal title and start always hash to the same UID, so regenerated
// calendars keep event identity across runs.
func UID(title string, start time.Time) string {
	h := md5.New()
	h.Write([]byte(title))
	h.Write([]byte(start.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(h.Sum(nil)) + uidDomain
}
