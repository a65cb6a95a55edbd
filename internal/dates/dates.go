package dates

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// fuzzy is the shared natural-language parser. Rule sets are immutable
// after construction, so one instance serves concurrent sources.
var fuzzy = newFuzzyParser()

func newFuzzyParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// Parse parses s in any of the usual machine-readable forms: RFC 3339,
// date-only ISO 8601, US and European styles, and the other layouts the
// underlying parser recognizes.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date string")
	}
	return dateparse.ParseAny(s)
}

// ParseFuzzy extracts a timestamp from free-form listing text such as
// "Doors open March 5, 2026 at 7pm". Machine formats are tried first,
// then natural-language extraction relative to ref.
func ParseFuzzy(s string, ref time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date string")
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t, nil
	}
	r, err := fuzzy.Parse(s, ref)
	if err != nil {
		return time.Time{}, err
	}
	if r == nil {
		return time.Time{}, errors.New("no date found in text")
	}
	return r.Time, nil
}
