package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the layout of message timestamps in the archive, e.g.
// "Thursday, March 3, 2016 at 9:14PM EST".
const TimestampLayout = "Monday, January 2, 2006 at 3:04PM MST"

var meridiem = regexp.MustCompile(`(\d)(am|pm)\b`)

// zoneOffsets maps the abbreviations printed by the archive to UTC offsets in
// seconds. Abbreviations missing here keep their name at offset zero.
var zoneOffsets = map[string]int{
	"UTC":  0,
	"GMT":  0,
	"EST":  -5 * 3600,
	"EDT":  -4 * 3600,
	"CST":  -6 * 3600,
	"CDT":  -5 * 3600,
	"MST":  -7 * 3600,
	"MDT":  -6 * 3600,
	"PST":  -8 * 3600,
	"PDT":  -7 * 3600,
	"AKST": -9 * 3600,
	"AKDT": -8 * 3600,
	"HST":  -10 * 3600,
}

// NormalizeTimestamp upper-cases the meridiem marker of a raw timestamp
// ("9:14pm" becomes "9:14PM") and trims surrounding space.
func NormalizeTimestamp(raw string) string {
	return meridiem.ReplaceAllStringFunc(strings.TrimSpace(raw), strings.ToUpper)
}

// ParseTimestamp parses a normalized timestamp against TimestampLayout. The
// printed weekday must agree with the date, and s must be exactly what the
// layout prints, so zero-padded days or hours are rejected.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}

	if !strings.HasPrefix(s, t.Weekday().String()+",") {
		return time.Time{}, fmt.Errorf("weekday does not match %s", t.Format("January 2, 2006"))
	}

	name, _ := t.Zone()
	if offset, ok := zoneOffsets[name]; ok {
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.FixedZone(name, offset))
	}

	if formatted := t.Format(TimestampLayout); formatted != s {
		return time.Time{}, fmt.Errorf("timestamp %q is not in canonical form %q", s, formatted)
	}
	return t, nil
}
