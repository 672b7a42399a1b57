// Package timeband turns stored request timestamps into true UTC instants
// and classifies how long a request has been waiting.
package timeband

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// The ingestion process writes plant-local wall time (UTC-6) but labels it
// as UTC, so the offset suffix on a stored timestamp is noise. We take the
// literal calendar fields and shift them ourselves. Changing this requires
// confirming the upstream timestamp convention first.
const plantOffsetHours = 6

var literalLayout = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2}):(\d{2})(?:\.(\d+))?`)

// Normalize converts a stored request timestamp into the UTC instant it
// actually refers to. Strings matching the literal ISO layout are
// reinterpreted as UTC-6 regardless of any offset they claim; anything else
// falls back to a plain RFC 3339 parse with no correction.
func Normalize(raw string) (time.Time, error) {
	m := literalLayout.FindStringSubmatch(raw)
	if m == nil {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("unparseable request time %q: %w", raw, err)
		}
		return t.UTC(), nil
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	min, _ := strconv.Atoi(m[5])
	sec, _ := strconv.Atoi(m[6])

	nsec := 0
	if m[7] != "" {
		frac := m[7]
		if len(frac) > 9 {
			frac = frac[:9]
		}
		nsec, _ = strconv.Atoi(frac)
		for i := len(frac); i < 9; i++ {
			nsec *= 10
		}
	}

	// time.Date normalizes the hour overflow across day/month boundaries.
	return time.Date(year, time.Month(month), day, hour+plantOffsetHours, min, sec, nsec, time.UTC), nil
}
