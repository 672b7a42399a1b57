package timeband

import (
	"fmt"
	"time"
)

// Band is the urgency classification of a waiting request.
type Band string

const (
	BandNominal  Band = "nominal"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

const (
	warningAfter  = 5 * time.Minute
	criticalAfter = 15 * time.Minute
)

// Elapsed derives the display text and urgency band for a request normalized
// to requestedAt, as of a single now reading. Both outputs come from the same
// difference so the text can never disagree with the band color.
func Elapsed(now, requestedAt time.Time) (string, Band) {
	diff := now.Sub(requestedAt)
	if diff < 0 {
		diff = 0
	}

	band := BandNominal
	switch {
	case diff >= criticalAfter:
		band = BandCritical
	case diff >= warningAfter:
		band = BandWarning
	}

	h := int(diff / time.Hour)
	m := int(diff/time.Minute) % 60
	s := int(diff/time.Second) % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s), band
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s), band
	default:
		return fmt.Sprintf("%ds", s), band
	}
}
