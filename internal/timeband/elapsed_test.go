package timeband

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsed_BandBoundaries(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    Band
	}{
		{"just under warning", 4*time.Minute + 54*time.Second, BandNominal},
		{"exactly five minutes", 5 * time.Minute, BandWarning},
		{"just under critical", 14*time.Minute + 59*time.Second, BandWarning},
		{"exactly fifteen minutes", 15 * time.Minute, BandCritical},
		{"well past critical", 3 * time.Hour, BandCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, band := Elapsed(base.Add(tc.elapsed), base)
			assert.Equal(t, tc.want, band)
		})
	}
}

func TestElapsed_Format(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		elapsed time.Duration
		want    string
	}{
		{42 * time.Second, "42s"},
		{3*time.Minute + 5*time.Second, "3m 5s"},
		{2*time.Hour + 7*time.Minute + 1*time.Second, "2h 7m 1s"},
		{time.Hour, "1h 0m 0s"},
		{0, "0s"},
	}

	for _, tc := range cases {
		text, _ := Elapsed(base.Add(tc.elapsed), base)
		assert.Equal(t, tc.want, text)
	}
}

func TestElapsed_TextAndBandFromSameReading(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// Right on the warning boundary the text and band must agree: a 5m 0s
	// reading is warning, never a nominal "5m 0s".
	text, band := Elapsed(base.Add(5*time.Minute), base)
	assert.Equal(t, "5m 0s", text)
	assert.Equal(t, BandWarning, band)
}

func TestElapsed_ClockSkewClampsToZero(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	text, band := Elapsed(base.Add(-30*time.Second), base)
	assert.Equal(t, "0s", text)
	assert.Equal(t, BandNominal, band)
}
