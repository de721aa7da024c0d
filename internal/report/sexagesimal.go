package report

import (
	"fmt"
	"math"
)

// FormatRA renders right ascension in degrees as hours, e.g. "10h02m00.00s".
func FormatRA(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return "N/A"
	}
	const full = 24 * 3600 * 100
	// hundredths of a second of time
	total := int64(math.Round(deg / 15 * 3600 * 100))
	total = ((total % full) + full) % full

	h := total / 360000
	m := total / 6000 % 60
	s := total % 6000
	return fmt.Sprintf("%02dh%02dm%02d.%02ds", h, m, s/100, s%100)
}

// FormatDec renders declination in degrees, e.g. "-20d15m00.0s".
func FormatDec(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return "N/A"
	}
	// tenths of an arcsecond
	total := int64(math.Round(math.Abs(deg) * 3600 * 10))
	sign := "+"
	if deg < 0 && total != 0 {
		sign = "-"
	}

	d := total / 36000
	m := total / 600 % 60
	s := total % 600
	return fmt.Sprintf("%s%02dd%02dm%02d.%01ds", sign, d, m, s/10, s%10)
}

// FormatCoordinates joins FormatRA and FormatDec.
func FormatCoordinates(ra, dec float64) string {
	return FormatRA(ra) + " " + FormatDec(dec)
}
