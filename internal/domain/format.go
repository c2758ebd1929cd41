package domain

import (
	"fmt"
	"math"
)

const metersPerMile = 1609.344

func metersToMiles(meters int) float64 {
	return float64(meters) / metersPerMile
}

// FormatTotalDistance renders a route total, e.g. "32.0 miles".
func FormatTotalDistance(meters int) string {
	return fmt.Sprintf("%.1f miles", metersToMiles(meters))
}

// FormatTotalDuration renders a route total, e.g. "64 min" as "1 hr 4 min".
func FormatTotalDuration(seconds int) string {
	minutes := wholeMinutes(seconds)
	if minutes >= 60 {
		return fmt.Sprintf("%d hr %d min", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%d min", minutes)
}

// FormatLegDistance renders a single leg, e.g. "0.3 mi".
func FormatLegDistance(meters int) string {
	return fmt.Sprintf("%.1f mi", metersToMiles(meters))
}

// FormatLegDuration renders a single leg in minutes without hour rollover.
func FormatLegDuration(seconds int) string {
	return fmt.Sprintf("%d min", wholeMinutes(seconds))
}

func wholeMinutes(seconds int) int {
	return int(math.Floor(float64(seconds) / 60))
}
