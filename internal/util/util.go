// Package util provides common utility functions used across moasim.
package util

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"
)

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// FormatPercent renders a probability as a percentage with two decimals,
// e.g. 0.2578 -> "25.78%". Trailing zeros are dropped the same way the
// printed summary drops them.
func FormatPercent(p float64) string {
	rounded := RoundTo(p*100, 2)
	return strconv.FormatFloat(rounded, 'f', -1, 64) + "%"
}

// ExportFilePath builds the gzip export path for a run finished at the
// given time, e.g. exports/moasim_20260830_120000.json.gz.
func ExportFilePath(outputDir string, finished time.Time) string {
	return filepath.Join(
		outputDir,
		fmt.Sprintf("moasim_%s.json.gz", finished.Format("20060102_150405")),
	)
}
