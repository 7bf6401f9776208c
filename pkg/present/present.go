// Package present turns detector scores into display values.
package present

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	ColorGreen  = "#4caf50"
	ColorOrange = "#ff9800"
	ColorRed    = "#ff5555"

	Transparent = "transparent"
)

// ScoreColor maps a fake-news probability to a traffic-light color.
func ScoreColor(score float64) string {
	switch {
	case score < 0.3:
		return ColorGreen
	case score < 0.7:
		return ColorOrange
	default:
		return ColorRed
	}
}

// ValueToBackground returns the highlight background for a token weight.
// Negative weights are tinted red and positive ones green, with the alpha
// channel set to the magnitude capped at 1. Zero and NaN are transparent.
func ValueToBackground(value float64) string {
	if value == 0 || math.IsNaN(value) {
		return Transparent
	}

	intensity := strconv.FormatFloat(math.Min(math.Abs(value), 1), 'f', -1, 64)
	if value < 0 {
		return "rgba(210, 0, 0, " + intensity + ")"
	}
	return "rgba(0, 210, 0, " + intensity + ")"
}

// CapitalizeFirstLetter upper-cases the first character of s.
func CapitalizeFirstLetter(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}
