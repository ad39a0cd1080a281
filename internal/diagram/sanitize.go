package diagram

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxLabelLen = 120

var labelPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from model-produced text and collapses
// whitespace. Entities escaped by the policy are restored so text such as
// "Yes & No" survives.
func cleanText(s string) string {
	s = html.UnescapeString(labelPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// cleanLabel is cleanText truncated to fit a shape.
func cleanLabel(s string) string {
	s = cleanText(s)
	if r := []rune(s); len(r) > maxLabelLen {
		s = string(r[:maxLabelLen-1]) + "…"
	}
	return s
}

// labelOr returns the cleaned label or fallback when nothing is left.
func labelOr(s, fallback string) string {
	if c := cleanLabel(s); c != "" {
		return c
	}
	return fallback
}

var colorAliases = map[string]string{
	"gray":   ColorGrey,
	"purple": ColorViolet,
	"teal":   ColorLightBlue,
	"pink":   ColorLightRed,
}

var palette = map[string]bool{
	ColorBlack: true, ColorGrey: true, ColorBlue: true, ColorLightBlue: true,
	ColorGreen: true, ColorLightGreen: true, ColorOrange: true, ColorRed: true,
	ColorLightRed: true, ColorViolet: true, "light-violet": true, ColorYellow: true,
	"white": true,
}

// paletteColor maps a model-chosen colour onto the TLDraw palette.
func paletteColor(c, fallback string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if alias, ok := colorAliases[c]; ok {
		return alias
	}
	if palette[c] {
		return c
	}
	return fallback
}
