package chart

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

//////////////////////////////////////////////////////////////////
//--------------------------- CONSTS -------------------------
//////////////////////////////////////////////////////////////////

const (
	// NeutralColor is returned by ToHex when it is given a color
	// it can not parse
	NeutralColor = "#000000"

	// FillAlpha is the alpha used when a fill color is derived from
	// a line color
	FillAlpha = 0.2
)

//////////////////////////////////////////////////////////////////
//----------------------- GLOBAL VARS -------------------------
//////////////////////////////////////////////////////////////////

var (
	// HexColorRegex matches 6 digit hex colors with leading "#"
	HexColorRegex = regexp.MustCompile("^#[0-9a-fA-F]{6}$")

	rgbaRegex = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*([0-9.]+)\s*)?\)$`)
)

// Palette is a named list of hex colors
type Palette struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

var (
	// DefaultPalette is used to color new datasets
	DefaultPalette = Palette{
		Name:   "Default",
		Colors: []string{"#4dc9f6", "#f67019", "#f53794", "#537bc4", "#acc236", "#166a8f", "#00a950", "#58595b"},
	}

	// Palettes are all palettes offered in the layout tab
	Palettes = []Palette{
		DefaultPalette,
		{
			Name:   "Pastel",
			Colors: []string{"#f1c0e8", "#cfbaf0", "#a3c4f3", "#90dbf4", "#8eecf5", "#98f5e1", "#b9fbc0", "#f1f8b8"},
		},
		{
			Name:   "Bold",
			Colors: []string{"#ff595e", "#ffca3a", "#8ac926", "#1982c4", "#6a4c93", "#f15bb5", "#00bbf9", "#00f5d4"},
		},
		{
			Name:   "Monochrome",
			Colors: []string{"#0466c8", "#0353a4", "#023e7d", "#002855", "#001845", "#001233", "#33415c", "#5c677d"},
		},
	}
)

//////////////////////////////////////////////////////////////////
//----------------------- FUNCTIONS -------------------------
//////////////////////////////////////////////////////////////////

// ToAlphaColor decodes the r, g and b bytes of passed hex color and
// re-encodes them as an rgba color with passed alpha
//
// Alpha is clamped to [0,1].  If hex is not a valid 6 digit hex
// color, the neutral color is used
func ToAlphaColor(hex string, alpha float64) string {
	r, g, b, ok := parseHex(hex)

	if !ok {
		r, g, b, _ = parseHex(NeutralColor)
	}

	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}

	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// ToHex converts passed color to a lower case 6 digit hex color
//
// Accepted inputs are hex colors and rgb/rgba colors.  The alpha channel is
// discarded.  Anything else returns NeutralColor, never an error, since
// colors may come from untrusted import documents
func ToHex(color string) string {
	color = strings.TrimSpace(color)

	if r, g, b, ok := parseHex(color); ok {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}

	match := rgbaRegex.FindStringSubmatch(color)

	if match == nil {
		return NeutralColor
	}

	channels := make([]int, 3)

	for i := range channels {
		v, err := strconv.Atoi(match[i+1])

		if err != nil || v > 255 {
			return NeutralColor
		}

		channels[i] = v
	}

	return fmt.Sprintf("#%02x%02x%02x", channels[0], channels[1], channels[2])
}

func parseHex(hex string) (r, g, b int, ok bool) {
	if !HexColorRegex.MatchString(hex) {
		return 0, 0, 0, false
	}

	v, err := strconv.ParseUint(hex[1:], 16, 32)

	if err != nil {
		return 0, 0, 0, false
	}

	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
