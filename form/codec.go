package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidValue is returned by codecs when a control value can
	// not be converted to the type of the field it is bound to
	ErrInvalidValue = errors.New("form: invalid value")
)

const (
	// tensionPlaces is the number of decimal places of the tension slider
	tensionPlaces = 1
)

// parseInt parses a whole number entered in a number input
//
// Values such as "2.0" are accepted while "2.5" is not
func parseInt(s string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))

	if err != nil {
		return 0, errors.Wrapf(ErrInvalidValue, "%q", s)
	}

	if !d.Equal(d.Truncate(0)) {
		return 0, errors.Wrapf(ErrInvalidValue, "%q is not a whole number", s)
	}

	return int(d.IntPart()), nil
}

// parseStep parses a slider value and rounds it to passed decimal places
func parseStep(s string, places int32) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))

	if err != nil {
		return 0, errors.Wrapf(ErrInvalidValue, "%q", s)
	}

	f, _ := d.Round(places).Float64()
	return f, nil
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NaN"
	}

	return decimal.NewFromFloat(f).String()
}

// formatFixed formats f with exactly passed decimal places for read-out labels
func formatFixed(f float64, places int32) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NaN"
	}

	return decimal.NewFromFloat(f).StringFixed(places)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// parseLabels splits a comma separated label list
func parseLabels(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	labels := make([]string, 0, len(parts))

	for _, p := range parts {
		labels = append(labels, strings.TrimSpace(p))
	}

	return labels
}

func formatLabels(labels []string) string {
	return strings.Join(labels, ", ")
}

// parseHexColor accepts the value of a color input
func parseHexColor(s string) (string, error) {
	s = strings.TrimSpace(s)

	if !chart.HexColorRegex.MatchString(s) {
		return "", errors.Wrapf(ErrInvalidValue, "%q is not a hex color", s)
	}

	return strings.ToLower(s), nil
}

// gridValue maps the grid flags to the value of the grid lines select
func gridValue(g chart.GridOptions) string {
	switch {
	case g.X && g.Y:
		return gridBoth
	case g.X:
		return gridX
	case g.Y:
		return gridY
	default:
		return gridNone
	}
}

func parseGrid(s string) (chart.GridOptions, error) {
	switch s {
	case gridBoth:
		return chart.GridOptions{X: true, Y: true}, nil
	case gridX:
		return chart.GridOptions{X: true}, nil
	case gridY:
		return chart.GridOptions{Y: true}, nil
	case gridNone:
		return chart.GridOptions{}, nil
	}

	return chart.GridOptions{}, errors.Wrapf(ErrInvalidValue, "%q is not a grid option", s)
}

const (
	gridBoth = "both"
	gridX    = "x"
	gridY    = "y"
	gridNone = "none"
)
