package chart

import (
	"encoding/json"
	"strings"
)

//////////////////////////////////////////////////////////////////
//--------------------------- ENUMS ---------------------------
//////////////////////////////////////////////////////////////////

// PointStyle enums
const (
	CirclePointStyle      PointStyle = "circle"
	CrossPointStyle       PointStyle = "cross"
	CrossRotPointStyle    PointStyle = "crossRot"
	DashPointStyle        PointStyle = "dash"
	LinePointStyle        PointStyle = "line"
	RectPointStyle        PointStyle = "rect"
	RectRoundedPointStyle PointStyle = "rectRounded"
	RectRotPointStyle     PointStyle = "rectRot"
	StarPointStyle        PointStyle = "star"
	TrianglePointStyle    PointStyle = "triangle"
)

// PositionType enums
const (
	TopPositionType    PositionType = "top"
	BottomPositionType PositionType = "bottom"
	LeftPositionType   PositionType = "left"
	RightPositionType  PositionType = "right"
)

// FillMode enums
const (
	NoFill     FillMode = "none"
	OriginFill FillMode = "origin"
	StartFill  FillMode = "start"
	EndFill    FillMode = "end"
)

// DashPattern enums
const (
	SolidDash  DashPattern = "solid"
	DashedDash DashPattern = "dashed"
	DottedDash DashPattern = "dotted"
)

const (
	// PrimaryAxisID is the id of the default y axis
	PrimaryAxisID = "y"

	// SecondaryAxisID is the id of the y axis created by the
	// multi axis chart type
	SecondaryAxisID = "y1"

	// AnimationDuration is the duration used when animations are enabled
	AnimationDuration = 1000

	// DefaultTitle is the title of a new chart
	DefaultTitle = "Your Chart Title"
)

type PointStyle string
type PositionType string
type FillMode string
type DashPattern string

var (
	// PointStyles lists every PointStyle in display order
	PointStyles = []PointStyle{
		CirclePointStyle, CrossPointStyle, CrossRotPointStyle, DashPointStyle, LinePointStyle,
		RectPointStyle, RectRoundedPointStyle, RectRotPointStyle, StarPointStyle, TrianglePointStyle,
	}

	// PositionTypes lists every legend position
	PositionTypes = []PositionType{TopPositionType, BottomPositionType, LeftPositionType, RightPositionType}

	// FillModes lists every FillMode
	FillModes = []FillMode{NoFill, OriginFill, StartFill, EndFill}

	// DashPatterns lists every DashPattern
	DashPatterns = []DashPattern{SolidDash, DashedDash, DottedDash}

	// Fonts are the font families offered by the layout tab
	Fonts = []string{
		"Arial", "Helvetica", "Times New Roman", "Courier New", "Verdana",
		"Georgia", "Palatino", "Garamond", "Bookman", "Tahoma", "Trebuchet MS",
	}
)

// Pattern returns the fixed numeric dash pattern for d
func (d DashPattern) Pattern() []int {
	switch d {
	case DashedDash:
		return []int{5, 5}
	case DottedDash:
		return []int{2, 2}
	default:
		return []int{}
	}
}

// UnmarshalJSON accepts the legacy boolean false for "no fill"
func (f *FillMode) UnmarshalJSON(data []byte) error {
	var s string

	if err := json.Unmarshal(data, &s); err != nil {
		var b bool

		if err = json.Unmarshal(data, &b); err != nil {
			return err
		}

		if b {
			*f = OriginFill
		} else {
			*f = NoFill
		}

		return nil
	}

	if s == "false" || s == "" {
		*f = NoFill
	} else {
		*f = FillMode(s)
	}

	return nil
}

//////////////////////////////////////////////////////////////////
//------------------------- STRUCTS ---------------------------
//////////////////////////////////////////////////////////////////

// Dataset is one data series plus its visual styling
type Dataset struct {
	Label            string      `json:"label"`
	Data             []Value     `json:"data"`
	LineColor        string      `json:"lineColor"`
	FillColor        string      `json:"fillColor"`
	LineWidth        int         `json:"lineWidth"`
	Tension          float64     `json:"tension"`
	Stepped          bool        `json:"stepped"`
	PointStyle       PointStyle  `json:"pointStyle"`
	PointRadius      int         `json:"pointRadius"`
	PointHoverRadius int         `json:"pointHoverRadius"`
	DashPattern      DashPattern `json:"dashPattern"`
	FillMode         FillMode    `json:"fillMode"`
	SecondaryAxisID  string      `json:"secondaryAxisId,omitempty"`
}

// SetPointRadius sets the point radius and derives the hover radius
func (d *Dataset) SetPointRadius(radius int) {
	d.PointRadius = radius
	d.PointHoverRadius = radius + 2
}

type TitleOptions struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type LegendOptions struct {
	Display  bool         `json:"display"`
	Position PositionType `json:"position"`
}

type TooltipOptions struct {
	Enabled bool `json:"enabled"`
}

type AnimationOptions struct {
	DurationMs int `json:"durationMs"`
}

type FontOptions struct {
	Family    string `json:"family"`
	TitleSize int    `json:"titleSize"`
	AxisSize  int    `json:"axisSize"`
}

type GridOptions struct {
	X bool `json:"x"`
	Y bool `json:"y"`
}

type AxisOptions struct {
	Title string `json:"title"`
}

type AxesOptions struct {
	X          AxisOptions  `json:"x"`
	Y          AxisOptions  `json:"y"`
	SecondaryY *AxisOptions `json:"secondaryY"`
}

// Options holds every chart wide setting
type Options struct {
	Title               TitleOptions     `json:"title"`
	Legend              LegendOptions    `json:"legend"`
	Tooltips            TooltipOptions   `json:"tooltips"`
	MaintainAspectRatio bool             `json:"maintainAspectRatio"`
	Animation           AnimationOptions `json:"animation"`
	Font                FontOptions      `json:"font"`
	Grid                GridOptions      `json:"grid"`
	Axes                AxesOptions      `json:"axes"`

	// Background is the hex color painted behind the chart
	Background string `json:"background"`

	// RoundedCorners rounds line caps and joins
	RoundedCorners bool `json:"roundedCorners"`
}

// Model is the canonical chart specification the editor works on
type Model struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
	Options  Options   `json:"options"`
}

//////////////////////////////////////////////////////////////////
//----------------------- FUNCTIONS -------------------------
//////////////////////////////////////////////////////////////////

// DefaultOptions returns options a new editor starts with
func DefaultOptions() Options {
	return Options{
		Title:               TitleOptions{Display: true, Text: DefaultTitle},
		Legend:              LegendOptions{Display: true, Position: TopPositionType},
		Tooltips:            TooltipOptions{Enabled: true},
		MaintainAspectRatio: false,
		Animation:           AnimationOptions{DurationMs: AnimationDuration},
		Font:                FontOptions{Family: Fonts[0], TitleSize: 16, AxisSize: 12},
		Grid:                GridOptions{X: true, Y: true},
		Axes: AxesOptions{
			X: AxisOptions{Title: "Month"},
			Y: AxisOptions{Title: "Value"},
		},
		Background:     "#ffffff",
		RoundedCorners: true,
	}
}

// NewDataset returns a dataset with default styling colored with
// passed hex color
func NewDataset(label, color string, data []Value) Dataset {
	return Dataset{
		Label:            label,
		Data:             data,
		LineColor:        color,
		FillColor:        ToAlphaColor(color, FillAlpha),
		LineWidth:        2,
		Tension:          0.4,
		PointStyle:       CirclePointStyle,
		PointRadius:      3,
		PointHoverRadius: 5,
		DashPattern:      SolidDash,
		FillMode:         NoFill,
	}
}

// DefaultModel returns the single dataset, six label model a new
// editor starts with
func DefaultModel() *Model {
	return &Model{
		Labels: []string{"January", "February", "March", "April", "May", "June"},
		Datasets: []Dataset{
			NewDataset("Dataset 1", DefaultPalette.Colors[0], []Value{65, 59, 80, 81, 56, 55}),
		},
		Options: DefaultOptions(),
	}
}

// Clone returns a deep copy of m
func (m *Model) Clone() *Model {
	c := &Model{
		Datasets: make([]Dataset, len(m.Datasets)),
		Options:  m.Options,
	}

	if m.Labels != nil {
		c.Labels = make([]string, len(m.Labels))
		copy(c.Labels, m.Labels)
	}

	for i, d := range m.Datasets {
		if d.Data != nil {
			d.Data = make([]Value, len(m.Datasets[i].Data))
			copy(d.Data, m.Datasets[i].Data)
		}

		c.Datasets[i] = d
	}

	if m.Options.Axes.SecondaryY != nil {
		axis := *m.Options.Axes.SecondaryY
		c.Options.Axes.SecondaryY = &axis
	}

	return c
}

// ColorInUse reports whether passed hex color is the line color of
// any dataset
func (m *Model) ColorInUse(hex string) bool {
	hex = ToHex(hex)

	for _, d := range m.Datasets {
		if strings.EqualFold(ToHex(d.LineColor), hex) {
			return true
		}
	}

	return false
}

// Dataset returns the dataset at index or nil when index is out of range
func (m *Model) Dataset(index int) *Dataset {
	if index < 0 || index >= len(m.Datasets) {
		return nil
	}

	return &m.Datasets[index]
}
