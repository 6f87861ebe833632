package form

import (
	"github.com/TravisS25/chartbuilder/chart"
)

// binding ties one control to a field of the model
type binding struct {
	control Control

	// path is the dotted model path the control edits, used in logs
	path string

	read  func(m *chart.Model) (value string, checked bool)
	write func(m *chart.Model, ev Event) error

	// readOut formats the read-out label of live controls
	readOut func(m *chart.Model) string

	// rehydrate is set for commits that change more than the control's field
	rehydrate bool
}

//////////////////////////////////////////////////////////////////
//---------------------- FIELD ACCESSORS ----------------------
//////////////////////////////////////////////////////////////////

// datasetField returns an accessor for a field of the dataset at
// index, returning nil once the dataset no longer exists
func datasetField[T any](index int, field func(d *chart.Dataset) *T) func(m *chart.Model) *T {
	return func(m *chart.Model) *T {
		d := m.Dataset(index)

		if d == nil {
			return nil
		}

		return field(d)
	}
}

func optionField[T any](field func(o *chart.Options) *T) func(m *chart.Model) *T {
	return func(m *chart.Model) *T {
		return field(&m.Options)
	}
}

//////////////////////////////////////////////////////////////////
//---------------------- BINDING BUILDERS ---------------------
//////////////////////////////////////////////////////////////////

func stringBinding(c Control, path string, field func(m *chart.Model) *string) *binding {
	return &binding{
		control: c,
		path:    path,
		read: func(m *chart.Model) (string, bool) {
			if p := field(m); p != nil {
				return *p, false
			}

			return "", false
		},
		write: func(m *chart.Model, ev Event) error {
			p := field(m)

			if p == nil {
				return ErrUnknownControl
			}

			*p = ev.Value
			return nil
		},
	}
}

func intBinding(c Control, path string, field func(m *chart.Model) *int) *binding {
	return &binding{
		control: c,
		path:    path,
		read: func(m *chart.Model) (string, bool) {
			if p := field(m); p != nil {
				return formatInt(*p), false
			}

			return "", false
		},
		write: func(m *chart.Model, ev Event) error {
			p := field(m)

			if p == nil {
				return ErrUnknownControl
			}

			i, err := parseInt(ev.Value)

			if err != nil {
				return err
			}

			*p = i
			return nil
		},
	}
}

func boolBinding(c Control, path string, field func(m *chart.Model) *bool) *binding {
	return &binding{
		control: c,
		path:    path,
		read: func(m *chart.Model) (string, bool) {
			if p := field(m); p != nil {
				return formatBool(*p), *p
			}

			return "", false
		},
		write: func(m *chart.Model, ev Event) error {
			p := field(m)

			if p == nil {
				return ErrUnknownControl
			}

			*p = ev.Checked
			return nil
		},
	}
}

// selectBinding binds a select to a string enum field
//
// Values outside the enum are caught by model validation
func selectBinding[T ~string](c Control, path string, field func(m *chart.Model) *T) *binding {
	return &binding{
		control: c,
		path:    path,
		read: func(m *chart.Model) (string, bool) {
			if p := field(m); p != nil {
				return string(*p), false
			}

			return "", false
		},
		write: func(m *chart.Model, ev Event) error {
			p := field(m)

			if p == nil {
				return ErrUnknownControl
			}

			*p = T(ev.Value)
			return nil
		},
	}
}

// colorBinding binds a color input to a color field
//
// The field is written with the value returned by encode, which lets
// fill colors keep their alpha
func colorBinding(c Control, path string, field func(m *chart.Model) *string, encode func(hex string) string) *binding {
	return &binding{
		control: c,
		path:    path,
		read: func(m *chart.Model) (string, bool) {
			if p := field(m); p != nil {
				return chart.ToHex(*p), false
			}

			return "", false
		},
		write: func(m *chart.Model, ev Event) error {
			p := field(m)

			if p == nil {
				return ErrUnknownControl
			}

			hex, err := parseHexColor(ev.Value)

			if err != nil {
				return err
			}

			*p = encode(hex)
			return nil
		},
	}
}

func identity(hex string) string {
	return hex
}

func alphaFill(hex string) string {
	return chart.ToAlphaColor(hex, chart.FillAlpha)
}

//////////////////////////////////////////////////////////////////
//------------------------- OPTIONS ---------------------------
//////////////////////////////////////////////////////////////////

func enumOptions[T ~string](values []T) []Option {
	options := make([]Option, 0, len(values))

	for _, v := range values {
		options = append(options, Option{Value: string(v), Text: string(v)})
	}

	return options
}

var (
	pointStyleOptions   = enumOptions(chart.PointStyles)
	positionTypeOptions = enumOptions(chart.PositionTypes)
	fillModeOptions     = enumOptions(chart.FillModes)
	chartTypeOptions    = enumOptions(chart.ChartTypes)
	fontOptions         = enumOptions(chart.Fonts)

	dashPatternOptions = []Option{
		{Value: string(chart.SolidDash), Text: "Solid"},
		{Value: string(chart.DashedDash), Text: "Dashed"},
		{Value: string(chart.DottedDash), Text: "Dotted"},
	}

	gridOptions = []Option{
		{Value: gridBoth, Text: "Both"},
		{Value: gridX, Text: "X axis only"},
		{Value: gridY, Text: "Y axis only"},
		{Value: gridNone, Text: "None"},
	}
)
