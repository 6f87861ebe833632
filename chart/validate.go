package chart

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

//////////////////////////////////////////////////////////////////
//----------------------- VALIDATORS -------------------------
//////////////////////////////////////////////////////////////////

// Validate validates the fields of d a user is able to edit
func (d Dataset) Validate() error {
	return validation.ValidateStruct(
		&d,
		validation.Field(&d.LineColor, validation.Required),
		validation.Field(&d.LineWidth, validation.Required, validation.Min(1)),
		validation.Field(&d.Tension, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&d.PointStyle, validation.Required, validation.In(pointStyleValues()...)),
		validation.Field(&d.PointRadius, validation.Min(0)),
		validation.Field(&d.PointHoverRadius, validation.Min(0)),
		validation.Field(&d.DashPattern, validation.Required, validation.In(dashPatternValues()...)),
		validation.Field(&d.FillMode, validation.Required, validation.In(fillModeValues()...)),
		validation.Field(
			&d.SecondaryAxisID,
			validation.In(PrimaryAxisID, SecondaryAxisID),
		),
	)
}

func (l LegendOptions) Validate() error {
	return validation.ValidateStruct(
		&l,
		validation.Field(&l.Position, validation.Required, validation.In(positionTypeValues()...)),
	)
}

func (a AnimationOptions) Validate() error {
	return validation.ValidateStruct(
		&a,
		validation.Field(&a.DurationMs, validation.Min(0)),
	)
}

func (f FontOptions) Validate() error {
	return validation.ValidateStruct(
		&f,
		validation.Field(&f.Family, validation.Required),
		validation.Field(&f.TitleSize, validation.Required, validation.Min(1)),
		validation.Field(&f.AxisSize, validation.Required, validation.Min(1)),
	)
}

// Validate validates every nested option group of o
func (o Options) Validate() error {
	return validation.ValidateStruct(
		&o,
		validation.Field(&o.Legend),
		validation.Field(&o.Animation),
		validation.Field(&o.Font),
		validation.Field(&o.Background, validation.Match(HexColorRegex)),
	)
}

// Validate validates m and every dataset it holds
//
// The length of each dataset's data is not compared against the
// length of the labels
func (m Model) Validate() error {
	return validation.ValidateStruct(
		&m,
		validation.Field(&m.Datasets, validation.Required),
		validation.Field(&m.Options),
	)
}

//////////////////////////////////////////////////////////////////
//------------------------ FUNCTIONS --------------------------
//////////////////////////////////////////////////////////////////

func pointStyleValues() []interface{} {
	values := make([]interface{}, 0, len(PointStyles))

	for _, v := range PointStyles {
		values = append(values, v)
	}

	return values
}

func positionTypeValues() []interface{} {
	values := make([]interface{}, 0, len(PositionTypes))

	for _, v := range PositionTypes {
		values = append(values, v)
	}

	return values
}

func fillModeValues() []interface{} {
	values := make([]interface{}, 0, len(FillModes))

	for _, v := range FillModes {
		values = append(values, v)
	}

	return values
}

func dashPatternValues() []interface{} {
	values := make([]interface{}, 0, len(DashPatterns))

	for _, v := range DashPatterns {
		values = append(values, v)
	}

	return values
}
