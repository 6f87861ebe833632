package chart

import "github.com/pkg/errors"

// ChartType enums
const (
	BasicChartType        ChartType = "basic"
	MultiAxisChartType    ChartType = "multi-axis"
	SteppedChartType      ChartType = "stepped"
	InterpolatedChartType ChartType = "interpolated"
	PointsChartType       ChartType = "points"
	FilledChartType       ChartType = "filled"
)

const (
	// SecondaryAxisTitle is the title given to the axis created by
	// the multi axis chart type
	SecondaryAxisTitle = "Secondary Axis"
)

var (
	// ErrUnknownChartType is returned when applying a chart type
	// that does not exist
	ErrUnknownChartType = errors.New("chart: unknown chart type")
)

// ChartType names a one shot transform over every dataset of a model
//
// A chart type is a command, not a mode: applying one only writes
// the fields it names, so transforms compose and are never undone
// by applying another type
type ChartType string

// ChartTypes lists every chart type in display order
var ChartTypes = []ChartType{
	BasicChartType, MultiAxisChartType, SteppedChartType,
	InterpolatedChartType, PointsChartType, FilledChartType,
}

// Valid reports whether t is a known chart type
func (t ChartType) Valid() bool {
	for _, v := range ChartTypes {
		if v == t {
			return true
		}
	}

	return false
}

// ApplyChartType mutates passed model according to passed chart type
//
// The multi axis type needs at least two datasets and otherwise
// leaves the model unchanged
func ApplyChartType(m *Model, t ChartType) error {
	if !t.Valid() {
		return errors.Wrapf(ErrUnknownChartType, "%q", t)
	}

	switch t {
	case BasicChartType:
		for i := range m.Datasets {
			m.Datasets[i].Tension = 0
			m.Datasets[i].FillMode = NoFill
			m.Datasets[i].Stepped = false
		}
	case MultiAxisChartType:
		if len(m.Datasets) < 2 {
			return nil
		}

		m.Options.Axes.SecondaryY = &AxisOptions{Title: SecondaryAxisTitle}
		m.Datasets[0].SecondaryAxisID = PrimaryAxisID
		m.Datasets[1].SecondaryAxisID = SecondaryAxisID
	case SteppedChartType:
		for i := range m.Datasets {
			m.Datasets[i].Stepped = true
			m.Datasets[i].Tension = 0
		}
	case InterpolatedChartType:
		for i := range m.Datasets {
			m.Datasets[i].Stepped = false
			m.Datasets[i].Tension = 0.4
			m.Datasets[i].FillMode = NoFill
		}
	case PointsChartType:
		for i := range m.Datasets {
			m.Datasets[i].SetPointRadius(6)
			m.Datasets[i].Tension = 0
		}
	case FilledChartType:
		for i := range m.Datasets {
			m.Datasets[i].FillMode = OriginFill
		}
	}

	return nil
}
