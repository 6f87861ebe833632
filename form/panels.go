package form

import (
	"fmt"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/pkg/errors"
)

func static(id string, tab Tab, label string, kind Kind) Control {
	return Control{ID: id, Tab: tab, Label: label, Kind: kind, Dataset: -1}
}

//////////////////////////////////////////////////////////////////
//------------------------- DATA TAB --------------------------
//////////////////////////////////////////////////////////////////

func (f *Form) dataBindings() []*binding {
	labels := &binding{
		control: static(LabelsID, DataTab, "Labels (comma separated)", TextKind),
		path:    "labels",
		read: func(m *chart.Model) (string, bool) {
			return formatLabels(m.Labels), false
		},
		write: func(m *chart.Model, ev Event) error {
			m.Labels = parseLabels(ev.Value)
			return nil
		},
	}

	chartTypeControl := static(ChartTypeID, DataTab, "Chart Type", SelectKind)
	chartTypeControl.Options = chartTypeOptions

	chartType := &binding{
		control: chartTypeControl,
		path:    "datasets.*",
		read: func(m *chart.Model) (string, bool) {
			return string(f.widgets.ChartType), false
		},
		write: func(m *chart.Model, ev Event) error {
			t := chart.ChartType(ev.Value)

			if err := chart.ApplyChartType(m, t); err != nil {
				return errors.Wrap(ErrInvalidValue, err.Error())
			}

			f.widgets.ChartType = t
			return nil
		},
		rehydrate: true,
	}

	return []*binding{labels, chartType}
}

// datasetBindings returns the bindings of every control of the
// dataset at index
func datasetBindings(index int) []*binding {
	control := func(prefix, label string, kind Kind) Control {
		return Control{
			ID:      DatasetControlID(prefix, index),
			Tab:     DataTab,
			Label:   label,
			Kind:    kind,
			Dataset: index,
		}
	}
	path := func(field string) string {
		return fmt.Sprintf("datasets.%d.%s", index, field)
	}

	data := &binding{
		control: control(DatasetDataPrefix, "Data (comma separated)", TextKind),
		path:    path("data"),
		read: func(m *chart.Model) (string, bool) {
			if d := m.Dataset(index); d != nil {
				return chart.FormatValues(d.Data), false
			}

			return "", false
		},
		write: func(m *chart.Model, ev Event) error {
			d := m.Dataset(index)

			if d == nil {
				return ErrUnknownControl
			}

			d.Data = chart.ParseValues(ev.Value)
			return nil
		},
	}

	lineWidthControl := control(DatasetLineWidthPrefix, "Line Width", NumberKind)
	lineWidthControl.Min, lineWidthControl.Max = "1", "10"

	tensionControl := control(DatasetTensionPrefix, "Line Tension", RangeKind)
	tensionControl.Min, tensionControl.Max, tensionControl.Step = "0", "1", "0.1"
	tensionControl.Live = true

	tension := &binding{
		control: tensionControl,
		path:    path("tension"),
		read: func(m *chart.Model) (string, bool) {
			if d := m.Dataset(index); d != nil {
				return formatFloat(d.Tension), false
			}

			return "", false
		},
		write: func(m *chart.Model, ev Event) error {
			d := m.Dataset(index)

			if d == nil {
				return ErrUnknownControl
			}

			t, err := parseStep(ev.Value, tensionPlaces)

			if err != nil {
				return err
			}

			d.Tension = t
			return nil
		},
		readOut: func(m *chart.Model) string {
			if d := m.Dataset(index); d != nil {
				return formatFixed(d.Tension, tensionPlaces)
			}

			return ""
		},
	}

	pointStyleControl := control(DatasetPointStylePrefix, "Point Style", SelectKind)
	pointStyleControl.Options = pointStyleOptions

	pointRadiusControl := control(DatasetPointRadiusPrefix, "Point Radius", NumberKind)
	pointRadiusControl.Min, pointRadiusControl.Max = "0", "20"

	pointRadius := intBinding(
		pointRadiusControl,
		path("pointRadius"),
		datasetField(index, func(d *chart.Dataset) *int { return &d.PointRadius }),
	)
	setRadius := pointRadius.write
	pointRadius.write = func(m *chart.Model, ev Event) error {
		if err := setRadius(m, ev); err != nil {
			return err
		}

		m.Datasets[index].SetPointRadius(m.Datasets[index].PointRadius)
		return nil
	}

	lineStyleControl := control(DatasetLineStylePrefix, "Line Style", SelectKind)
	lineStyleControl.Options = dashPatternOptions

	fillControl := control(DatasetFillPrefix, "Fill", SelectKind)
	fillControl.Options = fillModeOptions

	return []*binding{
		stringBinding(
			control(DatasetLabelPrefix, "Label", TextKind),
			path("label"),
			datasetField(index, func(d *chart.Dataset) *string { return &d.Label }),
		),
		data,
		colorBinding(
			control(DatasetLineColorPrefix, "Line Color", ColorKind),
			path("lineColor"),
			datasetField(index, func(d *chart.Dataset) *string { return &d.LineColor }),
			identity,
		),
		colorBinding(
			control(DatasetFillColorPrefix, "Fill Color", ColorKind),
			path("fillColor"),
			datasetField(index, func(d *chart.Dataset) *string { return &d.FillColor }),
			alphaFill,
		),
		intBinding(
			lineWidthControl,
			path("lineWidth"),
			datasetField(index, func(d *chart.Dataset) *int { return &d.LineWidth }),
		),
		tension,
		selectBinding(
			pointStyleControl,
			path("pointStyle"),
			datasetField(index, func(d *chart.Dataset) *chart.PointStyle { return &d.PointStyle }),
		),
		pointRadius,
		selectBinding(
			lineStyleControl,
			path("dashPattern"),
			datasetField(index, func(d *chart.Dataset) *chart.DashPattern { return &d.DashPattern }),
		),
		selectBinding(
			fillControl,
			path("fillMode"),
			datasetField(index, func(d *chart.Dataset) *chart.FillMode { return &d.FillMode }),
		),
	}
}

//////////////////////////////////////////////////////////////////
//------------------------ OPTIONS TAB ------------------------
//////////////////////////////////////////////////////////////////

func (f *Form) optionBindings() []*binding {
	legendPosition := static(LegendPositionID, OptionsTab, "Legend Position", SelectKind)
	legendPosition.Options = positionTypeOptions

	secondaryAxisTitle := &binding{
		control: static(SecondaryAxisTitleID, OptionsTab, "Secondary Y-Axis Title", TextKind),
		path:    "options.axes.secondaryY.title",
		read: func(m *chart.Model) (string, bool) {
			if axis := m.Options.Axes.SecondaryY; axis != nil {
				return axis.Title, false
			}

			return "", false
		},
		write: func(m *chart.Model, ev Event) error {
			axis := m.Options.Axes.SecondaryY

			if axis == nil {
				return errors.Wrap(ErrInvalidValue, "chart has no secondary axis")
			}

			axis.Title = ev.Value
			return nil
		},
	}

	animation := &binding{
		control: static(AnimationID, OptionsTab, "Enable Animation", CheckboxKind),
		path:    "options.animation.durationMs",
		read: func(m *chart.Model) (string, bool) {
			on := m.Options.Animation.DurationMs > 0
			return formatBool(on), on
		},
		write: func(m *chart.Model, ev Event) error {
			if ev.Checked {
				m.Options.Animation.DurationMs = chart.AnimationDuration
			} else {
				m.Options.Animation.DurationMs = 0
			}

			return nil
		},
	}

	return []*binding{
		stringBinding(
			static(TitleID, OptionsTab, "Chart Title", TextKind),
			"options.title.text",
			optionField(func(o *chart.Options) *string { return &o.Title.Text }),
		),
		boolBinding(
			static(ShowTitleID, OptionsTab, "Show Title", CheckboxKind),
			"options.title.display",
			optionField(func(o *chart.Options) *bool { return &o.Title.Display }),
		),
		stringBinding(
			static(XAxisTitleID, OptionsTab, "X-Axis Title", TextKind),
			"options.axes.x.title",
			optionField(func(o *chart.Options) *string { return &o.Axes.X.Title }),
		),
		stringBinding(
			static(YAxisTitleID, OptionsTab, "Y-Axis Title", TextKind),
			"options.axes.y.title",
			optionField(func(o *chart.Options) *string { return &o.Axes.Y.Title }),
		),
		secondaryAxisTitle,
		boolBinding(
			static(ShowLegendID, OptionsTab, "Show Legend", CheckboxKind),
			"options.legend.display",
			optionField(func(o *chart.Options) *bool { return &o.Legend.Display }),
		),
		selectBinding(
			legendPosition,
			"options.legend.position",
			optionField(func(o *chart.Options) *chart.PositionType { return &o.Legend.Position }),
		),
		animation,
		boolBinding(
			static(TooltipsID, OptionsTab, "Enable Tooltips", CheckboxKind),
			"options.tooltips.enabled",
			optionField(func(o *chart.Options) *bool { return &o.Tooltips.Enabled }),
		),
		boolBinding(
			static(AspectRatioID, OptionsTab, "Maintain Aspect Ratio", CheckboxKind),
			"options.maintainAspectRatio",
			optionField(func(o *chart.Options) *bool { return &o.MaintainAspectRatio }),
		),
	}
}

//////////////////////////////////////////////////////////////////
//------------------------ LAYOUT TAB -------------------------
//////////////////////////////////////////////////////////////////

func (f *Form) layoutBindings() []*binding {
	fontFamily := static(FontFamilyID, LayoutTab, "Font Family", SelectKind)
	fontFamily.Options = fontOptions

	titleSize := static(TitleFontSizeID, LayoutTab, "Title Font Size", NumberKind)
	titleSize.Min, titleSize.Max = "8", "40"

	axisSize := static(AxisFontSizeID, LayoutTab, "Axis Font Size", NumberKind)
	axisSize.Min, axisSize.Max = "8", "30"

	gridControl := static(GridLinesID, LayoutTab, "Grid Lines", SelectKind)
	gridControl.Options = gridOptions

	grid := &binding{
		control: gridControl,
		path:    "options.grid",
		read: func(m *chart.Model) (string, bool) {
			return gridValue(m.Options.Grid), false
		},
		write: func(m *chart.Model, ev Event) error {
			g, err := parseGrid(ev.Value)

			if err != nil {
				return err
			}

			m.Options.Grid = g
			return nil
		},
	}

	borderWidthControl := static(BorderWidthID, LayoutTab, "Border Width", RangeKind)
	borderWidthControl.Min, borderWidthControl.Max, borderWidthControl.Step = "1", "10", "1"
	borderWidthControl.Live = true

	borderWidth := &binding{
		control: borderWidthControl,
		path:    "datasets.*.lineWidth",
		read: func(m *chart.Model) (string, bool) {
			return formatInt(f.widgets.BorderWidth), false
		},
		write: func(m *chart.Model, ev Event) error {
			w, err := parseInt(ev.Value)

			if err != nil {
				return err
			}

			for i := range m.Datasets {
				m.Datasets[i].LineWidth = w
			}

			f.widgets.BorderWidth = w
			return nil
		},
		readOut: func(m *chart.Model) string {
			return fmt.Sprintf("%dpx", f.widgets.BorderWidth)
		},
		rehydrate: true,
	}

	return []*binding{
		selectBinding(
			fontFamily,
			"options.font.family",
			optionField(func(o *chart.Options) *string { return &o.Font.Family }),
		),
		intBinding(
			titleSize,
			"options.font.titleSize",
			optionField(func(o *chart.Options) *int { return &o.Font.TitleSize }),
		),
		intBinding(
			axisSize,
			"options.font.axisSize",
			optionField(func(o *chart.Options) *int { return &o.Font.AxisSize }),
		),
		grid,
		colorBinding(
			static(BackgroundID, LayoutTab, "Chart Background", ColorKind),
			"options.background",
			optionField(func(o *chart.Options) *string { return &o.Background }),
			identity,
		),
		boolBinding(
			static(RoundedCornersID, LayoutTab, "Rounded Corners", CheckboxKind),
			"options.roundedCorners",
			optionField(func(o *chart.Options) *bool { return &o.RoundedCorners }),
		),
		borderWidth,
	}
}
