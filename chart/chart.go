package chart

/////////////////////////////////////////////////////////////////////////////
// This file contains type safe structs for the configuration object
// consumed by the chart.js library
//
// The structs are based on the type definitions from the
// npm package @types/chart.js (https://www.npmjs.com/package/@types/chart.js)
// and only cover what a line chart built by the editor uses
/////////////////////////////////////////////////////////////////////////////

// LineChartType is the only chart.js chart type the editor produces
const LineChartType = "line"

type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string        `json:"labels"`
	Datasets []ChartDataSets `json:"datasets"`
}

type ChartDataSets struct {
	BackgroundColor  string      `json:"backgroundColor"`
	BorderColor      string      `json:"borderColor"`
	BorderDash       []int       `json:"borderDash"`
	BorderWidth      int         `json:"borderWidth"`
	Data             []Value     `json:"data"`
	Fill             interface{} `json:"fill"`
	Label            string      `json:"label"`
	PointHoverRadius int         `json:"pointHoverRadius"`
	PointRadius      int         `json:"pointRadius"`
	PointStyle       PointStyle  `json:"pointStyle"`
	Stepped          bool        `json:"stepped"`
	Tension          float64     `json:"tension"`
	YAxisID          string      `json:"yAxisID,omitempty"`
}

type ChartFont struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
}

type ChartTitle struct {
	Display bool       `json:"display"`
	Text    string     `json:"text"`
	Font    *ChartFont `json:"font,omitempty"`
}

type ChartLegend struct {
	Display  bool         `json:"display"`
	Position PositionType `json:"position"`
}

type ChartTooltip struct {
	Enabled bool `json:"enabled"`
}

type ChartPlugins struct {
	Title   ChartTitle   `json:"title"`
	Legend  ChartLegend  `json:"legend"`
	Tooltip ChartTooltip `json:"tooltip"`
}

type ChartGrid struct {
	Display         bool  `json:"display"`
	DrawOnChartArea *bool `json:"drawOnChartArea,omitempty"`
}

type ChartTicks struct {
	Font ChartFont `json:"font"`
}

type ChartScale struct {
	Type     string      `json:"type,omitempty"`
	Display  bool        `json:"display"`
	Position string      `json:"position,omitempty"`
	Title    ChartTitle  `json:"title"`
	Grid     ChartGrid   `json:"grid"`
	Ticks    *ChartTicks `json:"ticks,omitempty"`
}

type ChartAnimation struct {
	Duration int `json:"duration"`
}

type ChartLineElement struct {
	BorderCapStyle  string `json:"borderCapStyle"`
	BorderJoinStyle string `json:"borderJoinStyle"`
}

type ChartElements struct {
	Line ChartLineElement `json:"line"`
}

type ChartOptions struct {
	Responsive          bool                  `json:"responsive"`
	MaintainAspectRatio bool                  `json:"maintainAspectRatio"`
	Animation           ChartAnimation        `json:"animation"`
	Font                ChartFont             `json:"font"`
	Plugins             ChartPlugins          `json:"plugins"`
	Scales              map[string]ChartScale `json:"scales"`
	Elements            ChartElements         `json:"elements"`
}

// Config converts m into the configuration object handed to chart.js
func (m *Model) Config() ChartConfig {
	o := m.Options
	datasets := make([]ChartDataSets, 0, len(m.Datasets))

	for _, d := range m.Datasets {
		var fill interface{} = false

		if d.FillMode != NoFill && d.FillMode != "" {
			fill = string(d.FillMode)
		}

		datasets = append(datasets, ChartDataSets{
			BackgroundColor:  d.FillColor,
			BorderColor:      d.LineColor,
			BorderDash:       d.DashPattern.Pattern(),
			BorderWidth:      d.LineWidth,
			Data:             d.Data,
			Fill:             fill,
			Label:            d.Label,
			PointHoverRadius: d.PointHoverRadius,
			PointRadius:      d.PointRadius,
			PointStyle:       d.PointStyle,
			Stepped:          d.Stepped,
			Tension:          d.Tension,
			YAxisID:          d.SecondaryAxisID,
		})
	}

	axisTitleFont := &ChartFont{Family: o.Font.Family, Size: o.Font.AxisSize + 2}
	ticks := &ChartTicks{Font: ChartFont{Size: o.Font.AxisSize}}

	scales := map[string]ChartScale{
		"x": {
			Display: true,
			Title:   ChartTitle{Display: true, Text: o.Axes.X.Title, Font: axisTitleFont},
			Grid:    ChartGrid{Display: o.Grid.X},
			Ticks:   ticks,
		},
		PrimaryAxisID: {
			Display: true,
			Title:   ChartTitle{Display: true, Text: o.Axes.Y.Title, Font: axisTitleFont},
			Grid:    ChartGrid{Display: o.Grid.Y},
			Ticks:   ticks,
		},
	}

	if o.Axes.SecondaryY != nil {
		drawOnChartArea := false
		scales[SecondaryAxisID] = ChartScale{
			Type:     "linear",
			Display:  true,
			Position: string(RightPositionType),
			Title:    ChartTitle{Display: true, Text: o.Axes.SecondaryY.Title, Font: axisTitleFont},
			Grid:     ChartGrid{Display: o.Grid.Y, DrawOnChartArea: &drawOnChartArea},
			Ticks:    ticks,
		}
	}

	line := ChartLineElement{BorderCapStyle: "butt", BorderJoinStyle: "miter"}

	if o.RoundedCorners {
		line = ChartLineElement{BorderCapStyle: "round", BorderJoinStyle: "round"}
	}

	return ChartConfig{
		Type: LineChartType,
		Data: ChartData{
			Labels:   m.Labels,
			Datasets: datasets,
		},
		Options: ChartOptions{
			Responsive:          true,
			MaintainAspectRatio: o.MaintainAspectRatio,
			Animation:           ChartAnimation{Duration: o.Animation.DurationMs},
			Font:                ChartFont{Family: o.Font.Family},
			Plugins: ChartPlugins{
				Title: ChartTitle{
					Display: o.Title.Display,
					Text:    o.Title.Text,
					Font:    &ChartFont{Family: o.Font.Family, Size: o.Font.TitleSize},
				},
				Legend:  ChartLegend{Display: o.Legend.Display, Position: o.Legend.Position},
				Tooltip: ChartTooltip{Enabled: o.Tooltips.Enabled},
			},
			Scales:   scales,
			Elements: ChartElements{Line: line},
		},
	}
}
