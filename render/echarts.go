package render

import (
	"context"
	"sync"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/pkg/errors"
)

const (
	// DefaultWidth is the width of charts drawn by ECharts
	DefaultWidth = "100%"

	// DefaultHeight is the height of charts drawn by ECharts
	DefaultHeight = "400px"

	// missingValue is how echarts marks a gap in a series
	missingValue = "-"

	// secondaryAxisRight runs once the option is set and moves the
	// second y axis to the right of the grid
	secondaryAxisRight types.FuncStr = `%MY_ECHARTS%.setOption({yAxis: [{}, {position: "right"}]});`
)

// echartsSymbols maps point styles to the closest echarts symbol
var echartsSymbols = map[chart.PointStyle]string{
	chart.CirclePointStyle:      "circle",
	chart.CrossPointStyle:       "pin",
	chart.CrossRotPointStyle:    "pin",
	chart.DashPointStyle:        "rect",
	chart.LinePointStyle:        "rect",
	chart.RectPointStyle:        "rect",
	chart.RectRoundedPointStyle: "roundRect",
	chart.RectRotPointStyle:     "diamond",
	chart.StarPointStyle:        "arrow",
	chart.TrianglePointStyle:    "triangle",
}

// ECharts is a Library drawing line charts as html pages with go-echarts
type ECharts struct {
	Width  string
	Height string
}

// LoadECharts is the LoadFunc of the echarts library
func LoadECharts(ctx context.Context) (Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &ECharts{Width: DefaultWidth, Height: DefaultHeight}, nil
}

// EChartsSized returns a LoadFunc of the echarts library drawing
// charts of passed size.  Empty sizes use the defaults
func EChartsSized(width, height string) LoadFunc {
	return func(ctx context.Context) (Library, error) {
		lib, err := LoadECharts(ctx)

		if err != nil {
			return nil, err
		}

		e := lib.(*ECharts)

		if width != "" {
			e.Width = width
		}
		if height != "" {
			e.Height = height
		}

		return e, nil
	}
}

// New draws m on target
func (e *ECharts) New(target Surface, m *chart.Model) (Chart, error) {
	c := &echartsChart{lib: e, target: target, model: m}

	if err := c.Update(); err != nil {
		return nil, err
	}

	return c, nil
}

type echartsChart struct {
	lib    *ECharts
	target Surface
	model  *chart.Model

	mu       sync.Mutex
	disposed bool
}

// Update redraws the chart from the current state of its model
func (c *echartsChart) Update() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}

	line := c.lib.build(c.target.ID(), c.model)
	c.target.Reset()

	if err := line.Render(c.target); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (c *echartsChart) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}

	c.disposed = true
	c.target.Reset()
}

// build converts m into a go-echarts line chart
func (e *ECharts) build(id string, m *chart.Model) *charts.Line {
	o := m.Options
	line := charts.NewLine()

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:         id,
			Width:           e.Width,
			Height:          e.Height,
			BackgroundColor: o.Background,
		}),
		charts.WithLegendOpts(legendOpts(o.Legend)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(o.Tooltips.Enabled), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      o.Axes.X.Title,
			SplitLine: &opts.SplitLine{Show: opts.Bool(o.Grid.X)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      o.Axes.Y.Title,
			SplitLine: &opts.SplitLine{Show: opts.Bool(o.Grid.Y)},
		}),
	}

	if o.Title.Display {
		global = append(global, charts.WithTitleOpts(opts.Title{
			Title: o.Title.Text,
			Left:  "center",
			TitleStyle: &opts.TextStyle{
				FontFamily: o.Font.Family,
				FontSize:   o.Font.TitleSize,
			},
		}))
	}

	line.SetGlobalOptions(global...)

	if o.Axes.SecondaryY != nil {
		line.ExtendYAxis(opts.YAxis{
			Name:      o.Axes.SecondaryY.Title,
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		})
		line.AddJSFuncStrs(secondaryAxisRight)
	}

	line.SetXAxis(m.Labels)

	for _, d := range m.Datasets {
		line.AddSeries(d.Label, lineData(d.Data), seriesOpts(d, o.Axes.SecondaryY != nil)...)
	}

	return line
}

func legendOpts(l chart.LegendOptions) opts.Legend {
	legend := opts.Legend{Show: opts.Bool(l.Display)}

	switch l.Position {
	case chart.BottomPositionType:
		legend.Bottom = "0"
	case chart.LeftPositionType:
		legend.Left, legend.Orient = "0", "vertical"
	case chart.RightPositionType:
		legend.Right, legend.Orient = "0", "vertical"
	default:
		legend.Top = "30"
	}

	return legend
}

func lineData(values []chart.Value) []opts.LineData {
	data := make([]opts.LineData, 0, len(values))

	for _, v := range values {
		if v.IsNaN() {
			data = append(data, opts.LineData{Value: missingValue})
		} else {
			data = append(data, opts.LineData{Value: v.Float64()})
		}
	}

	return data
}

func seriesOpts(d chart.Dataset, secondary bool) []charts.SeriesOpts {
	symbol, ok := echartsSymbols[d.PointStyle]

	if !ok {
		symbol = echartsSymbols[chart.CirclePointStyle]
	}

	lineChart := opts.LineChart{
		Smooth:     opts.Bool(d.Tension > 0 && !d.Stepped),
		Step:       opts.Bool(d.Stepped),
		ShowSymbol: opts.Bool(d.PointRadius > 0),
		Symbol:     symbol,
		SymbolSize: d.PointRadius * 2,
	}

	if secondary && d.SecondaryAxisID == chart.SecondaryAxisID {
		lineChart.YAxisIndex = 1
	}

	series := []charts.SeriesOpts{
		charts.WithLineChartOpts(lineChart),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: d.LineColor}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Color: d.LineColor,
			Width: float32(d.LineWidth),
			Type:  string(d.DashPattern),
		}),
	}

	if d.FillMode != chart.NoFill && d.FillMode != "" {
		series = append(series, charts.WithAreaStyleOpts(opts.AreaStyle{
			Color:   d.FillColor,
			Opacity: 1,
		}))
	}

	return series
}
