package form

import (
	"encoding/json"
	"testing"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForm(t *testing.T, datasets int) (*Form, *chart.Model) {
	t.Helper()

	m := chart.DefaultModel()
	c := chart.NewCollection(m, nil)

	for c.Len() < datasets {
		c.Add()
	}

	f := New(nil)
	f.Render(m)
	f.Hydrate(m)

	return f, m
}

func change(id, value string) Event {
	return Event{ID: id, Type: ChangeEvent, Value: value}
}

func controlValue(t *testing.T, f *Form, id string) string {
	t.Helper()

	c, ok := f.Control(id)
	require.True(t, ok, "control %s should exist", id)

	return c.Value
}

func TestFormRenderUnitTest(t *testing.T) {
	f, m := newTestForm(t, 2)

	for i := range m.Datasets {
		for _, prefix := range []string{
			DatasetLabelPrefix, DatasetDataPrefix, DatasetLineColorPrefix, DatasetFillColorPrefix,
			DatasetLineWidthPrefix, DatasetTensionPrefix, DatasetPointStylePrefix,
			DatasetPointRadiusPrefix, DatasetLineStylePrefix, DatasetFillPrefix,
		} {
			c, ok := f.Control(DatasetControlID(prefix, i))

			if assert.True(t, ok, "%s%d should exist", prefix, i) {
				assert.Equal(t, i, c.Dataset)
			}
		}
	}

	count := len(f.Controls())
	f.Render(m)
	f.Hydrate(m)

	assert.Len(t, f.Controls(), count, "render should be idempotent")
	assert.NotEmpty(t, f.Panel(OptionsTab))
	assert.NotEmpty(t, f.Panel(LayoutTab))
	assert.Empty(t, f.Panel(PreviewTab))
}

func TestFormHydrateUnitTest(t *testing.T) {
	f, _ := newTestForm(t, 1)

	assert.Equal(t, "January, February, March, April, May, June", controlValue(t, f, LabelsID))
	assert.Equal(t, "65, 59, 80, 81, 56, 55", controlValue(t, f, DatasetControlID(DatasetDataPrefix, 0)))
	assert.Equal(t, "#4dc9f6", controlValue(t, f, DatasetControlID(DatasetFillColorPrefix, 0)))
	assert.Equal(t, "0.4", controlValue(t, f, DatasetControlID(DatasetTensionPrefix, 0)))
	assert.Equal(t, gridBoth, controlValue(t, f, GridLinesID))

	c, _ := f.Control(ShowLegendID)
	assert.True(t, c.Checked)

	c, _ = f.Control(SecondaryAxisTitleID)
	assert.True(t, c.Hidden, "secondary axis title should be hidden without secondary axis")

	c, _ = f.Control(DatasetControlID(DatasetTensionPrefix, 0))
	assert.Equal(t, "0.4", c.ReadOut)
}

func TestFormCommitDiscreteUnitTest(t *testing.T) {
	f, m := newTestForm(t, 1)
	id := DatasetControlID(DatasetLabelPrefix, 0)

	out, err := f.Commit(m, Event{ID: id, Type: InputEvent, Value: "Sal"})
	require.NoError(t, err)
	assert.False(t, out.Committed, "input should be ignored for discrete controls")
	assert.Equal(t, "Dataset 1", m.Datasets[0].Label)

	out, err = f.Commit(m, change(id, "Sales"))
	require.NoError(t, err)
	assert.True(t, out.Committed)
	assert.Equal(t, "Sales", m.Datasets[0].Label)
	assert.Equal(t, "Sales", controlValue(t, f, id))
}

func TestFormCommitLiveUnitTest(t *testing.T) {
	f, m := newTestForm(t, 1)
	id := DatasetControlID(DatasetTensionPrefix, 0)

	out, err := f.Commit(m, Event{ID: id, Type: InputEvent, Value: "0.73"})
	require.NoError(t, err)
	assert.True(t, out.Committed)
	assert.Equal(t, 0.7, m.Datasets[0].Tension)
	assert.Equal(t, "0.7", out.ReadOut)

	out, err = f.Commit(m, change(id, "0"))
	require.NoError(t, err)
	assert.True(t, out.Committed)
	assert.Equal(t, "0.0", out.ReadOut)

	out, err = f.Commit(m, change(id, "1.5"))
	require.NoError(t, err)
	assert.True(t, out.Rejected, "tension above 1 should be rejected")
	assert.Equal(t, 0.0, m.Datasets[0].Tension)
}

func TestFormCommitRejectedUnitTest(t *testing.T) {
	f, m := newTestForm(t, 2)
	id := DatasetControlID(DatasetLineWidthPrefix, 1)

	for _, value := range []string{"abc", "0", "2.5", "-3"} {
		before := m.Clone()

		out, err := f.Commit(m, change(id, value))
		require.NoError(t, err)

		assert.True(t, out.Rejected, "%q should be rejected", value)
		assert.False(t, out.Committed)
		assert.Equal(t, before, m, "%q should not change model", value)
		assert.Equal(t, "2", controlValue(t, f, id))
	}

	out, err := f.Commit(m, change(id, "4.0"))
	require.NoError(t, err)
	assert.True(t, out.Committed)
	assert.Equal(t, 4, m.Datasets[1].LineWidth)

	out, err = f.Commit(m, change(DatasetControlID(DatasetPointStylePrefix, 0), "hexagon"))
	require.NoError(t, err)
	assert.True(t, out.Rejected)
	assert.Equal(t, chart.CirclePointStyle, m.Datasets[0].PointStyle)

	out, err = f.Commit(m, change(DatasetControlID(DatasetLineColorPrefix, 0), "red"))
	require.NoError(t, err)
	assert.True(t, out.Rejected)
}

func TestFormCommitDataUnitTest(t *testing.T) {
	f, m := newTestForm(t, 1)
	id := DatasetControlID(DatasetDataPrefix, 0)

	out, err := f.Commit(m, change(id, "1, two, 3"))
	require.NoError(t, err)
	assert.True(t, out.Committed)
	require.Len(t, m.Datasets[0].Data, 3)
	assert.True(t, m.Datasets[0].Data[1].IsNaN())
	assert.Equal(t, "1, NaN, 3", controlValue(t, f, id))
}

func TestFormCommitPointRadiusUnitTest(t *testing.T) {
	f, m := newTestForm(t, 1)

	_, err := f.Commit(m, change(DatasetControlID(DatasetPointRadiusPrefix, 0), "7"))
	require.NoError(t, err)

	assert.Equal(t, 7, m.Datasets[0].PointRadius)
	assert.Equal(t, 9, m.Datasets[0].PointHoverRadius)
}

func TestFormCommitColorsUnitTest(t *testing.T) {
	f, m := newTestForm(t, 1)

	_, err := f.Commit(m, change(DatasetControlID(DatasetFillColorPrefix, 0), "#FF0000"))
	require.NoError(t, err)
	assert.Equal(t, "rgba(255, 0, 0, 0.2)", m.Datasets[0].FillColor)
	assert.Equal(t, "#4dc9f6", m.Datasets[0].LineColor, "line color should not follow fill color")

	_, err = f.Commit(m, change(DatasetControlID(DatasetLineColorPrefix, 0), "#00FF00"))
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", m.Datasets[0].LineColor)
	assert.Equal(t, "rgba(255, 0, 0, 0.2)", m.Datasets[0].FillColor, "fill color should not follow line color")
}

func TestFormStaleControlUnitTest(t *testing.T) {
	f, m := newTestForm(t, 3)
	c := chart.NewCollection(m, nil)

	require.True(t, c.Remove(2))
	f.Render(m)
	f.Hydrate(m)

	before := m.Clone()
	_, err := f.Commit(m, change(DatasetControlID(DatasetLabelPrefix, 2), "stale"))

	if errors.Cause(err) != ErrUnknownControl {
		t.Errorf("should have ErrUnknownControl; got %v\n", err)
	}

	assert.Equal(t, before, m)

	_, err = f.Commit(m, change("no-such-control", "x"))
	assert.Equal(t, ErrUnknownControl, errors.Cause(err))
}

func TestFormStaleBindingWithoutRenderUnitTest(t *testing.T) {
	f, m := newTestForm(t, 2)
	m.Datasets = m.Datasets[:1]

	before := m.Clone()
	_, err := f.Commit(m, change(DatasetControlID(DatasetTensionPrefix, 1), "0.2"))

	assert.Equal(t, ErrUnknownControl, errors.Cause(err))
	assert.Equal(t, before, m)
}

func TestFormUnknownEventUnitTest(t *testing.T) {
	f, m := newTestForm(t, 1)

	_, err := f.Commit(m, Event{ID: TitleID, Type: "blur", Value: "x"})
	assert.Equal(t, ErrUnknownEvent, errors.Cause(err))
	assert.Equal(t, "Your Chart Title", m.Options.Title.Text)
}

func TestFormChartTypeUnitTest(t *testing.T) {
	f, m := newTestForm(t, 2)

	out, err := f.Commit(m, change(ChartTypeID, string(chart.SteppedChartType)))
	require.NoError(t, err)
	assert.True(t, out.Rehydrate)
	assert.Equal(t, chart.SteppedChartType, f.ChartType())
	assert.Equal(t, "0", controlValue(t, f, DatasetControlID(DatasetTensionPrefix, 1)))

	out, err = f.Commit(m, change(ChartTypeID, string(chart.MultiAxisChartType)))
	require.NoError(t, err)
	assert.True(t, out.Committed)

	c, _ := f.Control(SecondaryAxisTitleID)
	assert.False(t, c.Hidden)
	assert.Equal(t, chart.SecondaryAxisTitle, c.Value)

	_, err = f.Commit(m, change(SecondaryAxisTitleID, "Revenue"))
	require.NoError(t, err)
	assert.Equal(t, "Revenue", m.Options.Axes.SecondaryY.Title)

	out, err = f.Commit(m, change(ChartTypeID, "radar"))
	require.NoError(t, err)
	assert.True(t, out.Rejected)
	assert.Equal(t, chart.MultiAxisChartType, f.ChartType())
}

func TestFormSecondaryAxisWithoutAxisUnitTest(t *testing.T) {
	f, m := newTestForm(t, 1)

	out, err := f.Commit(m, change(SecondaryAxisTitleID, "Revenue"))
	require.NoError(t, err)
	assert.True(t, out.Rejected)
	assert.Nil(t, m.Options.Axes.SecondaryY)
}

func TestFormBorderWidthUnitTest(t *testing.T) {
	f, m := newTestForm(t, 3)

	out, err := f.Commit(m, Event{ID: BorderWidthID, Type: InputEvent, Value: "5"})
	require.NoError(t, err)
	assert.True(t, out.Committed)
	assert.True(t, out.Rehydrate)
	assert.Equal(t, "5px", out.ReadOut)

	for i, d := range m.Datasets {
		assert.Equal(t, 5, d.LineWidth)
		assert.Equal(t, "5", controlValue(t, f, DatasetControlID(DatasetLineWidthPrefix, i)))
	}

	out, err = f.Commit(m, change(BorderWidthID, "0"))
	require.NoError(t, err)
	assert.True(t, out.Rejected)
	assert.Equal(t, "5", controlValue(t, f, BorderWidthID))
	assert.Equal(t, 5, m.Datasets[0].LineWidth)
}

func TestFormOptionsUnitTest(t *testing.T) {
	f, m := newTestForm(t, 1)

	_, err := f.Commit(m, Event{ID: ShowLegendID, Type: ChangeEvent, Checked: false})
	require.NoError(t, err)
	assert.False(t, m.Options.Legend.Display)

	c, _ := f.Control(LegendPositionID)
	assert.True(t, c.Hidden, "legend position should be hidden with legend")

	_, err = f.Commit(m, Event{ID: AnimationID, Type: ChangeEvent, Checked: false})
	require.NoError(t, err)
	assert.Equal(t, 0, m.Options.Animation.DurationMs)

	_, err = f.Commit(m, Event{ID: AnimationID, Type: ChangeEvent, Checked: true})
	require.NoError(t, err)
	assert.Equal(t, chart.AnimationDuration, m.Options.Animation.DurationMs)

	_, err = f.Commit(m, change(GridLinesID, gridY))
	require.NoError(t, err)
	assert.Equal(t, chart.GridOptions{Y: true}, m.Options.Grid)

	out, err := f.Commit(m, change(GridLinesID, "diagonal"))
	require.NoError(t, err)
	assert.True(t, out.Rejected)

	_, err = f.Commit(m, change(LabelsID, " A, B ,C "))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, m.Labels)

	out, err = f.Commit(m, change(TitleFontSizeID, "0"))
	require.NoError(t, err)
	assert.True(t, out.Rejected)
	assert.Equal(t, 16, m.Options.Font.TitleSize)
}

func TestFormPaletteUnitTest(t *testing.T) {
	f, m := newTestForm(t, 3)

	index, err := f.ApplyPaletteColor(m, "#AABBCC")
	require.NoError(t, err)
	assert.Equal(t, 0, index, "should fall back to first dataset")
	assert.Equal(t, "#aabbcc", m.Datasets[0].LineColor)
	assert.Equal(t, "rgba(170, 187, 204, 0.2)", m.Datasets[0].FillColor)
	assert.Equal(t, "#aabbcc", controlValue(t, f, DatasetControlID(DatasetLineColorPrefix, 0)))

	f.SelectDataset(2)
	index, err = f.ApplyPaletteColor(m, "#112233")
	require.NoError(t, err)
	assert.Equal(t, 2, index)

	f.DatasetRemoved(0)
	assert.Equal(t, 1, f.SelectedDataset(m))

	f.DatasetRemoved(1)
	assert.Equal(t, 0, f.SelectedDataset(m))

	f.SelectDataset(10)
	assert.Equal(t, 0, f.SelectedDataset(m), "stale selection should fall back to first dataset")

	_, err = f.ApplyPaletteColor(m, "not a color")
	assert.Equal(t, ErrInvalidValue, errors.Cause(err))
}

func TestFormWidgetsRoundTripUnitTest(t *testing.T) {
	f, m := newTestForm(t, 2)

	_, err := f.Commit(m, change(ChartTypeID, string(chart.FilledChartType)))
	require.NoError(t, err)
	_, err = f.Commit(m, change(BorderWidthID, "6"))
	require.NoError(t, err)
	f.SelectDataset(1)

	widgets, err := f.Widgets()
	require.NoError(t, err)

	require.Contains(t, widgets, string(DataTab))
	require.Contains(t, widgets, string(LayoutTab))

	b, err := json.Marshal(widgets)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))

	restored := New(nil)
	restored.Render(m)
	restored.Hydrate(m)
	require.NoError(t, restored.RestoreWidgets(m, decoded))

	assert.Equal(t, chart.FilledChartType, restored.ChartType())
	assert.Equal(t, 1, restored.SelectedDataset(m))
	assert.Equal(t, "6", controlValue(t, restored, BorderWidthID))
	assert.Equal(t, string(chart.FilledChartType), controlValue(t, restored, ChartTypeID))
}

func TestFormRestoreWidgetsDefaultsUnitTest(t *testing.T) {
	f, m := newTestForm(t, 1)

	err := f.RestoreWidgets(m, map[string]interface{}{
		"data":   map[string]interface{}{"chart-type": "radar"},
		"layout": map[string]interface{}{"border-width": "0"},
	})
	require.NoError(t, err)

	assert.Equal(t, chart.ChartType(""), f.ChartType())
	assert.Equal(t, "2", controlValue(t, f, BorderWidthID))
}
