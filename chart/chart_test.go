package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelConfigUnitTest(t *testing.T) {
	m := twoDatasetModel()
	m.Datasets[0].DashPattern = DashedDash
	m.Datasets[1].FillMode = OriginFill
	m.Options.RoundedCorners = false

	cfg := m.Config()

	assert.Equal(t, LineChartType, cfg.Type)
	assert.Equal(t, m.Labels, cfg.Data.Labels)
	require.Len(t, cfg.Data.Datasets, 2)

	first := cfg.Data.Datasets[0]
	assert.Equal(t, []int{5, 5}, first.BorderDash)
	assert.Equal(t, false, first.Fill)
	assert.Equal(t, m.Datasets[0].LineColor, first.BorderColor)
	assert.Equal(t, m.Datasets[0].FillColor, first.BackgroundColor)
	assert.Equal(t, "origin", cfg.Data.Datasets[1].Fill)

	assert.Equal(t, "butt", cfg.Options.Elements.Line.BorderCapStyle)
	assert.NotContains(t, cfg.Options.Scales, SecondaryAxisID)
	assert.Equal(t, "Month", cfg.Options.Scales["x"].Title.Text)
	assert.Equal(t, AnimationDuration, cfg.Options.Animation.Duration)
}

func TestModelConfigSecondaryAxisUnitTest(t *testing.T) {
	m := twoDatasetModel()
	require.NoError(t, ApplyChartType(m, MultiAxisChartType))

	cfg := m.Config()

	require.Contains(t, cfg.Options.Scales, SecondaryAxisID)
	assert.Equal(t, SecondaryAxisTitle, cfg.Options.Scales[SecondaryAxisID].Title.Text)
	assert.Equal(t, SecondaryAxisID, cfg.Data.Datasets[1].YAxisID)

	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"yAxisID":"y1"`)
}

func TestModelConfigNaNUnitTest(t *testing.T) {
	m := DefaultModel()
	m.Datasets[0].Data = ParseValues("1, x, 3")

	b, err := json.Marshal(m.Config())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"data":[1,null,3]`)
}
