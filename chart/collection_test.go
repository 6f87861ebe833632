package chart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionAddUnitTest(t *testing.T) {
	m := DefaultModel()
	before := m.Clone()
	c := NewCollection(m, rand.New(rand.NewSource(7)))

	d := c.Add()

	require.Equal(t, 2, c.Len())
	assert.Equal(t, before.Datasets[0], m.Datasets[0], "existing dataset should not change")
	assert.Equal(t, "Dataset 2", d.Label)
	assert.Equal(t, DefaultPalette.Colors[1], d.LineColor)
	assert.Equal(t, ToAlphaColor(DefaultPalette.Colors[1], FillAlpha), d.FillColor)
	assert.Equal(t, 2, d.LineWidth)
	assert.Equal(t, 3, d.PointRadius)
	assert.Equal(t, 5, d.PointHoverRadius)
	assert.Equal(t, 0.4, d.Tension)
	assert.Equal(t, NoFill, d.FillMode)
	assert.Equal(t, SolidDash, d.DashPattern)
	assert.Equal(t, CirclePointStyle, d.PointStyle)
	assert.Len(t, d.Data, len(m.Datasets[0].Data))

	for _, v := range d.Data {
		assert.True(t, v >= 0 && v < SampleMax, "sample %v should be in [0,%d)", v, SampleMax)
	}
}

func TestCollectionPaletteWrapsUnitTest(t *testing.T) {
	m := DefaultModel()
	c := NewCollection(m, nil)

	for i := 0; i < len(DefaultPalette.Colors); i++ {
		c.Add()
	}

	last := m.Datasets[len(m.Datasets)-1]
	assert.Equal(t, DefaultPalette.Colors[0], last.LineColor)
	assert.Equal(t, "Dataset 9", last.Label)
}

func TestCollectionAddEmptyDataUnitTest(t *testing.T) {
	m := DefaultModel()
	m.Datasets[0].Data = []Value{}
	c := NewCollection(m, nil)

	d := c.Add()

	assert.NotNil(t, d.Data)
	assert.Empty(t, d.Data)
}

func TestCollectionRemoveUnitTest(t *testing.T) {
	m := DefaultModel()
	c := NewCollection(m, nil)

	if c.Remove(0) {
		t.Errorf("should not remove last dataset\n")
	}
	if c.Len() != 1 {
		t.Fatalf("should still have one dataset\n")
	}

	c.Add()

	if c.Remove(5) || c.Remove(-1) {
		t.Errorf("should not remove out of range index\n")
	}
	if !c.Remove(1) {
		t.Errorf("should have removed dataset\n")
	}
	if c.Len() != 1 {
		t.Errorf("should have one dataset\n")
	}
}

func TestCollectionNeverEmptyUnitTest(t *testing.T) {
	m := DefaultModel()
	r := rand.New(rand.NewSource(3))
	c := NewCollection(m, r)

	for i := 0; i < 200; i++ {
		if r.Intn(2) == 0 {
			c.Add()
		} else {
			c.Remove(r.Intn(c.Len() + 1))
		}

		if c.Len() < 1 {
			t.Fatalf("collection should never be empty\n")
		}
	}
}

func TestCollectionScenarioUnitTest(t *testing.T) {
	m := DefaultModel()
	c := NewCollection(m, nil)

	c.Add()
	c.Add()

	require.Len(t, m.Datasets, 3)
	assert.Equal(t, DefaultPalette.Colors[1], m.Datasets[1].LineColor)
	assert.Equal(t, DefaultPalette.Colors[2], m.Datasets[2].LineColor)

	second := m.Datasets[1]

	require.True(t, c.Remove(0))
	require.Len(t, m.Datasets, 2)
	assert.Equal(t, second, m.Datasets[0])
}
