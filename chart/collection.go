package chart

import (
	"fmt"
	"math/rand"
)

// SampleMax is the exclusive upper bound of values generated for
// new datasets
const SampleMax = 100

// Collection manages the datasets of a model
//
// A model managed by a collection always has at least one dataset
type Collection struct {
	model *Model
	rand  *rand.Rand
}

// NewCollection returns a collection over passed model
//
// If r is nil, a source seeded with the default seed is used
func NewCollection(m *Model, r *rand.Rand) *Collection {
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}

	return &Collection{model: m, rand: r}
}

// Len returns the number of datasets
func (c *Collection) Len() int {
	return len(c.model.Datasets)
}

// Add appends a new dataset and returns a pointer to it
//
// The new dataset gets as many random values as the current last
// dataset has entries and is colored from the default palette based
// on the current dataset count.  Existing datasets are not touched
func (c *Collection) Add() *Dataset {
	count := len(c.model.Datasets)
	size := 0

	if count > 0 {
		size = len(c.model.Datasets[count-1].Data)
	}

	data := make([]Value, size)

	for i := range data {
		data[i] = Value(c.rand.Intn(SampleMax))
	}

	color := DefaultPalette.Colors[count%len(DefaultPalette.Colors)]
	c.model.Datasets = append(c.model.Datasets, NewDataset(fmt.Sprintf("Dataset %d", count+1), color, data))

	return &c.model.Datasets[count]
}

// Remove removes the dataset at passed index and shifts later
// datasets down
//
// Remove is a no-op returning false when index is out of range or
// when only one dataset is left
func (c *Collection) Remove(index int) bool {
	count := len(c.model.Datasets)

	if count <= 1 || index < 0 || index >= count {
		return false
	}

	datasets := make([]Dataset, 0, count-1)
	datasets = append(datasets, c.model.Datasets[:index]...)
	datasets = append(datasets, c.model.Datasets[index+1:]...)
	c.model.Datasets = datasets

	return true
}
