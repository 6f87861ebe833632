package chart

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

//////////////////////////////////////////////////////////////////
//---------------------- CUSTOM ERRORS ------------------------
//////////////////////////////////////////////////////////////////

var (
	// ErrNoDocument is returned when importing an empty document
	ErrNoDocument = errors.New("chart: no document")

	// ErrInvalidDocument is returned when importing a document that can
	// not be decoded or holds values that do not validate
	ErrInvalidDocument = errors.New("chart: invalid document")
)

const (
	documentLabelsKey   = "labels"
	documentDatasetsKey = "datasets"
	documentOptionsKey  = "options"
)

// Document is the portable representation of a chart exchanged
// between editors
//
// It carries no view state and no instance id
type Document struct {
	ChartType  ChartType `json:"chartType"`
	ChartTitle string    `json:"chartTitle"`
	Labels     []string  `json:"labels"`
	Datasets   []Dataset `json:"datasets"`
	Options    Options   `json:"options"`
}

// Export returns the document for passed model
//
// chartType is the last chart type applied by the editor, if any
func Export(m *Model, chartType ChartType) Document {
	c := m.Clone()

	return Document{
		ChartType:  chartType,
		ChartTitle: c.Options.Title.Text,
		Labels:     c.Labels,
		Datasets:   c.Datasets,
		Options:    c.Options,
	}
}

// Encode returns passed document as indented json
func Encode(doc Document) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")

	if err != nil {
		return nil, errors.WithStack(err)
	}

	return b, nil
}

// Import merges the document held by data into target
//
// Each of "labels", "datasets" and "options" is only written when
// present in the document, so partial documents only overwrite what
// they contain.  Datasets missing fields get the defaults of a new
// dataset and options missing fields keep the values of target.
//
// If an error is returned, target is left untouched.  On success the
// decoded document is returned so callers can inspect its chart type
// and title, which are never merged into target
func Import(data []byte, target *Model) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, ErrNoDocument
	}

	var raw map[string]json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrInvalidDocument, err.Error())
	}

	result := target.Clone()
	doc := &Document{}

	if v, ok := raw["chartType"]; ok {
		// An unreadable chart type is display only and does not fail the import
		json.Unmarshal(v, &doc.ChartType)
	}
	if v, ok := raw["chartTitle"]; ok {
		json.Unmarshal(v, &doc.ChartTitle)
	}

	if v, ok := raw[documentLabelsKey]; ok {
		var labels []string

		if err := json.Unmarshal(v, &labels); err != nil {
			return nil, errors.Wrap(ErrInvalidDocument, err.Error())
		}

		result.Labels = labels
	}

	if v, ok := raw[documentDatasetsKey]; ok {
		datasets, err := decodeDatasets(v)

		if err != nil {
			return nil, err
		}

		result.Datasets = datasets
	}

	if v, ok := raw[documentOptionsKey]; ok {
		if err := json.Unmarshal(v, &result.Options); err != nil {
			return nil, errors.Wrap(ErrInvalidDocument, err.Error())
		}
	}

	if err := result.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidDocument, err.Error())
	}

	*target = *result

	doc.Labels = result.Labels
	doc.Datasets = result.Datasets
	doc.Options = result.Options

	return doc, nil
}

func decodeDatasets(data json.RawMessage) ([]Dataset, error) {
	var items []json.RawMessage

	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(ErrInvalidDocument, err.Error())
	}

	if len(items) == 0 {
		return nil, errors.Wrap(ErrInvalidDocument, "datasets can not be empty")
	}

	datasets := make([]Dataset, 0, len(items))

	for i, item := range items {
		d := NewDataset("", DefaultPalette.Colors[i%len(DefaultPalette.Colors)], nil)

		if err := json.Unmarshal(item, &d); err != nil {
			return nil, errors.Wrapf(ErrInvalidDocument, "dataset %d: %s", i, err.Error())
		}

		if d.Data == nil {
			d.Data = []Value{}
		}

		datasets = append(datasets, d)
	}

	return datasets, nil
}
