package form

import (
	"fmt"
	"strings"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/mitchellh/mapstructure"
	"github.com/nqd/flat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//////////////////////////////////////////////////////////////////
//---------------------- CUSTOM ERRORS ------------------------
//////////////////////////////////////////////////////////////////

var (
	// ErrUnknownControl is returned when an event names a control that
	// is not bound, which includes controls of removed datasets
	ErrUnknownControl = errors.New("form: unknown control")

	// ErrUnknownEvent is returned for event types other than input and change
	ErrUnknownEvent = errors.New("form: unknown event type")
)

//////////////////////////////////////////////////////////////////
//------------------------ CONTROL IDS ------------------------
//////////////////////////////////////////////////////////////////

const (
	LabelsID             = "chart-labels"
	ChartTypeID          = "chart-type"
	TitleID              = "chart-title"
	ShowTitleID          = "show-title"
	XAxisTitleID         = "x-axis-title"
	YAxisTitleID         = "y-axis-title"
	SecondaryAxisTitleID = "secondary-axis-title"
	ShowLegendID         = "show-legend"
	LegendPositionID     = "legend-position"
	AnimationID          = "enable-animation"
	TooltipsID           = "enable-tooltips"
	AspectRatioID        = "maintain-aspect-ratio"
	FontFamilyID         = "chart-font-family"
	TitleFontSizeID      = "title-font-size"
	AxisFontSizeID       = "axis-font-size"
	GridLinesID          = "grid-lines"
	BackgroundID         = "chart-background"
	RoundedCornersID     = "rounded-corners"
	BorderWidthID        = "border-width"

	// SelectedDatasetKey is the widget key of the selected dataset,
	// which has no control of its own
	SelectedDatasetKey = "selected-dataset"
)

// Dataset control id prefixes; the dataset index is appended
const (
	DatasetLabelPrefix       = "dataset-label-"
	DatasetDataPrefix        = "dataset-data-"
	DatasetLineColorPrefix   = "dataset-line-color-"
	DatasetFillColorPrefix   = "dataset-fill-color-"
	DatasetLineWidthPrefix   = "dataset-line-width-"
	DatasetTensionPrefix     = "dataset-tension-"
	DatasetPointStylePrefix  = "dataset-point-style-"
	DatasetPointRadiusPrefix = "dataset-point-radius-"
	DatasetLineStylePrefix   = "dataset-line-style-"
	DatasetFillPrefix        = "dataset-fill-"
)

const (
	// NoSelection marks that no dataset is selected
	NoSelection = -1

	// DefaultBorderWidth is the initial value of the border width slider
	DefaultBorderWidth = 2
)

// DatasetControlID returns the id of the control with passed prefix
// for the dataset at index
func DatasetControlID(prefix string, index int) string {
	return fmt.Sprintf("%s%d", prefix, index)
}

// Widgets holds the values of controls that are not stored in the model
type Widgets struct {
	// ChartType is the last chart type applied through the form
	ChartType chart.ChartType `mapstructure:"chart-type"`

	BorderWidth     int `mapstructure:"border-width"`
	SelectedDataset int `mapstructure:"selected-dataset"`
}

// Form is the materialized control tree of one editor along with the
// bindings of every control to the model
//
// The model is the only source of truth.  Hydrate writes the model
// into the controls and Commit writes the value carried by a single
// event into the model; control values are never read back
type Form struct {
	controls []*Control
	index    map[string]*Control
	bindings map[string]*binding
	widgets  Widgets
	log      *logrus.Entry
}

// New returns an empty form; Render must be called before use
func New(log *logrus.Entry) *Form {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Form{
		index:    map[string]*Control{},
		bindings: map[string]*binding{},
		widgets: Widgets{
			BorderWidth:     DefaultBorderWidth,
			SelectedDataset: NoSelection,
		},
		log: log,
	}
}

//////////////////////////////////////////////////////////////////
//------------------------- RENDERING -------------------------
//////////////////////////////////////////////////////////////////

// Render rebuilds every control and binding from the structure of m
//
// It must be called after every structural change of the model.
// Controls of datasets that no longer exist are dropped, so events
// still naming them fail with ErrUnknownControl
func (f *Form) Render(m *chart.Model) {
	f.controls = make([]*Control, 0, len(f.controls))
	f.index = map[string]*Control{}
	f.bindings = map[string]*binding{}

	for _, b := range f.dataBindings() {
		f.register(b)
	}

	for i := range m.Datasets {
		for _, b := range datasetBindings(i) {
			f.register(b)
		}
	}

	for _, b := range f.optionBindings() {
		f.register(b)
	}

	for _, b := range f.layoutBindings() {
		f.register(b)
	}
}

func (f *Form) register(b *binding) {
	c := b.control
	f.controls = append(f.controls, &c)
	f.index[c.ID] = &c
	f.bindings[c.ID] = b
}

// Hydrate writes the model value of every control and recomputes
// which controls are hidden
func (f *Form) Hydrate(m *chart.Model) {
	for _, c := range f.controls {
		f.hydrateControl(m, c)
	}

	f.applyVisibility(m)
}

func (f *Form) hydrateControl(m *chart.Model, c *Control) {
	b := f.bindings[c.ID]
	c.Value, c.Checked = b.read(m)

	if b.readOut != nil {
		c.ReadOut = b.readOut(m)
	}
}

func (f *Form) applyVisibility(m *chart.Model) {
	if c, ok := f.index[LegendPositionID]; ok {
		c.Hidden = !m.Options.Legend.Display
	}
	if c, ok := f.index[SecondaryAxisTitleID]; ok {
		c.Hidden = m.Options.Axes.SecondaryY == nil
	}
}

//////////////////////////////////////////////////////////////////
//-------------------------- COMMITS --------------------------
//////////////////////////////////////////////////////////////////

// Commit writes the value of ev into m
//
// Input events of controls that are not live are ignored.  Values
// that can not be parsed or leave the model invalid are rejected:
// the model is left as it was, the control is hydrated again and the
// outcome is marked rejected
func (f *Form) Commit(m *chart.Model, ev Event) (Outcome, error) {
	b, ok := f.bindings[ev.ID]

	if !ok {
		return Outcome{}, errors.Wrapf(ErrUnknownControl, "%q", ev.ID)
	}

	switch ev.Type {
	case InputEvent:
		if !b.control.Live {
			return Outcome{}, nil
		}
	case ChangeEvent:
	default:
		return Outcome{}, errors.Wrapf(ErrUnknownEvent, "%q", ev.Type)
	}

	log := f.log.WithFields(logrus.Fields{"control": ev.ID, "path": b.path})
	c := f.index[ev.ID]
	before := m.Clone()
	widgets := f.widgets

	err := b.write(m, ev)

	if err == nil {
		err = m.Validate()
	}

	if err != nil {
		*m = *before
		f.widgets = widgets

		if errors.Cause(err) == ErrUnknownControl {
			return Outcome{}, errors.Wrapf(ErrUnknownControl, "%q", ev.ID)
		}

		f.hydrateControl(m, c)
		log.WithError(err).Warn("rejected control value")

		return Outcome{Rejected: true, ReadOut: c.ReadOut}, nil
	}

	out := Outcome{Committed: true}

	if b.rehydrate {
		f.Hydrate(m)
		out.Rehydrate = true
	} else {
		f.hydrateControl(m, c)
		f.applyVisibility(m)
	}

	out.ReadOut = c.ReadOut
	log.Debug("committed control value")

	return out, nil
}

//////////////////////////////////////////////////////////////////
//-------------------------- WIDGETS --------------------------
//////////////////////////////////////////////////////////////////

// ChartType returns the last chart type applied through the form
func (f *Form) ChartType() chart.ChartType {
	return f.widgets.ChartType
}

// SetChartType records t as the last applied chart type without
// applying it
func (f *Form) SetChartType(t chart.ChartType) {
	f.widgets.ChartType = t

	if c, ok := f.index[ChartTypeID]; ok {
		c.Value = string(t)
	}
}

// SelectDataset marks the dataset at index as selected
func (f *Form) SelectDataset(index int) {
	f.widgets.SelectedDataset = index
}

// SelectedDataset returns the index of the selected dataset, falling
// back to the first dataset when none is selected or the selection
// no longer exists
func (f *Form) SelectedDataset(m *chart.Model) int {
	if i := f.widgets.SelectedDataset; i >= 0 && i < len(m.Datasets) {
		return i
	}

	return 0
}

// DatasetRemoved keeps the selection pointing at the same dataset
// after the dataset at index was removed
func (f *Form) DatasetRemoved(index int) {
	switch sel := f.widgets.SelectedDataset; {
	case sel == index:
		f.widgets.SelectedDataset = NoSelection
	case sel > index:
		f.widgets.SelectedDataset = sel - 1
	}
}

// ApplyPaletteColor colors the selected dataset with passed hex color
// and returns the index of the dataset it colored
func (f *Form) ApplyPaletteColor(m *chart.Model, color string) (int, error) {
	hex, err := parseHexColor(color)

	if err != nil {
		return 0, err
	}

	index := f.SelectedDataset(m)
	d := m.Dataset(index)

	if d == nil {
		return 0, errors.Wrapf(ErrUnknownControl, "dataset %d", index)
	}

	d.LineColor = hex
	d.FillColor = alphaFill(hex)
	f.Hydrate(m)

	return index, nil
}

// Widgets returns the value of every control plus the widget only
// values, nested per tab
//
// The result is a superset of the model; RestoreWidgets only reads
// the values the model does not hold
func (f *Form) Widgets() (map[string]interface{}, error) {
	values := map[string]interface{}{}

	for _, c := range f.controls {
		key := string(c.Tab) + "." + c.ID

		if c.Kind == CheckboxKind {
			values[key] = c.Checked
		} else {
			values[key] = c.Value
		}
	}

	values[string(DataTab)+"."+SelectedDatasetKey] = f.widgets.SelectedDataset

	nested, err := flat.Unflatten(values, nil)

	if err != nil {
		return nil, errors.WithStack(err)
	}

	return nested, nil
}

// RestoreWidgets applies widget values previously returned by Widgets
// and hydrates the form again
//
// It must run after Render since the controls it writes have to exist
func (f *Form) RestoreWidgets(m *chart.Model, nested map[string]interface{}) error {
	values, err := flat.Flatten(nested, nil)

	if err != nil {
		return errors.WithStack(err)
	}

	plain := make(map[string]interface{}, len(values))

	for key, v := range values {
		plain[key[strings.Index(key, ".")+1:]] = v
	}

	w := f.widgets
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &w,
	})

	if err != nil {
		return errors.WithStack(err)
	}

	if err = decoder.Decode(plain); err != nil {
		return errors.WithStack(err)
	}

	if w.ChartType != "" && !w.ChartType.Valid() {
		w.ChartType = ""
	}
	if w.BorderWidth < 1 {
		w.BorderWidth = DefaultBorderWidth
	}

	f.widgets = w
	f.Hydrate(m)

	return nil
}

//////////////////////////////////////////////////////////////////
//-------------------------- ACCESSORS ------------------------
//////////////////////////////////////////////////////////////////

// Controls returns a copy of every control in render order
func (f *Form) Controls() []Control {
	controls := make([]Control, 0, len(f.controls))

	for _, c := range f.controls {
		controls = append(controls, *c)
	}

	return controls
}

// Control returns a copy of the control with passed id
func (f *Form) Control(id string) (Control, bool) {
	c, ok := f.index[id]

	if !ok {
		return Control{}, false
	}

	return *c, true
}

// Panel returns the controls of passed tab in render order
func (f *Form) Panel(tab Tab) []Control {
	controls := make([]Control, 0)

	for _, c := range f.controls {
		if c.Tab == tab {
			controls = append(controls, *c)
		}
	}

	return controls
}
