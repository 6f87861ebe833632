// Package editor hosts chart editors: one model, its form, its live
// chart and its persisted settings per mounted instance
package editor

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/TravisS25/chartbuilder/form"
	"github.com/TravisS25/chartbuilder/render"
	"github.com/TravisS25/chartbuilder/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//////////////////////////////////////////////////////////////////
//---------------------- CUSTOM ERRORS ------------------------
//////////////////////////////////////////////////////////////////

var (
	// ErrUnknownDataset is returned when selecting a dataset that does
	// not exist
	ErrUnknownDataset = errors.New("editor: unknown dataset")

	// ErrUnknownAttribute is returned when setting a host attribute
	// the editor does not observe
	ErrUnknownAttribute = errors.New("editor: unknown attribute")

	// ErrNotMounted is returned by operations that need a mounted editor
	ErrNotMounted = errors.New("editor: editor not mounted")
)

// Host attributes
const (
	ChartTypeAttribute  = "chart-type"
	ChartTitleAttribute = "chart-title"
	InstanceIDAttribute = "instance-id"
)

const (
	// ExportName is the base name of exported files
	ExportName = "chart-settings"
)

//////////////////////////////////////////////////////////////////
//-------------------------- STRUCTS ---------------------------
//////////////////////////////////////////////////////////////////

// Config is config struct for editors
type Config struct {
	// Loader loads the charting library
	//
	// Default: render.DefaultLoader()
	Loader *render.Loader

	// Adapter persists editor snapshots
	//
	// Default: adapter over a new store.MemoryStore
	Adapter *store.Adapter

	// NewRand returns the source of random values of new datasets
	//
	// Default: source seeded with the current time
	NewRand func() *rand.Rand

	Log *logrus.Entry
}

func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if c.Loader == nil {
		c.Loader = render.DefaultLoader()
	}
	if c.Adapter == nil {
		c.Adapter = store.NewAdapter(store.NewMemoryStore(), "", c.Log)
	}
	if c.NewRand == nil {
		c.NewRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}

	return c
}

// Swatch is one palette color and whether a dataset already uses it
type Swatch struct {
	Color string `json:"color"`
	InUse bool   `json:"inUse"`
}

// PaletteState is a palette with the in use flag of every color
type PaletteState struct {
	Name     string   `json:"name"`
	Swatches []Swatch `json:"swatches"`
}

// State is a copy of everything the host needs to draw an editor
type State struct {
	ID        string            `json:"id"`
	View      form.ViewState    `json:"view"`
	Controls  []form.Control    `json:"controls"`
	Datasets  int               `json:"datasets"`
	Selected  int               `json:"selected"`
	ChartType chart.ChartType   `json:"chartType"`
	Palettes  []PaletteState    `json:"palettes"`
	Surfaces  map[string]string `json:"surfaces"`
	Config    chart.ChartConfig `json:"config"`
	Failed    bool              `json:"failed"`
}

// Editor is one mounted chart editor
//
// Every exported method runs under the editor's lock to completion.
// Tasks deferred while a method runs are executed after it, before
// the lock is released
type Editor struct {
	mu sync.Mutex

	mount    Mount
	id       string
	model    *chart.Model
	datasets *chart.Collection
	form     *form.Form
	view     form.ViewState
	bridge   *render.Bridge
	surfaces map[string]*render.BufferSurface
	adapter  *store.Adapter
	loader   *render.Loader

	deferred []func(ctx context.Context) error
	mounted  bool
	failed   bool

	log *logrus.Entry
}

// New returns an editor for passed mount with default settings
//
// The editor does nothing until Mount is called
func New(mount Mount, config Config) *Editor {
	config = config.withDefaults()

	id := mount.InstanceID()
	log := config.Log.WithField("instance", id)
	m := chart.DefaultModel()

	return &Editor{
		mount:    mount,
		id:       id,
		model:    m,
		datasets: chart.NewCollection(m, config.NewRand()),
		form:     form.New(log),
		view:     form.DefaultViewState(),
		bridge:   render.NewBridge(config.Loader, log),
		surfaces: map[string]*render.BufferSurface{
			form.PreviewSurface: render.NewBufferSurface(form.PreviewSurface),
			form.DisplaySurface: render.NewBufferSurface(form.DisplaySurface),
		},
		adapter: config.Adapter,
		loader:  config.Loader,
		log:     log,
	}
}

//////////////////////////////////////////////////////////////////
//------------------------ EVENT LOOP --------------------------
//////////////////////////////////////////////////////////////////

// run executes fn under the lock, then every task fn deferred
func (e *Editor) run(ctx context.Context, fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failed {
		return render.ErrLibraryUnavailable
	}

	err := fn()
	e.drain(ctx, err)

	return err
}

// runMounted is run for operations that need a mounted editor
func (e *Editor) runMounted(ctx context.Context, fn func() error) error {
	return e.run(ctx, func() error {
		if !e.mounted {
			return ErrNotMounted
		}

		return fn()
	})
}

// later queues task to run once the current operation completed
func (e *Editor) later(task func(ctx context.Context) error) {
	e.deferred = append(e.deferred, task)
}

func (e *Editor) drain(ctx context.Context, err error) {
	tasks := e.deferred
	e.deferred = nil

	if err != nil {
		return
	}

	for _, task := range tasks {
		if taskErr := task(ctx); taskErr != nil {
			e.log.WithError(taskErr).Warn("deferred task failed")
		}
	}
}

//////////////////////////////////////////////////////////////////
//------------------------- LIFECYCLE --------------------------
//////////////////////////////////////////////////////////////////

// Mount loads the charting library, restores the persisted settings
// of the editor and draws its chart
//
// If the library can not be loaded the editor fails for good and
// every later operation returns render.ErrLibraryUnavailable
func (e *Editor) Mount(ctx context.Context) error {
	return e.run(ctx, func() error {
		if e.mounted {
			return nil
		}

		if _, err := e.loader.Load(ctx); err != nil {
			e.failed = true
			e.log.WithError(err).Error("could not load charting library")
			return err
		}

		e.restore(ctx)
		e.mounted = true
		e.log.Info("mounted editor")

		return e.renderView(ctx)
	})
}

// Unmount disposes the live chart of the editor
func (e *Editor) Unmount() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.bridge.Dispose()
	e.mounted = false
	e.log.Info("unmounted editor")
}

// restore applies the persisted snapshot of the editor, if any
//
// The model and view state are applied right away and the form is
// rendered from them.  Widget values are applied by a deferred task
// since the controls they target are only reliable once rendered
func (e *Editor) restore(ctx context.Context) {
	snap, ok := e.adapter.Load(ctx, e.id)

	if ok {
		*e.model = snap.Model
		e.view = snap.View
	}

	e.rebuild()

	if !ok || len(snap.Widgets) == 0 {
		return
	}

	widgets := snap.Widgets

	e.later(func(ctx context.Context) error {
		return e.form.RestoreWidgets(e.model, widgets)
	})
}

// rebuild renders and hydrates the form after a structural change
func (e *Editor) rebuild() {
	e.form.Render(e.model)
	e.form.Hydrate(e.model)
}

// renderView draws the chart on the surface of the current view
func (e *Editor) renderView(ctx context.Context) error {
	target := e.surfaces[e.view.Surface()]

	if err := e.bridge.Render(ctx, target, e.model); err != nil {
		if errors.Cause(err) == render.ErrLibraryUnavailable {
			e.failed = true
		}

		e.log.WithError(err).Error("could not render chart")
		return err
	}

	return nil
}

//////////////////////////////////////////////////////////////////
//-------------------------- EDITING ---------------------------
//////////////////////////////////////////////////////////////////

// Dispatch commits a control event to the model
func (e *Editor) Dispatch(ctx context.Context, ev form.Event) (form.Outcome, error) {
	var outcome form.Outcome

	err := e.runMounted(ctx, func() error {
		var err error
		outcome, err = e.form.Commit(e.model, ev)
		return err
	})

	return outcome, err
}

// AddDataset appends a dataset and returns its index
func (e *Editor) AddDataset(ctx context.Context) (int, error) {
	index := 0

	err := e.runMounted(ctx, func() error {
		e.datasets.Add()
		e.rebuild()
		index = e.datasets.Len() - 1

		e.log.WithField("dataset", index).Debug("added dataset")
		return nil
	})

	return index, err
}

// RemoveDataset removes the dataset at index
//
// It reports false when nothing was removed, either because the
// index does not exist or because it is the last dataset
func (e *Editor) RemoveDataset(ctx context.Context, index int) (bool, error) {
	removed := false

	err := e.runMounted(ctx, func() error {
		if removed = e.datasets.Remove(index); !removed {
			return nil
		}

		e.form.DatasetRemoved(index)
		e.rebuild()

		e.log.WithField("dataset", index).Debug("removed dataset")
		return nil
	})

	return removed, err
}

// SelectDataset marks the dataset palette colors are applied to
func (e *Editor) SelectDataset(ctx context.Context, index int) error {
	return e.runMounted(ctx, func() error {
		if e.model.Dataset(index) == nil {
			return errors.Wrapf(ErrUnknownDataset, "%d", index)
		}

		e.form.SelectDataset(index)
		return nil
	})
}

// ApplyPaletteColor colors the selected dataset and returns its index
func (e *Editor) ApplyPaletteColor(ctx context.Context, color string) (int, error) {
	index := 0

	err := e.runMounted(ctx, func() error {
		var err error
		index, err = e.form.ApplyPaletteColor(e.model, color)
		return err
	})

	return index, err
}

// ApplyChartType transforms every dataset to passed chart type
func (e *Editor) ApplyChartType(ctx context.Context, t chart.ChartType) error {
	return e.run(ctx, func() error {
		return e.applyChartType(t)
	})
}

func (e *Editor) applyChartType(t chart.ChartType) error {
	if err := chart.ApplyChartType(e.model, t); err != nil {
		return err
	}

	e.form.SetChartType(t)
	e.form.Hydrate(e.model)

	return nil
}

//////////////////////////////////////////////////////////////////
//--------------------------- VIEW -----------------------------
//////////////////////////////////////////////////////////////////

// SetTab switches the active tab
func (e *Editor) SetTab(ctx context.Context, t form.Tab) error {
	return e.runMounted(ctx, func() error {
		return e.view.SetTab(t)
	})
}

// ShowEditor shows the editor and draws the chart in its preview
func (e *Editor) ShowEditor(ctx context.Context) error {
	return e.runMounted(ctx, func() error {
		e.view.EditorVisible = true
		return e.renderView(ctx)
	})
}

// HideEditor hides the editor and draws the chart on its own
func (e *Editor) HideEditor(ctx context.Context) error {
	return e.runMounted(ctx, func() error {
		e.view.EditorVisible = false
		return e.renderView(ctx)
	})
}

// UpdateChart redraws the chart and switches to the preview tab
func (e *Editor) UpdateChart(ctx context.Context) error {
	return e.runMounted(ctx, func() error {
		if err := e.renderView(ctx); err != nil {
			return err
		}

		e.view.ActiveTab = form.PreviewTab
		return nil
	})
}

//////////////////////////////////////////////////////////////////
//---------------------- SAVE / TRANSFER -----------------------
//////////////////////////////////////////////////////////////////

// Save persists the model, view state and widget values
func (e *Editor) Save(ctx context.Context) error {
	return e.runMounted(ctx, func() error {
		widgets, err := e.form.Widgets()

		if err != nil {
			return err
		}

		return e.adapter.Save(ctx, e.id, &store.Snapshot{
			View:    e.view,
			Model:   *e.model.Clone(),
			Widgets: widgets,
		})
	})
}

// Export returns the json document of the model and the name of the
// file it should be delivered as
func (e *Editor) Export(ctx context.Context) ([]byte, string, error) {
	var (
		b        []byte
		filename string
	)

	err := e.run(ctx, func() error {
		var err error

		if b, err = chart.Encode(chart.Export(e.model, e.form.ChartType())); err != nil {
			return err
		}

		filename = e.filename()
		return nil
	})

	return b, filename, err
}

// filename is the export file name; only explicit ids appear in it
func (e *Editor) filename() string {
	if e.mount.Derived() {
		return ExportName + ".json"
	}

	return fmt.Sprintf("%s-%s.json", ExportName, e.id)
}

// Import merges passed json document into the model, renders the
// form again and redraws the chart
//
// A document that can not be imported leaves the editor untouched
func (e *Editor) Import(ctx context.Context, data []byte) (*chart.Document, error) {
	var doc *chart.Document

	err := e.runMounted(ctx, func() error {
		var err error

		if doc, err = chart.Import(data, e.model); err != nil {
			e.log.WithError(err).Warn("could not import document")
			return err
		}

		if doc.ChartType.Valid() {
			e.form.SetChartType(doc.ChartType)
		}

		e.rebuild()
		e.log.Info("imported document")

		return e.renderView(ctx)
	})

	return doc, err
}

//////////////////////////////////////////////////////////////////
//------------------------ ATTRIBUTES --------------------------
//////////////////////////////////////////////////////////////////

// SetAttribute applies a host attribute
//
// chart-type applies the chart type, chart-title sets the title and
// updates a live chart, instance-id re-keys the editor and reloads
// its persisted settings
func (e *Editor) SetAttribute(ctx context.Context, name, value string) error {
	return e.run(ctx, func() error {
		switch name {
		case ChartTypeAttribute:
			return e.applyChartType(chart.ChartType(value))
		case ChartTitleAttribute:
			e.model.Options.Title.Text = value
			e.form.Hydrate(e.model)
			return e.bridge.Update()
		case InstanceIDAttribute:
			return e.rekey(ctx, value)
		default:
			return errors.Wrapf(ErrUnknownAttribute, "%q", name)
		}
	})
}

func (e *Editor) rekey(ctx context.Context, id string) error {
	mount := e.mount
	mount.ID = id

	if mount.InstanceID() == e.id {
		return nil
	}

	e.mount = mount
	e.id = mount.InstanceID()
	e.log = e.log.WithField("instance", e.id)
	e.log.Info("re-keyed editor")

	if !e.mounted {
		return nil
	}

	e.reset()
	e.restore(ctx)
	return e.renderView(ctx)
}

// reset puts the model, view state and widget values back to the
// state of a never saved editor
func (e *Editor) reset() {
	*e.model = *chart.DefaultModel()
	e.view = form.DefaultViewState()
	e.form = form.New(e.log)
}

//////////////////////////////////////////////////////////////////
//------------------------- ACCESSORS --------------------------
//////////////////////////////////////////////////////////////////

// ID returns the current instance id
func (e *Editor) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

// Failed reports whether the charting library failed to load
func (e *Editor) Failed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failed
}

// Model returns a copy of the model
func (e *Editor) Model() *chart.Model {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model.Clone()
}

// View returns the view state
func (e *Editor) View() form.ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// Config returns the Chart.js configuration of the model
func (e *Editor) Config() chart.ChartConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model.Config()
}

// Surface returns what is drawn on the surface with passed id
func (e *Editor) Surface(id string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.surfaces[id]

	if !ok {
		return "", false
	}

	return s.String(), true
}

// State returns a copy of everything the host draws
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	palettes := make([]PaletteState, 0, len(chart.Palettes))

	for _, p := range chart.Palettes {
		ps := PaletteState{Name: p.Name, Swatches: make([]Swatch, 0, len(p.Colors))}

		for _, c := range p.Colors {
			ps.Swatches = append(ps.Swatches, Swatch{Color: c, InUse: e.model.ColorInUse(c)})
		}

		palettes = append(palettes, ps)
	}

	surfaces := make(map[string]string, len(e.surfaces))

	for id, s := range e.surfaces {
		surfaces[id] = s.String()
	}

	return State{
		ID:        e.id,
		View:      e.view,
		Controls:  e.form.Controls(),
		Datasets:  len(e.model.Datasets),
		Selected:  e.form.SelectedDataset(e.model),
		ChartType: e.form.ChartType(),
		Palettes:  palettes,
		Surfaces:  surfaces,
		Config:    e.model.Config(),
		Failed:    e.failed,
	}
}
