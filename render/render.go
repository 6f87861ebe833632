package render

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//////////////////////////////////////////////////////////////////
//---------------------- CUSTOM ERRORS ------------------------
//////////////////////////////////////////////////////////////////

var (
	// ErrLibraryUnavailable is returned by every chart operation once
	// the charting library failed to load
	ErrLibraryUnavailable = errors.New("render: charting library unavailable")

	// ErrDisposed is returned when updating a chart that was disposed
	ErrDisposed = errors.New("render: chart disposed")
)

//////////////////////////////////////////////////////////////////
//------------------------ INTERFACES --------------------------
//////////////////////////////////////////////////////////////////

// Surface is a named target a chart draws into
type Surface interface {
	io.Writer
	ID() string

	// Reset clears everything drawn on the surface
	Reset()
}

// Library is the external charting library
type Library interface {
	// New draws a chart of m on target.  The chart keeps reading m
	// on every Update
	New(target Surface, m *chart.Model) (Chart, error)
}

// Chart is one live chart created by a Library
type Chart interface {
	Update() error
	Dispose()
}

//////////////////////////////////////////////////////////////////
//------------------------- SURFACES ---------------------------
//////////////////////////////////////////////////////////////////

// BufferSurface is a Surface keeping what was drawn in memory
type BufferSurface struct {
	id  string
	mu  sync.RWMutex
	buf bytes.Buffer
}

// NewBufferSurface returns an empty surface with passed id
func NewBufferSurface(id string) *BufferSurface {
	return &BufferSurface{id: id}
}

func (s *BufferSurface) ID() string {
	return s.id
}

func (s *BufferSurface) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *BufferSurface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Reset()
}

// String returns what is currently drawn on the surface
func (s *BufferSurface) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buf.String()
}

//////////////////////////////////////////////////////////////////
//-------------------------- BRIDGE ----------------------------
//////////////////////////////////////////////////////////////////

// Bridge owns the single live chart of one editor
type Bridge struct {
	loader *Loader
	chart  Chart
	target Surface
	log    *logrus.Entry
}

// NewBridge returns a bridge drawing with the library of passed loader
func NewBridge(loader *Loader, log *logrus.Entry) *Bridge {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Bridge{loader: loader, log: log}
}

// Render draws m on target, disposing the previous chart first
//
// A nil target is a no-op.  Once the library failed to load, Render
// returns ErrLibraryUnavailable
func (b *Bridge) Render(ctx context.Context, target Surface, m *chart.Model) error {
	if target == nil {
		return nil
	}

	lib, err := b.loader.Load(ctx)

	if err != nil {
		return err
	}

	b.Dispose()

	c, err := lib.New(target, m)

	if err != nil {
		return errors.Wrapf(err, "render: drawing on %s", target.ID())
	}

	b.chart = c
	b.target = target
	b.log.WithField("target", target.ID()).Debug("rendered chart")

	return nil
}

// Update redraws the live chart; it is a no-op without one
func (b *Bridge) Update() error {
	if b.chart == nil {
		return nil
	}

	return b.chart.Update()
}

// Dispose releases the live chart, if any
func (b *Bridge) Dispose() {
	if b.chart == nil {
		return
	}

	b.chart.Dispose()
	b.log.WithField("target", b.target.ID()).Debug("disposed chart")
	b.chart = nil
	b.target = nil
}

// Live reports whether a chart is currently drawn
func (b *Bridge) Live() bool {
	return b.chart != nil
}

// Target returns the surface of the live chart or nil
func (b *Bridge) Target() Surface {
	return b.target
}
