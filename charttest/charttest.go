// Package charttest contains mocks and helpers shared by the tests of
// the chartbuilder packages
package charttest

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/TravisS25/chartbuilder/render"
	"github.com/TravisS25/chartbuilder/store"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
)

var (
	// ErrStore is returned by FailingStore
	ErrStore = errors.New("charttest: store failure")
)

//////////////////////////////////////////////////////////////////
//-------------------------- MOCKS -----------------------------
//////////////////////////////////////////////////////////////////

// MockLibrary is a testify mock of render.Library
type MockLibrary struct {
	testifymock.Mock
}

func (m *MockLibrary) New(target render.Surface, model *chart.Model) (render.Chart, error) {
	args := m.Called(target, model)

	c, _ := args.Get(0).(render.Chart)
	return c, args.Error(1)
}

// MockChart is a testify mock of render.Chart
type MockChart struct {
	testifymock.Mock
}

func (m *MockChart) Update() error {
	return m.Called().Error(0)
}

func (m *MockChart) Dispose() {
	m.Called()
}

// FakeLibrary is a render.Library recording every chart it creates
//
// Charts write the title of their model to the surface they draw on
type FakeLibrary struct {
	mu     sync.Mutex
	Charts []*FakeChart
}

func (l *FakeLibrary) New(target render.Surface, m *chart.Model) (render.Chart, error) {
	c := &FakeChart{target: target, model: m}

	if err := c.Update(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.Charts = append(l.Charts, c)
	l.mu.Unlock()

	return c, nil
}

// Live returns the number of charts that were not disposed
func (l *FakeLibrary) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	live := 0

	for _, c := range l.Charts {
		if !c.Disposed {
			live++
		}
	}

	return live
}

// Loader returns a loader serving l
func (l *FakeLibrary) Loader() *render.Loader {
	return render.NewLoader(func(ctx context.Context) (render.Library, error) {
		return l, nil
	})
}

// FakeChart is a chart created by FakeLibrary
type FakeChart struct {
	target   render.Surface
	model    *chart.Model
	Updates  int
	Disposed bool
}

func (c *FakeChart) Update() error {
	if c.Disposed {
		return render.ErrDisposed
	}

	c.Updates++
	c.target.Reset()
	_, err := io.WriteString(c.target, c.model.Options.Title.Text)
	return err
}

func (c *FakeChart) Dispose() {
	c.Disposed = true
	c.target.Reset()
}

// FailingLoader returns a loader whose library never loads
func FailingLoader() *render.Loader {
	return render.NewLoader(func(ctx context.Context) (render.Library, error) {
		return nil, errors.New("charttest: library failed to load")
	})
}

// FailingStore is a store.Store whose every call fails
type FailingStore struct{}

func (FailingStore) Get(ctx context.Context, key string) (string, error) {
	return "", ErrStore
}

func (FailingStore) Set(ctx context.Context, key, value string) error {
	return ErrStore
}

func (FailingStore) Del(ctx context.Context, keys ...string) error {
	return ErrStore
}

var _ store.Store = FailingStore{}

//////////////////////////////////////////////////////////////////
//------------------------- HELPERS ----------------------------
//////////////////////////////////////////////////////////////////

// NewLogger returns a logger recording every entry in the returned hook
func NewLogger() (*logrus.Entry, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(log), hook
}

// HasLevel reports whether hook recorded an entry with passed level
func HasLevel(hook *test.Hook, level logrus.Level) bool {
	for _, e := range hook.AllEntries() {
		if e.Level == level {
			return true
		}
	}

	return false
}

// AssertModelEqual asserts that both models are equal and dumps both
// on failure
func AssertModelEqual(t testing.TB, expected, actual *chart.Model) bool {
	t.Helper()

	if !assert.Equal(t, expected, actual) {
		t.Logf("expected: %s\n actual: %s\n", litter.Sdump(expected), litter.Sdump(actual))
		return false
	}

	return true
}
