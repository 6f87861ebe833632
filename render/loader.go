package render

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const loaderKey = "library"

// LoadFunc loads a charting library
type LoadFunc func(ctx context.Context) (Library, error)

// Loader loads a charting library once and shares it with every caller
//
// Concurrent callers wait on the same load.  The outcome is cached,
// including a failure, so a library is never requested twice.  The
// load does not stop when the context of the first caller is done
type Loader struct {
	load  LoadFunc
	group singleflight.Group

	mu   sync.RWMutex
	done bool
	lib  Library
	err  error
}

// NewLoader returns a loader calling load on first use
func NewLoader(load LoadFunc) *Loader {
	return &Loader{load: load}
}

var (
	defaultLoader     *Loader
	defaultLoaderOnce sync.Once
)

// DefaultLoader returns the process wide loader of the echarts library
func DefaultLoader() *Loader {
	defaultLoaderOnce.Do(func() {
		defaultLoader = NewLoader(LoadECharts)
	})

	return defaultLoader
}

// Load returns the library, loading it if no caller did yet
//
// If loading fails, the returned error wraps ErrLibraryUnavailable
func (l *Loader) Load(ctx context.Context) (Library, error) {
	if lib, ok, err := l.cached(); ok {
		return lib, err
	}

	v, err, _ := l.group.Do(loaderKey, func() (interface{}, error) {
		if lib, ok, err := l.cached(); ok {
			return lib, err
		}

		// The load outlives the context of the caller starting it
		lib, err := l.load(context.WithoutCancel(ctx))

		if err != nil {
			lib, err = nil, errors.Wrap(ErrLibraryUnavailable, err.Error())
		} else if lib == nil {
			err = ErrLibraryUnavailable
		}

		l.mu.Lock()
		l.done, l.lib, l.err = true, lib, err
		l.mu.Unlock()

		return lib, err
	})

	if err != nil {
		return nil, err
	}

	return v.(Library), nil
}

// Failed reports whether the library failed to load
func (l *Loader) Failed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.done && l.err != nil
}

func (l *Loader) cached() (Library, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lib, l.done, l.err
}
