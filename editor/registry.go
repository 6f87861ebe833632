package editor

import (
	"context"
	"sync"
)

// Registry keeps the mounted editors of a host by instance id
type Registry struct {
	mu      sync.RWMutex
	editors map[string]*Editor
	config  Config
}

// NewRegistry returns an empty registry creating editors with config
func NewRegistry(config Config) *Registry {
	return &Registry{
		editors: map[string]*Editor{},
		config:  config.withDefaults(),
	}
}

// Open returns the editor of passed mount, creating and mounting it
// if needed
//
// An editor whose library failed to load is still returned along
// with the mount error so the host can show it failed
func (r *Registry) Open(ctx context.Context, mount Mount) (*Editor, error) {
	id := mount.InstanceID()

	r.mu.Lock()
	e, ok := r.editors[id]

	if !ok {
		e = New(mount, r.config)
		r.editors[id] = e
	}
	r.mu.Unlock()

	return e, e.Mount(ctx)
}

// Get returns the editor with passed instance id
func (r *Registry) Get(id string) (*Editor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.editors[id]
	return e, ok
}

// Close unmounts and forgets the editor with passed instance id
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	e, ok := r.editors[id]
	delete(r.editors, id)
	r.mu.Unlock()

	if ok {
		e.Unmount()
	}

	return ok
}

// SetAttribute applies a host attribute to the editor with passed id
// and returns the id the editor is registered under afterwards
func (r *Registry) SetAttribute(ctx context.Context, id, name, value string) (string, error) {
	e, ok := r.Get(id)

	if !ok {
		return id, ErrNotMounted
	}

	if err := e.SetAttribute(ctx, name, value); err != nil {
		return id, err
	}

	newID := e.ID()

	if newID == id {
		return newID, nil
	}

	// An editor already registered under the new id is replaced and
	// its chart released
	r.mu.Lock()
	displaced, taken := r.editors[newID]
	delete(r.editors, id)
	r.editors[newID] = e
	r.mu.Unlock()

	if taken && displaced != e {
		displaced.Unmount()
	}

	return newID, nil
}

// Len returns the number of registered editors
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.editors)
}
