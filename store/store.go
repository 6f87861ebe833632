package store

import (
	"context"

	"github.com/pkg/errors"
)

//////////////////////////////////////////////////////////////////
//---------------------- CUSTOM ERRORS ------------------------
//////////////////////////////////////////////////////////////////

var (
	// ErrNotFound is returned by stores when a key does not exist
	ErrNotFound = errors.New("store: key not found")
)

//////////////////////////////////////////////////////////////////
//------------------------ INTERFACES --------------------------
//////////////////////////////////////////////////////////////////

// Store is a durable key to string map
//
// Every call may fail; callers are expected to degrade to "no data"
// instead of surfacing failures
type Store interface {
	// Get returns the value of key or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key, value string) error

	// Del removes every passed key; missing keys are ignored
	Del(ctx context.Context, keys ...string) error
}
