package editor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DerivedPrefix starts every derived instance id
const DerivedPrefix = "chart"

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Mount describes where an editor was placed by its host page
type Mount struct {
	// ID is the explicit instance id given by the host, if any
	ID string

	// Parent identifies the element the editor was placed in
	Parent string

	// Position is the index of the editor among its siblings
	Position int

	// Created is the creation token of the mount.  It is a v7 uuid
	// so it carries the time the editor was created
	Created uuid.UUID
}

// NewMount returns a mount without an explicit id, created now
func NewMount(parent string, position int) Mount {
	return Mount{Parent: parent, Position: position, Created: NewCreationToken()}
}

// NewCreationToken is wrapper for uuid.NewV7()
func NewCreationToken() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// InstanceID returns the id persisted settings of the mount are keyed by
//
// The explicit id wins.  A derived id only stays the same while the
// mount keeps its parent, position and creation token; moving an
// editor to another position gives it a new id
func (m Mount) InstanceID() string {
	if id := strings.TrimSpace(m.ID); id != "" {
		return id
	}

	parent := unsafeIDChars.ReplaceAllString(strings.TrimSpace(m.Parent), "_")

	if parent == "" {
		parent = "root"
	}

	return fmt.Sprintf("%s-%s-%d-%s", DerivedPrefix, parent, m.Position, m.Created)
}

// Derived reports whether the instance id of m is derived
func (m Mount) Derived() bool {
	return strings.TrimSpace(m.ID) == ""
}
