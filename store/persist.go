package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/TravisS25/chartbuilder/chart"
	"github.com/TravisS25/chartbuilder/form"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultNamespace prefixes every key written by an Adapter
	DefaultNamespace = "chartbuilder"

	// SettingsKind is the kind of key holding an editor snapshot
	SettingsKind = "settings"

	// SnapshotVersion is the version written into new snapshots
	SnapshotVersion = 1
)

// Key returns the store key of passed namespace, kind and instance id
func Key(namespace, kind, instanceID string) string {
	return fmt.Sprintf("%s-%s-%s", namespace, kind, instanceID)
}

// Snapshot is everything persisted for one editor instance
//
// Widgets holds the value of every control nested per tab.  Most of
// them duplicate the model; the ones that do not are restored after
// the form is rendered
type Snapshot struct {
	Version int                    `json:"version"`
	View    form.ViewState         `json:"view"`
	Model   chart.Model            `json:"model"`
	Widgets map[string]interface{} `json:"widgets,omitempty"`
	SavedAt time.Time              `json:"savedAt"`
}

// Adapter saves and loads editor snapshots to a Store
type Adapter struct {
	store     Store
	namespace string
	log       *logrus.Entry
	now       func() time.Time
}

// NewAdapter returns an adapter writing keys under passed namespace
//
// An empty namespace uses DefaultNamespace
func NewAdapter(s Store, namespace string, log *logrus.Entry) *Adapter {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Adapter{store: s, namespace: namespace, log: log, now: time.Now}
}

// Key returns the key the snapshot of passed instance is stored under
func (a *Adapter) Key(instanceID string) string {
	return Key(a.namespace, SettingsKind, instanceID)
}

// Save writes snap for passed instance
//
// Failures are logged and returned; the caller carries on either way
func (a *Adapter) Save(ctx context.Context, instanceID string, snap *Snapshot) error {
	key := a.Key(instanceID)
	log := a.log.WithFields(logrus.Fields{"instance": instanceID, "key": key})

	snap.Version = SnapshotVersion
	snap.SavedAt = a.now().UTC()

	b, err := json.Marshal(snap)

	if err != nil {
		log.WithError(err).Warn("could not encode settings")
		return errors.WithStack(err)
	}

	if err = a.store.Set(ctx, key, string(b)); err != nil {
		log.WithError(err).Warn("could not save settings")
		return errors.Wrap(err, "store: saving settings")
	}

	if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		log.Debugf("saved settings: %s", litter.Sdump(snap.Model))
	}

	return nil
}

// Load returns the snapshot of passed instance
//
// A missing, unreadable or malformed snapshot returns false; every
// case but a missing one is logged
func (a *Adapter) Load(ctx context.Context, instanceID string) (*Snapshot, bool) {
	key := a.Key(instanceID)
	log := a.log.WithFields(logrus.Fields{"instance": instanceID, "key": key})

	value, err := a.store.Get(ctx, key)

	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			log.Debug("no saved settings")
		} else {
			log.WithError(err).Warn("could not read settings")
		}

		return nil, false
	}

	snap := &Snapshot{}

	if err = json.Unmarshal([]byte(value), snap); err != nil {
		log.WithError(err).Warn("malformed settings")
		return nil, false
	}

	if err = snap.Model.Validate(); err != nil {
		log.WithError(err).Warn("invalid settings")
		return nil, false
	}

	if !snap.View.ActiveTab.Valid() {
		snap.View.ActiveTab = form.DataTab
	}

	return snap, true
}

// Delete removes the snapshot of passed instance
func (a *Adapter) Delete(ctx context.Context, instanceID string) error {
	if err := a.store.Del(ctx, a.Key(instanceID)); err != nil {
		a.log.WithError(err).WithField("instance", instanceID).Warn("could not delete settings")
		return errors.Wrap(err, "store: deleting settings")
	}

	return nil
}
