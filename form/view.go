package form

import "github.com/pkg/errors"

// Tab enums
const (
	DataTab    Tab = "data"
	OptionsTab Tab = "options"
	LayoutTab  Tab = "layout"
	PreviewTab Tab = "preview"
)

var (
	// ErrUnknownTab is returned when switching to a tab that does not exist
	ErrUnknownTab = errors.New("form: unknown tab")
)

// Tab names one panel of the editor
type Tab string

// Tabs lists every tab in display order
var Tabs = []Tab{DataTab, OptionsTab, LayoutTab, PreviewTab}

// Valid reports whether t is a known tab
func (t Tab) Valid() bool {
	for _, v := range Tabs {
		if v == t {
			return true
		}
	}

	return false
}

// ViewState is the presentational state of an editor
//
// It is persisted with the model but never exported
type ViewState struct {
	EditorVisible bool `json:"editorVisible"`
	ActiveTab     Tab  `json:"activeTab"`
}

// DefaultViewState is the view state of an editor without saved settings
func DefaultViewState() ViewState {
	return ViewState{EditorVisible: true, ActiveTab: DataTab}
}

// SetTab switches the active tab
func (v *ViewState) SetTab(t Tab) error {
	if !t.Valid() {
		return errors.Wrapf(ErrUnknownTab, "%q", t)
	}

	v.ActiveTab = t
	return nil
}

// PanelVisible reports whether the panel of passed tab is shown
//
// Panels of every tab always exist; only the active one is visible
// and none are while the editor is hidden
func (v ViewState) PanelVisible(t Tab) bool {
	return v.EditorVisible && v.ActiveTab == t
}

// Surface returns the id of the surface the chart is drawn on for
// the current view
func (v ViewState) Surface() string {
	if v.EditorVisible {
		return PreviewSurface
	}

	return DisplaySurface
}

const (
	// PreviewSurface is the chart target inside the preview tab
	PreviewSurface = "chart-preview"

	// DisplaySurface is the chart target of the chart only view
	DisplaySurface = "chart-display"
)
