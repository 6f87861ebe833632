package form

//////////////////////////////////////////////////////////////////
//--------------------------- ENUMS ---------------------------
//////////////////////////////////////////////////////////////////

// Kind enums
const (
	TextKind     Kind = "text"
	NumberKind   Kind = "number"
	SelectKind   Kind = "select"
	CheckboxKind Kind = "checkbox"
	ColorKind    Kind = "color"
	RangeKind    Kind = "range"
)

// EventType enums
const (
	// InputEvent is sent on every keystroke or slider tick
	InputEvent EventType = "input"

	// ChangeEvent is sent once a control finished changing
	ChangeEvent EventType = "change"
)

// Kind is the type of input a control is rendered as
type Kind string

// EventType is the type of a control event
type EventType string

//////////////////////////////////////////////////////////////////
//------------------------- STRUCTS ---------------------------
//////////////////////////////////////////////////////////////////

// Option is one choice of a select control
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Control is one materialized input of the form
type Control struct {
	ID    string `json:"id"`
	Tab   Tab    `json:"tab"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`

	// Dataset is the index of the dataset the control edits or -1
	// for controls not bound to a dataset
	Dataset int `json:"dataset"`

	Value   string   `json:"value"`
	Checked bool     `json:"checked"`
	Hidden  bool     `json:"hidden"`
	Options []Option `json:"options,omitempty"`

	Min  string `json:"min,omitempty"`
	Max  string `json:"max,omitempty"`
	Step string `json:"step,omitempty"`

	// Live controls commit on every input event
	Live bool `json:"live"`

	// ReadOut is the text displayed next to live controls
	ReadOut string `json:"readOut,omitempty"`
}

// Event is a control event sent by the host
type Event struct {
	ID      string    `json:"control"`
	Type    EventType `json:"event"`
	Value   string    `json:"value"`
	Checked bool      `json:"checked"`
}

// Outcome describes what committing an event did
type Outcome struct {
	// Committed is set when the model was written
	Committed bool `json:"committed"`

	// Rehydrate is set when more than the event's control changed and
	// the whole form was hydrated again
	Rehydrate bool `json:"rehydrate"`

	// Rejected is set when the value could not be parsed or did not
	// validate.  The model is unchanged and the control shows the
	// model's value again
	Rejected bool `json:"rejected"`

	ReadOut string `json:"readOut,omitempty"`
}
