package chart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a single data point of a dataset
//
// Entries that could not be parsed are stored as NaN which is
// encoded as json null, the same way a browser serializes it
type Value float64

// NaN returns the "not a number" sentinel
func NaN() Value {
	return Value(math.NaN())
}

// IsNaN reports whether v is the "not a number" sentinel
func (v Value) IsNaN() bool {
	return math.IsNaN(float64(v))
}

// Float64 returns v as float64
func (v Value) Float64() float64 {
	return float64(v)
}

// String returns v formatted the way it is displayed in form inputs
func (v Value) String() string {
	if v.IsNaN() {
		return "NaN"
	}

	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

// MarshalJSON encodes NaN and infinities as null
func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}

	return json.Marshal(f)
}

// UnmarshalJSON decodes numbers and numeric strings
//
// Anything else, including null, becomes NaN instead of an error so
// one bad entry in an imported document does not discard the whole series
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64

	if string(data) == "null" {
		*v = NaN()
		return nil
	}

	if err := json.Unmarshal(data, &f); err == nil {
		*v = Value(f)
		return nil
	}

	var s string

	if err := json.Unmarshal(data, &s); err == nil {
		*v = ParseValue(s)
		return nil
	}

	*v = NaN()
	return nil
}

// ParseValue parses a single form entry, returning NaN if it
// is not a number
func ParseValue(s string) Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)

	if err != nil {
		return NaN()
	}

	return Value(f)
}

// ParseValues splits a comma separated list and parses every entry
func ParseValues(s string) []Value {
	parts := strings.Split(s, ",")
	values := make([]Value, 0, len(parts))

	for _, p := range parts {
		values = append(values, ParseValue(p))
	}

	return values
}

// FormatValues joins values the way they are displayed in form inputs
func FormatValues(values []Value) string {
	parts := make([]string, len(values))

	for i, v := range values {
		parts[i] = v.String()
	}

	return strings.Join(parts, ", ")
}
