package metric

import (
	"encoding/json"
	"strconv"
)

// Value is a computed metric value. The zero Value is the "no data" sentinel.
type Value struct {
	Number float64
	Valid  bool
}

// NoData is returned by metrics that have nothing to compute from.
var NoData = Value{}

// Of wraps a number as a valid Value.
func Of(x float64) Value { return Value{Number: x, Valid: true} }

// Float returns the number, or fallback when there is no data.
func (v Value) Float(fallback float64) float64 {
	if !v.Valid {
		return fallback
	}
	return v.Number
}

func (v Value) String() string {
	if !v.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

// MarshalJSON encodes the value as a number, or null when there is no data.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Number)
}
