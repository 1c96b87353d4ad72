package transform

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrNaN is returned when a value parses to NaN.
	ErrNaN = errors.New("value is NaN")
	// ErrNotNumber is returned when a value cannot be parsed as a number.
	ErrNotNumber = errors.New("value is not a number")
)

// IsNumeric reports whether v already holds a native Go number.
// Booleans are not numbers.
func IsNumeric(v any) bool {
	if v == nil {
		return false
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// IsNaN reports whether v is a native floating point NaN.
func IsNaN(v any) bool {
	switch x := v.(type) {
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}

// ParseNumber converts a textual number (string or json.Number) to float64.
// Surrounding whitespace is ignored and out-of-range values become ±Inf.
// Native numbers are converted as well.
func ParseNumber(v any) (float64, error) {
	var s string

	switch x := v.(type) {
	case string:
		s = strings.TrimSpace(x)
	case json.Number:
		s = x.String()
	default:
		if !IsNumeric(v) {
			return 0, ErrNotNumber
		}

		f := reflect.ValueOf(v).Convert(reflect.TypeOf(float64(0))).Float()
		if math.IsNaN(f) {
			return 0, ErrNaN
		}

		return f, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, ErrNotNumber
	}

	if math.IsNaN(f) {
		return 0, ErrNaN
	}

	return f, nil
}
