package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"lead-exporter/internal/common"
)

// ErrNotText is returned by Text for values that have no textual form.
var ErrNotText = errors.New("value has no textual form")

// Text renders v in its natural textual form:
// strings as-is, numbers in their shortest representation (integral floats
// without a fraction), booleans as true/false, times as RFC 3339, lists and
// objects as JSON. nil renders as the empty string.
func Text(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return formatFloat(x, 64), nil
	case json.Number:
		return x.String(), nil
	case time.Time:
		return x.Format(time.RFC3339), nil
	case fmt.Stringer:
		return x.String(), nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), rv.Type().Bits()), nil
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotText, err)
		}

		return string(b), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return "", nil
		}

		return Text(rv.Elem().Interface())
	default:
		return "", fmt.Errorf("%w: %T", ErrNotText, v)
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	return strconv.FormatFloat(f, 'f', -1, bits)
}

// Display renders v for use inside a message. Unlike Text it never fails and
// shows nil as "null".
func Display(v any) string {
	if v == nil {
		return common.NullStr
	}

	s, err := Text(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return s
}

// TypeName returns a JSON-flavoured name for the dynamic type of v.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return common.NullStr
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case time.Time:
		return "datetime"
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
	}
}

// AsList returns v as a []any when it is a list of any element type.
func AsList(v any) ([]any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}

		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}

// JoinList renders every element of a list with Text and joins them with
// ", ". An empty list yields "". Values that are not lists do not apply.
func JoinList(v any) (string, bool) {
	items, ok := AsList(v)
	if !ok {
		return "", false
	}

	parts := make([]string, len(items))
	for i, item := range items {
		s, err := Text(item)
		if err != nil {
			s = fmt.Sprint(item)
		}

		parts[i] = s
	}

	return strings.Join(parts, ", "), true
}
