// Package sanitize strips empty values from outgoing request payloads so a
// partial update never overwrites fields the caller did not mention.
//
// A value counts as empty when it is null, "", false, a numeric zero, an
// empty sequence or an empty mapping. This also drops a genuine 0 or false:
// the sanitizer cannot tell "explicitly zero" from "unset". Callers that
// need to send such values bypass it (transport.SkipSanitize).
package sanitize

import (
	"encoding/json"
	"reflect"

	"github.com/jroosing/mmws/internal/helpers"
)

// Payload removes empty values from m in place, descending into nested
// mappings and sequences, and returns m.
//
// Mappings and sequences are cleaned before they are tested, so a mapping
// that only held empty values is itself removed. Inside sequences, null,
// "" and emptied containers are dropped; other scalars keep their position.
// The result never contains null, "", or an empty container, and applying
// Payload again leaves it unchanged.
func Payload(m map[string]any) map[string]any {
	for k, v := range m {
		v = clean(v)
		if IsEmpty(v) {
			delete(m, k)
			continue
		}
		m[k] = v
	}
	return m
}

// IsEmpty reports whether v is dropped by Payload.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case json.Number:
		return helpers.IsZeroNumber(x)
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case []map[string]any:
		return len(x) == 0
	default:
		switch rv := reflect.ValueOf(v); rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len() == 0
		}
		return helpers.IsZeroNumber(v)
	}
}

func clean(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return Payload(x)
	case []map[string]any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			out = append(out, item)
		}
		return cleanSlice(out)
	case []any:
		return cleanSlice(x)
	case []string:
		out := make([]any, 0, len(x))
		for _, s := range x {
			out = append(out, s)
		}
		return cleanSlice(out)
	default:
		return cleanReflect(v)
	}
}

// cleanReflect converts other typed slices and string-keyed maps, such as
// []int or map[string]string, to their generic form and cleans them.
// Byte slices are left alone since they encode as strings.
func cleanReflect(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return cleanSlice(out)
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return Payload(out)
	default:
		return v
	}
}

func cleanSlice(items []any) []any {
	out := items[:0]
	for _, item := range items {
		item = clean(item)
		if droppedFromSlice(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// droppedFromSlice keeps numbers and booleans positional: a list of
// flags or counts means something even when an element is 0 or false.
func droppedFromSlice(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	default:
		return false
	}
}
