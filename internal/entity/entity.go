package entity

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jroosing/mmws/internal/helpers"
)

// Entity is a record of one schema holding values for the fields that were
// explicitly set, either by the caller or by decoding a server response.
//
// Accessing a field the schema does not declare panics.
type Entity struct {
	schema *Schema
	values map[string]any
}

// Schema returns the entity's schema.
func (e *Entity) Schema() *Schema { return e.schema }

// Kind returns the resource kind name of the entity.
func (e *Entity) Kind() string { return e.schema.kind }

// Ref returns the object reference, or "" if the entity was never persisted.
func (e *Entity) Ref() string {
	if e == nil {
		return ""
	}
	return e.String(e.schema.refField)
}

// Has reports whether the field was explicitly set.
func (e *Entity) Has(name string) bool {
	e.schema.mustField(name)
	_, ok := e.values[name]
	return ok
}

// Get returns the field's value, or its declared default when unset.
// Unset List fields return a fresh empty slice, unset Object fields nil.
func (e *Entity) Get(name string) any {
	f := e.schema.mustField(name)
	if v, ok := e.values[name]; ok {
		return v
	}
	switch f.Kind {
	case List:
		return []*Entity{}
	case Object:
		return (*Entity)(nil)
	default:
		return f.Default
	}
}

// Set stores v and marks the field present. The value must match the
// field kind: *Entity for Object, []*Entity for List, and a string, number,
// bool or nil for Scalar. A mismatch panics.
func (e *Entity) Set(name string, v any) *Entity {
	f := e.schema.mustField(name)
	switch f.Kind {
	case Object:
		child, ok := v.(*Entity)
		if !ok && v != nil {
			panic(fmt.Sprintf("entity: %s.%s wants *Entity, got %T", e.schema.kind, name, v))
		}
		e.values[name] = child
	case List:
		items, ok := v.([]*Entity)
		if !ok {
			panic(fmt.Sprintf("entity: %s.%s wants []*Entity, got %T", e.schema.kind, name, v))
		}
		if items == nil {
			items = []*Entity{}
		}
		e.values[name] = items
	case Scalar:
		if !isScalar(v) {
			panic(fmt.Sprintf("entity: %s.%s wants a scalar, got %T", e.schema.kind, name, v))
		}
		e.values[name] = v
	default:
		e.values[name] = v
	}
	return e
}

// Unset clears the field so it is absent again.
func (e *Entity) Unset(name string) *Entity {
	e.schema.mustField(name)
	delete(e.values, name)
	return e
}

// Append adds items to a List field and marks it present.
func (e *Entity) Append(name string, items ...*Entity) *Entity {
	cur := e.List(name)
	next := make([]*Entity, 0, len(cur)+len(items))
	next = append(next, cur...)
	next = append(next, items...)
	return e.Set(name, next)
}

// String returns the field as a string. Numbers are formatted, nil is "".
func (e *Entity) String(name string) string {
	switch v := e.Get(name).(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the field as an int64, or 0 when it is not numeric.
func (e *Entity) Int(name string) int64 {
	n, _ := helpers.ToInt64(e.Get(name))
	return n
}

// Uint32 returns a numeric field clamped to the uint32 range, as used for
// TTLs. Non-numeric values give 0.
func (e *Entity) Uint32(name string) uint32 {
	return helpers.ClampInt64ToUint32(e.Int(name))
}

// Float returns the field as a float64, or 0 when it is not numeric.
func (e *Entity) Float(name string) float64 {
	f, _ := helpers.ToFloat64(e.Get(name))
	return f
}

// Bool returns the field as a bool. The strings "true"/"false" are accepted.
func (e *Entity) Bool(name string) bool {
	switch v := e.Get(name).(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// Object returns a nested entity, or nil when unset.
func (e *Entity) Object(name string) *Entity {
	child, _ := e.Get(name).(*Entity)
	return child
}

// List returns a sequence field. It is never nil.
func (e *Entity) List(name string) []*Entity {
	items, _ := e.Get(name).([]*Entity)
	if items == nil {
		return []*Entity{}
	}
	return items
}

// Strings returns a Value field holding a JSON array of strings.
func (e *Entity) Strings(name string) []string {
	switch v := e.Get(name).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Wire returns the sparse wire form: a fresh map holding only the set
// fields, with nested entities rendered the same way.
func (e *Entity) Wire() map[string]any {
	out := make(map[string]any, len(e.values))
	for _, name := range e.schema.order {
		v, ok := e.values[name]
		if !ok {
			continue
		}
		switch x := v.(type) {
		case *Entity:
			if x == nil {
				out[name] = nil
			} else {
				out[name] = x.Wire()
			}
		case []*Entity:
			out[name] = wireList(x)
		default:
			out[name] = cloneValue(x)
		}
	}
	return out
}

// MarshalJSON encodes the sparse wire form.
func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Wire())
}

// UnmarshalJSON decodes into an entity that already carries a schema,
// as returned by Schema.New. Previously set fields are kept unless the
// document sets them again.
func (e *Entity) UnmarshalJSON(b []byte) error {
	if e.schema == nil {
		return fmt.Errorf("entity: unmarshal into entity without schema")
	}
	raw, err := decodeObject(b)
	if err != nil {
		return &DecodeError{Path: e.schema.kind, Want: "object", Got: err.Error()}
	}
	return e.fill(raw, e.schema.kind)
}

// GoString renders the entity as its kind followed by its wire JSON.
func (e *Entity) GoString() string {
	b, err := e.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%s{<%v>}", e.schema.kind, err)
	}
	return e.schema.kind + string(b)
}

// Payload is anything that renders as a JSON object for a request body.
// *Entity and Fields implement it.
type Payload interface {
	Wire() map[string]any
}

// WireOf returns p.Wire(), or an empty map when p is nil or a nil *Entity.
func WireOf(p Payload) map[string]any {
	switch x := p.(type) {
	case nil:
		return map[string]any{}
	case *Entity:
		if x == nil {
			return map[string]any{}
		}
	}
	return p.Wire()
}

// Fields is an ad hoc payload for partial updates and filters.
type Fields map[string]any

// Wire returns a deep copy so sanitizing a request never alters the caller's map.
func (f Fields) Wire() map[string]any {
	out, _ := cloneValue(map[string]any(f)).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = item
		}
		return out
	case *Entity:
		if x == nil {
			return nil
		}
		return x.Wire()
	case []*Entity:
		return wireList(x)
	case Fields:
		return cloneValue(map[string]any(x))
	default:
		return v
	}
}

func wireList(items []*Entity) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, item.Wire())
		}
	}
	return out
}
