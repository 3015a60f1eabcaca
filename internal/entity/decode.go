package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode builds an entity of schema from a decoded JSON object. Only the
// keys present in raw are set. Keys the schema does not declare are ignored
// so newer servers can add fields without breaking older clients.
func Decode(schema *Schema, raw map[string]any) (*Entity, error) {
	e := schema.New()
	if err := e.fill(raw, schema.kind); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeJSON decodes one JSON object into an entity of schema.
func DecodeJSON(schema *Schema, b []byte) (*Entity, error) {
	e := schema.New()
	if err := e.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeMany decodes either a JSON array of objects or a single object into
// a slice of entities. null decodes to an empty slice.
func DecodeMany(schema *Schema, b []byte) ([]*Entity, error) {
	v, err := decodeAny(b)
	if err != nil {
		return nil, &DecodeError{Path: schema.kind, Want: "object or array", Got: err.Error()}
	}
	switch x := v.(type) {
	case nil:
		return []*Entity{}, nil
	case map[string]any:
		e, err := Decode(schema, x)
		if err != nil {
			return nil, err
		}
		return []*Entity{e}, nil
	case []any:
		return decodeList(schema, x, schema.kind)
	default:
		return nil, &DecodeError{Path: schema.kind, Want: "object or array", Got: x}
	}
}

func (e *Entity) fill(raw map[string]any, path string) error {
	for name, v := range raw {
		f, ok := e.schema.fields[name]
		if !ok {
			continue
		}
		val, err := decodeField(f, v, path+"."+name)
		if err != nil {
			return err
		}
		e.values[name] = val
	}
	return nil
}

func decodeField(f *Field, v any, path string) (any, error) {
	switch f.Kind {
	case Scalar:
		if !isScalar(v) {
			return nil, &DecodeError{Path: path, Want: "scalar", Got: v}
		}
		return v, nil
	case Object:
		switch x := v.(type) {
		case nil:
			return (*Entity)(nil), nil
		case map[string]any:
			child := f.Elem.New()
			if err := child.fill(x, path); err != nil {
				return nil, err
			}
			return child, nil
		default:
			return nil, &DecodeError{Path: path, Want: "object", Got: v}
		}
	case List:
		switch x := v.(type) {
		case nil:
			return []*Entity{}, nil
		case []any:
			return decodeList(f.Elem, x, path)
		case map[string]any:
			// A lone object where a list is declared is read as a
			// one-element list; the API does this for single access entries.
			child := f.Elem.New()
			if err := child.fill(x, path+"[0]"); err != nil {
				return nil, err
			}
			return []*Entity{child}, nil
		default:
			return nil, &DecodeError{Path: path, Want: "list", Got: v}
		}
	default:
		return v, nil
	}
}

func decodeList(schema *Schema, items []any, path string) ([]*Entity, error) {
	out := make([]*Entity, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &DecodeError{Path: fmt.Sprintf("%s[%d]", path, i), Want: "object", Got: item}
		}
		child := schema.New()
		if err := child.fill(obj, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

func decodeAny(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeObject(b []byte) (map[string]any, error) {
	v, err := decodeAny(b)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return obj, nil
}
