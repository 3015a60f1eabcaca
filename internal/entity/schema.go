// Package entity implements the typed, sparsely populated records exchanged
// with the Micetro REST API (MMWS).
//
// A Schema declares the fields a resource kind recognizes. An Entity holds
// values for a subset of those fields and remembers which ones were set, so
// the same value can represent a full object or a partial update. Only set
// fields are ever written to the wire.
package entity

import "fmt"

// FieldKind classifies how a field is decoded and encoded.
type FieldKind int

const (
	// Scalar fields hold a string, number, boolean or null.
	Scalar FieldKind = iota
	// Value fields hold any JSON value as decoded (lists of strings, maps).
	Value
	// Object fields hold a single nested Entity.
	Object
	// List fields hold an ordered sequence of nested Entities.
	List
)

func (k FieldKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Value:
		return "value"
	case Object:
		return "object"
	case List:
		return "list"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Field describes one declared field.
type Field struct {
	Name    string
	Kind    FieldKind
	Elem    *Schema // element schema for Object and List fields
	Default any     // returned by Get for unset Scalar and Value fields
}

// Schema is the declared field set of one resource kind.
//
// Schemas are built once at package init and shared; they must not be
// modified after the first Entity is created from them.
type Schema struct {
	kind     string
	refField string
	fields   map[string]*Field
	order    []string
}

// NewSchema returns an empty schema for the named kind (e.g. "User").
// The reference field defaults to "ref".
func NewSchema(kind string) *Schema {
	return &Schema{
		kind:     kind,
		refField: "ref",
		fields:   make(map[string]*Field),
	}
}

// WithRefField changes the name of the field holding the object reference.
func (s *Schema) WithRefField(name string) *Schema {
	s.refField = name
	return s
}

// Declare registers a scalar field with a default value.
func (s *Schema) Declare(name string, def any) *Schema {
	return s.add(&Field{Name: name, Kind: Scalar, Default: def})
}

// DeclareValue registers a field that accepts any JSON value.
func (s *Schema) DeclareValue(name string, def any) *Schema {
	return s.add(&Field{Name: name, Kind: Value, Default: def})
}

// DeclareObject registers a field holding one nested entity of elem.
func (s *Schema) DeclareObject(name string, elem *Schema) *Schema {
	return s.add(&Field{Name: name, Kind: Object, Elem: elem})
}

// DeclareList registers a field holding a sequence of entities of elem.
// Its default is an empty sequence.
func (s *Schema) DeclareList(name string, elem *Schema) *Schema {
	return s.add(&Field{Name: name, Kind: List, Elem: elem})
}

func (s *Schema) add(f *Field) *Schema {
	if _, dup := s.fields[f.Name]; dup {
		panic(fmt.Sprintf("entity: %s.%s declared twice", s.kind, f.Name))
	}
	if (f.Kind == Object || f.Kind == List) && f.Elem == nil {
		panic(fmt.Sprintf("entity: %s.%s needs an element schema", s.kind, f.Name))
	}
	s.fields[f.Name] = f
	s.order = append(s.order, f.Name)
	return s
}

// Kind returns the resource kind name.
func (s *Schema) Kind() string { return s.kind }

// RefField returns the name of the reference field.
func (s *Schema) RefField() string { return s.refField }

// Field returns the declaration for name.
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Fields returns the declared field names in declaration order.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// New returns an empty entity of this schema. No field is set.
func (s *Schema) New() *Entity {
	return &Entity{schema: s, values: make(map[string]any)}
}

func (s *Schema) mustField(name string) *Field {
	f, ok := s.fields[name]
	if !ok {
		panic(fmt.Sprintf("entity: %s has no field %q", s.kind, name))
	}
	return f
}
