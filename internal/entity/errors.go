package entity

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below.
var (
	ErrMissingReference = errors.New("missing object reference")
	ErrDecode           = errors.New("unexpected response shape")
)

// MissingReferenceError reports an entity used where a persisted object
// was required. It is raised locally; no request is sent.
type MissingReferenceError struct {
	Kind string // empty for a nil or blank reference
}

func (e *MissingReferenceError) Error() string {
	if e.Kind == "" {
		return ErrMissingReference.Error()
	}
	return fmt.Sprintf("%s has no reference (not saved yet?)", e.Kind)
}

func (e *MissingReferenceError) Is(target error) bool {
	return target == ErrMissingReference
}

// DecodeError reports a JSON value whose shape does not match the schema.
type DecodeError struct {
	Path string // dotted field path, e.g. "User.roles[1]"
	Want string
	Got  any
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: want %s, got %s", e.Path, e.Want, describe(e.Got))
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T(%v)", v, v)
	}
}
