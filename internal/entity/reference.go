package entity

// Referent is either a raw reference string (Ref) or an *Entity. Every
// operation that addresses a server object by reference accepts one, so
// callers can pass whichever they hold.
type Referent interface {
	referent()
}

// Ref is a raw object reference such as "Users/3".
type Ref string

func (Ref) referent()     {}
func (*Entity) referent() {}

// Resolve returns the reference string for r. A raw Ref is returned
// verbatim. An entity yields its reference field; an entity without one
// (typically never saved) is a *MissingReferenceError.
func Resolve(r Referent) (string, error) {
	switch v := r.(type) {
	case Ref:
		if v == "" {
			return "", &MissingReferenceError{}
		}
		return string(v), nil
	case *Entity:
		if v == nil {
			return "", &MissingReferenceError{}
		}
		ref := v.Ref()
		if ref == "" {
			return "", &MissingReferenceError{Kind: v.Kind()}
		}
		return ref, nil
	default:
		return "", &MissingReferenceError{}
	}
}
