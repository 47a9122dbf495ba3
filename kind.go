package typedfsm

import "reflect"

// Kind identifies a concrete event type. Two events have the same Kind when
// they share a Go type; their contents never participate.
type Kind struct {
	typ reflect.Type
}

// KindOf returns the Kind of the static type E.
func KindOf[E any]() Kind {
	return Kind{typ: reflect.TypeOf((*E)(nil)).Elem()}
}

// KindOfEvent returns the Kind of evt's concrete type.
func KindOfEvent[W any](evt Event[W]) Kind {
	return Kind{typ: reflect.TypeOf(evt)}
}

// String returns the Go type name, e.g. "main.DataEvent".
func (k Kind) String() string {
	if k.typ == nil {
		return "<nil>"
	}
	return k.typ.String()
}

// IsZero reports whether k was never assigned.
func (k Kind) IsZero() bool {
	return k.typ == nil
}

// qualified is the import-path qualified type name, e.g.
// "example.com/app/events.Start". Unnamed types fall back to String.
func (k Kind) qualified() string {
	if k.typ == nil || k.typ.Name() == "" {
		return k.String()
	}
	return k.typ.PkgPath() + "." + k.typ.Name()
}

func (k Kind) isInterface() bool {
	return k.typ != nil && k.typ.Kind() == reflect.Interface
}
