package typedfsm

import (
	"errors"
	"fmt"
)

// Builder collects transitions for a Machine. Registration is done with the
// package-level On and Declare functions since Go methods cannot take type
// parameters.
type Builder[S, W any] struct {
	order    []Kind
	on       map[Kind]Transition[S, W]
	declared map[Kind]struct{}
	decls    []Kind
	errs     []error
}

// NewBuilder creates an empty builder.
func NewBuilder[S, W any]() *Builder[S, W] {
	return &Builder[S, W]{
		on:       make(map[Kind]Transition[S, W]),
		declared: make(map[Kind]struct{}),
	}
}

// On registers the transition taken when an event of type E is sent.
// Nil actions are skipped. Registering the same E twice is an error reported
// by Table or Build.
func On[E Event[W], S, W any](b *Builder[S, W], target S, actions ...Action[W]) *Builder[S, W] {
	kind := KindOf[E]()
	if kind.isInterface() {
		b.errs = append(b.errs, fmt.Errorf("%w: %s", ErrInterfaceKind, kind))
		return b
	}
	if _, exists := b.on[kind]; exists {
		b.errs = append(b.errs, fmt.Errorf("%w: event kind %s", ErrDuplicateTransition, kind))
		return b
	}

	t := Transition[S, W]{Target: target}
	for _, a := range actions {
		if a != nil {
			t.Actions = append(t.Actions, a)
		}
	}
	b.on[kind] = t
	b.order = append(b.order, kind)
	return b
}

// Declare adds E to the machine's event set. Table fails if a declared kind
// has no transition.
func Declare[E Event[W], S, W any](b *Builder[S, W]) *Builder[S, W] {
	kind := KindOf[E]()
	if kind.isInterface() {
		b.errs = append(b.errs, fmt.Errorf("%w: %s", ErrInterfaceKind, kind))
		return b
	}
	if _, ok := b.declared[kind]; !ok {
		b.declared[kind] = struct{}{}
		b.decls = append(b.decls, kind)
	}
	return b
}

// Table validates the registrations and returns the resulting table.
func (b *Builder[S, W]) Table() (*Table[S, W], error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	t := newTable[S, W](len(b.on))
	for _, kind := range b.order {
		t.insert(kind, b.on[kind])
	}
	return t, nil
}

// Build creates a Machine from the builder's table.
func (b *Builder[S, W]) Build(initial S, opts ...Option) (*Machine[S, W], error) {
	t, err := b.Table()
	if err != nil {
		return nil, err
	}
	return NewMachine(initial, t, opts...)
}

func (b *Builder[S, W]) validate() error {
	errs := append([]error(nil), b.errs...)
	for _, kind := range b.decls {
		if _, ok := b.on[kind]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingTransition, kind))
		}
	}
	return errors.Join(errs...)
}
