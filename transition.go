package typedfsm

import (
	"context"
	"slices"
	"sort"
)

// Action reacts to a dispatched event. Every action of a transition receives
// the wrapper value, whatever its variant; actions that only care about one
// variant branch on it themselves (see Match).
type Action[W any] func(ctx context.Context, evt W)

// Transition is the target state plus the ordered actions bound to one event kind.
type Transition[S, W any] struct {
	Target  S
	Actions []Action[W]
}

func (t Transition[S, W]) clone() Transition[S, W] {
	return Transition[S, W]{Target: t.Target, Actions: slices.Clone(t.Actions)}
}

// Table maps event kinds to transitions. It is populated by a Builder and is
// read-only afterwards.
type Table[S, W any] struct {
	on map[Kind]Transition[S, W]
}

func newTable[S, W any](size int) *Table[S, W] {
	return &Table[S, W]{on: make(map[Kind]Transition[S, W], size)}
}

// Lookup returns a copy of the transition registered for kind.
func (t *Table[S, W]) Lookup(kind Kind) (Transition[S, W], bool) {
	tr, ok := t.on[kind]
	if !ok {
		return Transition[S, W]{}, false
	}
	return tr.clone(), true
}

func (t *Table[S, W]) get(kind Kind) (Transition[S, W], bool) {
	tr, ok := t.on[kind]
	return tr, ok
}

// Len returns the number of registered kinds.
func (t *Table[S, W]) Len() int {
	return len(t.on)
}

// Kinds returns the registered kinds ordered by name. Kinds whose names
// collide are ordered by package path.
func (t *Table[S, W]) Kinds() []Kind {
	kinds := make([]Kind, 0, len(t.on))
	for k := range t.on {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		a, b := kinds[i], kinds[j]
		if a.String() != b.String() {
			return a.String() < b.String()
		}
		return a.qualified() < b.qualified()
	})
	return kinds
}

// insert is builder-time only.
func (t *Table[S, W]) insert(kind Kind, tr Transition[S, W]) {
	t.on[kind] = tr.clone()
}
