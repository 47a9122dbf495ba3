package typedfsm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Machine dispatches events through a transition table keyed by event kind.
//
// The state passed to NewMachine is kept as-is: Send returns the target of the
// selected transition but does not store it, and the current state never
// takes part in selection. StatefulMachine is the variant that keys by
// (state, kind) and commits the target.
type Machine[S, W any] struct {
	state S
	table *Table[S, W]
	opts  options
}

// NewMachine creates a machine from an initial state and a built table.
func NewMachine[S, W any](initial S, table *Table[S, W], opts ...Option) (*Machine[S, W], error) {
	if table == nil {
		return nil, ErrNilTable
	}
	return &Machine[S, W]{
		state: initial,
		table: table,
		opts:  newOptions(opts),
	}, nil
}

// MustNew is like NewMachine but panics on error.
func MustNew[S, W any](initial S, table *Table[S, W], opts ...Option) *Machine[S, W] {
	m, err := NewMachine(initial, table, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create machine: %v", err))
	}
	return m
}

// ID returns the machine identifier.
func (m *Machine[S, W]) ID() string {
	return m.opts.id
}

// State returns the state the machine was constructed with.
func (m *Machine[S, W]) State() S {
	return m.state
}

// Table returns the machine's transition table.
func (m *Machine[S, W]) Table() *Table[S, W] {
	return m.table
}

// Handles reports whether evt's kind has a transition.
func (m *Machine[S, W]) Handles(evt Event[W]) bool {
	_, ok := m.table.get(KindOfEvent(evt))
	return ok
}

// Send dispatches evt: it selects the transition for evt's kind, runs every
// action of that transition in order with the wrapped event, and returns the
// transition's target.
//
// An unregistered kind yields an *UnregisteredKindError before any action runs.
func (m *Machine[S, W]) Send(ctx context.Context, evt Event[W]) (S, error) {
	start := time.Now()
	kind := KindOfEvent(evt)

	t, ok := m.table.get(kind)
	if !ok {
		m.opts.logger.DebugContext(ctx, "event kind not registered", slog.String("kind", kind.String()))
		m.opts.metrics.ObserveSend(m.opts.id, kind.String(), false, time.Since(start))
		var zero S
		return zero, &UnregisteredKindError{MachineID: m.opts.id, Kind: kind}
	}

	runActions(ctx, t.Actions, evt.Wrap())

	m.opts.metrics.ObserveActions(m.opts.id, kind.String(), len(t.Actions))
	m.opts.metrics.ObserveSend(m.opts.id, kind.String(), true, time.Since(start))
	m.opts.logger.DebugContext(ctx, "dispatched",
		slog.String("kind", kind.String()),
		slog.String("target", stateName(t.Target)),
		slog.Int("actions", len(t.Actions)),
	)
	m.opts.publish(ctx, Record{
		MachineID: m.opts.id,
		Kind:      kind.String(),
		From:      stateName(m.state),
		To:        stateName(t.Target),
		Actions:   len(t.Actions),
		Timestamp: time.Now(),
	})

	return t.Target, nil
}

// MustSend is like Send but panics when evt's kind is not registered.
func (m *Machine[S, W]) MustSend(ctx context.Context, evt Event[W]) S {
	s, err := m.Send(ctx, evt)
	if err != nil {
		panic(err)
	}
	return s
}

// Describe lists the table as edges from any state.
func (m *Machine[S, W]) Describe() Description {
	d := Description{
		MachineID: m.opts.id,
		Current:   stateName(m.state),
	}
	for _, k := range m.table.Kinds() {
		t, _ := m.table.get(k)
		d.Edges = append(d.Edges, Edge{
			From:    AnyState,
			Kind:    k.String(),
			To:      stateName(t.Target),
			Actions: len(t.Actions),
		})
	}
	return d
}

// runActions invokes every action in registration order. Actions are not
// filtered by variant.
func runActions[W any](ctx context.Context, actions []Action[W], w W) {
	for _, action := range actions {
		action(ctx, w)
	}
}

func stateName(s any) string {
	return fmt.Sprint(s)
}
