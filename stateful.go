package typedfsm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

type stateKind[S comparable] struct {
	state S
	kind  Kind
}

// StatefulBuilder collects (state, kind) keyed transitions for a StatefulMachine.
type StatefulBuilder[S comparable, W any] struct {
	order []stateKind[S]
	on    map[stateKind[S]]Transition[S, W]
	errs  []error
}

// NewStatefulBuilder creates an empty builder.
func NewStatefulBuilder[S comparable, W any]() *StatefulBuilder[S, W] {
	return &StatefulBuilder[S, W]{on: make(map[stateKind[S]]Transition[S, W])}
}

// From registers the transition taken when an event of type E is sent while
// the machine is in state from.
func From[E Event[W], S comparable, W any](b *StatefulBuilder[S, W], from, to S, actions ...Action[W]) *StatefulBuilder[S, W] {
	kind := KindOf[E]()
	if kind.isInterface() {
		b.errs = append(b.errs, fmt.Errorf("%w: %s", ErrInterfaceKind, kind))
		return b
	}
	key := stateKind[S]{state: from, kind: kind}
	if _, exists := b.on[key]; exists {
		b.errs = append(b.errs, fmt.Errorf("%w: state %v, event kind %s", ErrDuplicateTransition, from, kind))
		return b
	}

	t := Transition[S, W]{Target: to}
	for _, a := range actions {
		if a != nil {
			t.Actions = append(t.Actions, a)
		}
	}
	b.on[key] = t
	b.order = append(b.order, key)
	return b
}

// Build validates the registrations and creates the machine.
func (b *StatefulBuilder[S, W]) Build(initial S, opts ...Option) (*StatefulMachine[S, W], error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	on := make(map[stateKind[S]]Transition[S, W], len(b.on))
	for _, key := range b.order {
		on[key] = b.on[key].clone()
	}
	return &StatefulMachine[S, W]{
		initial: initial,
		current: initial,
		order:   append([]stateKind[S](nil), b.order...),
		on:      on,
		opts:    newOptions(opts),
	}, nil
}

// StatefulMachine selects transitions by its current state and the event kind
// and stores the target after the actions have run.
//
// A StatefulMachine must be owned by one goroutine at a time.
type StatefulMachine[S comparable, W any] struct {
	initial  S
	current  S
	sequence uint64
	order    []stateKind[S]
	on       map[stateKind[S]]Transition[S, W]
	opts     options
}

// ID returns the machine identifier.
func (m *StatefulMachine[S, W]) ID() string {
	return m.opts.id
}

// Current returns the current state.
func (m *StatefulMachine[S, W]) Current() S {
	return m.current
}

// Sequence returns the number of committed transitions.
func (m *StatefulMachine[S, W]) Sequence() uint64 {
	return m.sequence
}

// Can reports whether evt has a transition from the current state.
func (m *StatefulMachine[S, W]) Can(evt Event[W]) bool {
	_, ok := m.on[stateKind[S]{state: m.current, kind: KindOfEvent(evt)}]
	return ok
}

// Send runs the transition registered for the current state and evt's kind,
// then commits its target as the current state.
//
// When nothing is registered a *NoTransitionError is returned, no action runs
// and the state is unchanged.
func (m *StatefulMachine[S, W]) Send(ctx context.Context, evt Event[W]) (S, error) {
	start := time.Now()
	kind := KindOfEvent(evt)

	t, ok := m.on[stateKind[S]{state: m.current, kind: kind}]
	if !ok {
		m.opts.logger.DebugContext(ctx, "no transition",
			slog.String("state", stateName(m.current)),
			slog.String("kind", kind.String()),
		)
		m.opts.metrics.ObserveSend(m.opts.id, kind.String(), false, time.Since(start))
		return m.current, &NoTransitionError{MachineID: m.opts.id, State: stateName(m.current), Kind: kind}
	}

	runActions(ctx, t.Actions, evt.Wrap())

	from := m.current
	m.current = t.Target
	m.sequence++

	m.opts.metrics.ObserveActions(m.opts.id, kind.String(), len(t.Actions))
	m.opts.metrics.ObserveSend(m.opts.id, kind.String(), true, time.Since(start))
	m.opts.logger.DebugContext(ctx, "transitioned",
		slog.String("kind", kind.String()),
		slog.String("from", stateName(from)),
		slog.String("to", stateName(t.Target)),
		slog.Uint64("sequence", m.sequence),
	)
	m.opts.publish(ctx, Record{
		MachineID: m.opts.id,
		Kind:      kind.String(),
		From:      stateName(from),
		To:        stateName(t.Target),
		Actions:   len(t.Actions),
		Sequence:  m.sequence,
		Timestamp: time.Now(),
	})

	return m.current, nil
}

// Reset returns the machine to its initial state and clears the sequence.
func (m *StatefulMachine[S, W]) Reset() {
	m.current = m.initial
	m.sequence = 0
}

// Describe lists the transitions ordered by source state and kind.
func (m *StatefulMachine[S, W]) Describe() Description {
	d := Description{
		MachineID: m.opts.id,
		Current:   stateName(m.current),
	}
	for _, key := range m.order {
		t := m.on[key]
		d.Edges = append(d.Edges, Edge{
			From:    stateName(key.state),
			Kind:    key.kind.String(),
			To:      stateName(t.Target),
			Actions: len(t.Actions),
		})
	}
	sort.SliceStable(d.Edges, func(i, j int) bool {
		if d.Edges[i].From != d.Edges[j].From {
			return d.Edges[i].From < d.Edges[j].From
		}
		return d.Edges[i].Kind < d.Edges[j].Kind
	})
	return d
}
