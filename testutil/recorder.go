// Package testutil provides helpers for testing code built on typedfsm.
package testutil

import (
	"context"
	"sync"

	"github.com/comalice/typedfsm"
)

// Call is one recorded action invocation.
type Call[W any] struct {
	Name  string
	Event W
}

// Recorder hands out actions that record every invocation in order.
type Recorder[W any] struct {
	mu    sync.Mutex
	calls []Call[W]
}

// NewRecorder creates an empty Recorder.
func NewRecorder[W any]() *Recorder[W] {
	return &Recorder[W]{}
}

// Action returns an action that records its invocations under name.
func (r *Recorder[W]) Action(name string) typedfsm.Action[W] {
	return func(_ context.Context, evt W) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, Call[W]{Name: name, Event: evt})
	}
}

// Calls returns a copy of the recorded calls.
func (r *Recorder[W]) Calls() []Call[W] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call[W](nil), r.calls...)
}

// Names returns the names of the recorded calls in invocation order.
func (r *Recorder[W]) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.calls))
	for i, c := range r.calls {
		names[i] = c.Name
	}
	return names
}

// Reset forgets all recorded calls.
func (r *Recorder[W]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
