package typedfsm

import (
	"context"
	"fmt"
	"time"
)

// Snapshot is the persisted runtime state of a StatefulMachine. Transition
// tables are code and are never part of it.
type Snapshot[S any] struct {
	MachineID string    `json:"machineID" yaml:"machineID"`
	State     S         `json:"state" yaml:"state"`
	Sequence  uint64    `json:"sequence" yaml:"sequence"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Persister stores snapshots by machine ID.
type Persister[S any] interface {
	Save(ctx context.Context, snapshot Snapshot[S]) error
	Load(ctx context.Context, machineID string) (Snapshot[S], error)
}

// Snapshot captures the current state and sequence.
func (m *StatefulMachine[S, W]) Snapshot() Snapshot[S] {
	return Snapshot[S]{
		MachineID: m.opts.id,
		State:     m.current,
		Sequence:  m.sequence,
		Timestamp: time.Now(),
	}
}

// Restore replaces the current state and sequence from snapshot.
func (m *StatefulMachine[S, W]) Restore(snapshot Snapshot[S]) error {
	if snapshot.MachineID != m.opts.id {
		return fmt.Errorf("%w: have %q, snapshot %q", ErrMachineMismatch, m.opts.id, snapshot.MachineID)
	}
	m.current = snapshot.State
	m.sequence = snapshot.Sequence
	return nil
}

// Save writes a snapshot of the machine to p.
func (m *StatefulMachine[S, W]) Save(ctx context.Context, p Persister[S]) error {
	if err := p.Save(ctx, m.Snapshot()); err != nil {
		return fmt.Errorf("save machine %s: %w", m.opts.id, err)
	}
	return nil
}

// Load restores the machine from the snapshot stored under its ID.
func (m *StatefulMachine[S, W]) Load(ctx context.Context, p Persister[S]) error {
	snapshot, err := p.Load(ctx, m.opts.id)
	if err != nil {
		return fmt.Errorf("load machine %s: %w", m.opts.id, err)
	}
	return m.Restore(snapshot)
}
