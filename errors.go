package typedfsm

import (
	"errors"
	"fmt"
)

var (
	ErrUnregisteredEventKind = errors.New("event kind not registered")
	ErrNoTransition          = errors.New("no transition for state and event kind")
	ErrDuplicateTransition   = errors.New("duplicate transition")
	ErrMissingTransition     = errors.New("declared event kind has no transition")
	ErrInterfaceKind         = errors.New("event kind must be a concrete type")
	ErrNilTable              = errors.New("transition table is nil")
	ErrMachineMismatch       = errors.New("snapshot belongs to another machine")
)

// UnregisteredKindError is returned by Machine.Send when the table has no
// transition for the event's kind. No action has run when it is returned.
type UnregisteredKindError struct {
	MachineID string
	Kind      Kind
}

func (e *UnregisteredKindError) Error() string {
	return fmt.Sprintf("machine %s: event kind %s not registered", e.MachineID, e.Kind)
}

func (e *UnregisteredKindError) Is(target error) bool {
	return target == ErrUnregisteredEventKind
}

// NoTransitionError is returned by StatefulMachine.Send when nothing is
// registered for the current state and the event's kind.
type NoTransitionError struct {
	MachineID string
	State     string
	Kind      Kind
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("machine %s: no transition from state %s for event kind %s", e.MachineID, e.State, e.Kind)
}

func (e *NoTransitionError) Is(target error) bool {
	return target == ErrNoTransition
}

func IsUnregisteredKindError(err error) bool {
	var e *UnregisteredKindError
	return errors.As(err, &e)
}

func IsNoTransitionError(err error) bool {
	var e *NoTransitionError
	return errors.As(err, &e)
}
