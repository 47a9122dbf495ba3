package main

import (
	"context"
	"fmt"
)

type State int

const (
	StateA State = iota
	StateB
)

func (s State) String() string {
	switch s {
	case StateA:
		return "StateA"
	case StateB:
		return "StateB"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EventWrapper is the closed set of events the demo machine accepts.
type EventWrapper interface{ isEventWrapper() }

type DataEvent struct {
	Number uint8
	String string
}

func (DataEvent) isEventWrapper() {}

func (e DataEvent) Wrap() EventWrapper { return e }

type DatalessEvent struct{}

func (DatalessEvent) isEventWrapper() {}

func (e DatalessEvent) Wrap() EventWrapper { return e }

func processDataEvent(_ context.Context, evt EventWrapper) {
	if e, ok := evt.(DataEvent); ok {
		fmt.Printf("We received an event! data: %d, %s\n", e.Number, e.String)
	} else {
		fmt.Println("*** BEEP ***")
	}
}

func processDatalessEvent(_ context.Context, evt EventWrapper) {
	if _, ok := evt.(DatalessEvent); ok {
		fmt.Println("No data in this event, but we got it!")
	} else {
		fmt.Println("--- BOOP ---")
	}
}
