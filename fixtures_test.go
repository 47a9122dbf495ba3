package typedfsm_test

import (
	"context"
	"fmt"

	"github.com/comalice/typedfsm"
)

type state string

const (
	stateA state = "StateA"
	stateB state = "StateB"
)

type wrapper interface{ isWrapper() }

type dataEvent struct {
	Number uint8
	String string
}

func (dataEvent) isWrapper() {}

func (e dataEvent) Wrap() wrapper { return e }

type datalessEvent struct{}

func (datalessEvent) isWrapper() {}

func (e datalessEvent) Wrap() wrapper { return e }

// diagnostics returns the two actions of the reference table, writing what
// they observe to out.
func diagnostics(out *[]string) (processData, processDataless typedfsm.Action[wrapper]) {
	processData = typedfsm.Match(
		func(_ context.Context, e dataEvent) {
			*out = append(*out, fmt.Sprintf("We received an event! data: %d, %s", e.Number, e.String))
		},
		func(context.Context, wrapper) {
			*out = append(*out, "*** BEEP ***")
		},
	)
	processDataless = typedfsm.Match(
		func(context.Context, datalessEvent) {
			*out = append(*out, "No data in this event, but we got it!")
		},
		func(context.Context, wrapper) {
			*out = append(*out, "--- BOOP ---")
		},
	)
	return processData, processDataless
}
