// Package metrics exposes Prometheus collectors for machine dispatch.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Values of the result label.
const (
	ResultOK      = "ok"
	ResultNoMatch = "no_match"
)

const (
	namespace = "typedfsm"
	subsystem = "dispatch"

	labelMachine = "machine"
	labelKind    = "kind"
	labelResult  = "result"
)

// Dispatch holds the collectors of one registry. A nil *Dispatch records
// nothing, so machines built without metrics pay only a nil check.
type Dispatch struct {
	sends    *prometheus.CounterVec
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Dispatch, error) {
	d := &Dispatch{
		sends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sends_total",
				Help:      "Total number of events sent, by result",
			},
			[]string{labelMachine, labelKind, labelResult},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "actions_total",
				Help:      "Total number of actions invoked",
			},
			[]string{labelMachine, labelKind},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duration_seconds",
				Help:      "Duration of a send including its actions, in seconds",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{labelMachine, labelKind},
		),
	}

	for _, c := range []prometheus.Collector{d.sends, d.actions, d.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register dispatch metrics: %w", err)
		}
	}
	return d, nil
}

// MustNew is like New but panics on registration failure.
func MustNew(reg prometheus.Registerer) *Dispatch {
	d, err := New(reg)
	if err != nil {
		panic(err)
	}
	return d
}

// ObserveSend counts a send and records its duration when it matched.
func (d *Dispatch) ObserveSend(machine, kind string, matched bool, elapsed time.Duration) {
	if d == nil {
		return
	}
	result := ResultOK
	if !matched {
		result = ResultNoMatch
	}
	d.sends.WithLabelValues(machine, kind, result).Inc()
	if matched {
		d.duration.WithLabelValues(machine, kind).Observe(elapsed.Seconds())
	}
}

// ObserveActions adds n invoked actions.
func (d *Dispatch) ObserveActions(machine, kind string, n int) {
	if d == nil {
		return
	}
	d.actions.WithLabelValues(machine, kind).Add(float64(n))
}

// Sends returns the counter for one label combination. Intended for tests
// and diagnostics.
func (d *Dispatch) Sends(machine, kind, result string) prometheus.Counter {
	return d.sends.WithLabelValues(machine, kind, result)
}

// Actions returns the actions counter for one label combination.
func (d *Dispatch) Actions(machine, kind string) prometheus.Counter {
	return d.actions.WithLabelValues(machine, kind)
}
