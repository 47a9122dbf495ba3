package typedfsm

import (
	"context"
	"log/slog"
	"time"
)

// Record describes one completed dispatch.
type Record struct {
	MachineID string    `json:"machineID" yaml:"machineID"`
	Kind      string    `json:"kind" yaml:"kind"`
	From      string    `json:"from" yaml:"from"`
	To        string    `json:"to" yaml:"to"`
	Actions   int       `json:"actions" yaml:"actions"`
	Sequence  uint64    `json:"sequence" yaml:"sequence"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Publisher receives a Record after the actions of a dispatch have run.
// Errors are logged by the machine and never fail the dispatch.
type Publisher interface {
	Publish(ctx context.Context, rec Record) error
}

func (o *options) publish(ctx context.Context, rec Record) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.Publish(ctx, rec); err != nil {
		o.logger.WarnContext(ctx, "publish dispatch record",
			slog.String("kind", rec.Kind),
			slog.Any("error", err),
		)
	}
}
