package typedfsm

import (
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"github.com/comalice/typedfsm/metrics"
)

// Logger is used by machines built without WithLogger.
var Logger = slog.Default()

// Option configures a Machine or StatefulMachine at construction.
type Option func(*options)

type options struct {
	id        string
	logger    *slog.Logger
	metrics   *metrics.Dispatch
	publisher Publisher
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = Logger
	}
	o.logger = o.logger.With(slog.String("machine_id", o.id))
	return o
}

// WithID names the machine. Without it a random UUID is used.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithLogger sets the logger used for dispatch diagnostics. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records dispatch counters and latencies.
func WithMetrics(m *metrics.Dispatch) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithPublisher sends a Record for every completed dispatch. A nil publisher,
// including a nil pointer of a concrete publisher type, is ignored.
func WithPublisher(p Publisher) Option {
	return func(o *options) {
		if !isNil(p) {
			o.publisher = p
		}
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
