// Package publish provides typedfsm.Publisher implementations.
package publish

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/comalice/typedfsm"
)

// ErrPublisherClosed is returned by ChannelPublisher after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// ChannelPublisher forwards records to a Go channel.
// Publish never blocks: records are dropped when the channel is full.
type ChannelPublisher struct {
	mu     sync.RWMutex
	ch     chan<- typedfsm.Record
	closed bool
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
// The publisher owns ch and closes it on Close.
func NewChannelPublisher(ch chan<- typedfsm.Record) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, rec typedfsm.Record) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.ch <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // drop
	}
}

// Close closes the output channel. Later calls to Publish or Close return
// ErrPublisherClosed.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}
	p.closed = true
	close(p.ch)
	return nil
}

// LogPublisher writes every record to a logger at Info level.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, rec typedfsm.Record) error {
	p.logger.InfoContext(ctx, "transition",
		slog.String("machine_id", rec.MachineID),
		slog.String("kind", rec.Kind),
		slog.String("from", rec.From),
		slog.String("to", rec.To),
		slog.Int("actions", rec.Actions),
		slog.Uint64("sequence", rec.Sequence),
	)
	return nil
}

// Multi fans a record out to several publishers and returns the first error.
// Every publisher is called even when an earlier one fails.
type Multi []typedfsm.Publisher

func (m Multi) Publish(ctx context.Context, rec typedfsm.Record) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}
