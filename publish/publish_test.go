package publish

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/typedfsm"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan typedfsm.Record, 10)
	p := NewChannelPublisher(ch)

	rec := typedfsm.Record{MachineID: "m", Kind: "main.Ping", From: "idle", To: "busy", Actions: 2}
	require.NoError(t, p.Publish(context.Background(), rec))

	select {
	case got := <-ch:
		assert.Equal(t, rec, got)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no record delivered")
	}
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan typedfsm.Record, 1)
	p := NewChannelPublisher(ch)
	ch <- typedfsm.Record{} // fill buffer

	assert.NoError(t, p.Publish(context.Background(), typedfsm.Record{Kind: "dropped"}))
	assert.Len(t, ch, 1)
}

func TestChannelPublisher_Close(t *testing.T) {
	ch := make(chan typedfsm.Record, 1)
	p := NewChannelPublisher(ch)

	require.NoError(t, p.Close())
	_, open := <-ch
	assert.False(t, open)

	assert.ErrorIs(t, p.Publish(context.Background(), typedfsm.Record{Kind: "late"}), ErrPublisherClosed)
	assert.ErrorIs(t, p.Close(), ErrPublisherClosed)
}

func TestChannelPublisher_ConcurrentPublishAndClose(t *testing.T) {
	ch := make(chan typedfsm.Record, 64)
	p := NewChannelPublisher(ch)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				err := p.Publish(context.Background(), typedfsm.Record{Kind: "k"})
				if err != nil {
					assert.ErrorIs(t, err, ErrPublisherClosed)
				}
			}
		}()
	}
	require.NoError(t, p.Close())
	wg.Wait()
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, p.Publish(context.Background(), typedfsm.Record{MachineID: "m", Kind: "main.Ping", To: "busy"}))
	assert.Contains(t, buf.String(), `"kind":"main.Ping"`)
	assert.Contains(t, buf.String(), `"to":"busy"`)
}

type failing struct{ err error }

func (f failing) Publish(context.Context, typedfsm.Record) error { return f.err }

func TestMulti(t *testing.T) {
	ch := make(chan typedfsm.Record, 1)
	boom := errors.New("boom")
	m := Multi{failing{err: boom}, NewChannelPublisher(ch)}

	err := m.Publish(context.Background(), typedfsm.Record{Kind: "k"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, ch, 1, "later publishers still receive the record")
}
