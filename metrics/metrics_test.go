package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_ObserveSend(t *testing.T) {
	reg := prometheus.NewRegistry()
	d, err := New(reg)
	require.NoError(t, err)

	d.ObserveSend("m1", "main.Ping", true, time.Millisecond)
	d.ObserveSend("m1", "main.Ping", true, time.Millisecond)
	d.ObserveSend("m1", "main.Pong", false, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(d.Sends("m1", "main.Ping", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(d.Sends("m1", "main.Pong", ResultNoMatch)))
	assert.Equal(t, 0.0, testutil.ToFloat64(d.Sends("m1", "main.Pong", ResultOK)))
}

func TestDispatch_ObserveActions(t *testing.T) {
	d := MustNew(prometheus.NewRegistry())

	d.ObserveActions("m1", "main.Ping", 2)
	d.ObserveActions("m1", "main.Ping", 3)

	assert.Equal(t, 5.0, testutil.ToFloat64(d.Actions("m1", "main.Ping")))
}

func TestDispatch_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew(reg) })
}

func TestDispatch_Nil(t *testing.T) {
	var d *Dispatch
	assert.NotPanics(t, func() {
		d.ObserveSend("m", "k", true, time.Second)
		d.ObserveActions("m", "k", 1)
	})
}
