package typedfsm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/typedfsm"
	"github.com/comalice/typedfsm/publish"
	"github.com/comalice/typedfsm/testutil"
)

func toggle(t *testing.T, rec *testutil.Recorder[wrapper], opts ...typedfsm.Option) *typedfsm.StatefulMachine[state, wrapper] {
	t.Helper()
	b := typedfsm.NewStatefulBuilder[state, wrapper]()
	typedfsm.From[datalessEvent](b, stateA, stateB, rec.Action("a->b"))
	typedfsm.From[dataEvent](b, stateB, stateA, rec.Action("b->a"), rec.Action("audit"))
	m, err := b.Build(stateA, opts...)
	require.NoError(t, err)
	return m
}

func TestStatefulMachine_CommitsTarget(t *testing.T) {
	ctx := context.Background()
	rec := testutil.NewRecorder[wrapper]()
	m := toggle(t, rec)

	got, err := m.Send(ctx, datalessEvent{})
	require.NoError(t, err)
	assert.Equal(t, stateB, got)
	assert.Equal(t, stateB, m.Current())
	assert.Equal(t, uint64(1), m.Sequence())

	got, err = m.Send(ctx, dataEvent{Number: 3})
	require.NoError(t, err)
	assert.Equal(t, stateA, got)
	assert.Equal(t, stateA, m.Current())
	assert.Equal(t, uint64(2), m.Sequence())

	assert.Equal(t, []string{"a->b", "b->a", "audit"}, rec.Names())
	assert.Equal(t, dataEvent{Number: 3}, rec.Calls()[1].Event)
}

func TestStatefulMachine_NoTransition(t *testing.T) {
	rec := testutil.NewRecorder[wrapper]()
	m := toggle(t, rec, typedfsm.WithID("toggle"))

	assert.False(t, m.Can(dataEvent{}))
	got, err := m.Send(context.Background(), dataEvent{})
	require.Error(t, err)
	assert.ErrorIs(t, err, typedfsm.ErrNoTransition)
	assert.True(t, typedfsm.IsNoTransitionError(err))
	assert.False(t, typedfsm.IsUnregisteredKindError(err))

	var nerr *typedfsm.NoTransitionError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "toggle", nerr.MachineID)
	assert.Equal(t, "StateA", nerr.State)
	assert.Equal(t, typedfsm.KindOf[dataEvent](), nerr.Kind)

	assert.Equal(t, stateA, got)
	assert.Equal(t, stateA, m.Current())
	assert.Zero(t, m.Sequence())
	assert.Empty(t, rec.Calls())
}

func TestStatefulMachine_Reset(t *testing.T) {
	m := toggle(t, testutil.NewRecorder[wrapper]())
	_, err := m.Send(context.Background(), datalessEvent{})
	require.NoError(t, err)

	m.Reset()
	assert.Equal(t, stateA, m.Current())
	assert.Zero(t, m.Sequence())
	assert.True(t, m.Can(datalessEvent{}))
}

func TestStatefulMachine_SnapshotRestore(t *testing.T) {
	m := toggle(t, testutil.NewRecorder[wrapper](), typedfsm.WithID("one"))
	_, err := m.Send(context.Background(), datalessEvent{})
	require.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, "one", snap.MachineID)
	assert.Equal(t, stateB, snap.State)
	assert.Equal(t, uint64(1), snap.Sequence)

	same := toggle(t, testutil.NewRecorder[wrapper](), typedfsm.WithID("one"))
	require.NoError(t, same.Restore(snap))
	assert.Equal(t, stateB, same.Current())
	assert.Equal(t, uint64(1), same.Sequence())

	other := toggle(t, testutil.NewRecorder[wrapper](), typedfsm.WithID("two"))
	assert.ErrorIs(t, other.Restore(snap), typedfsm.ErrMachineMismatch)
	assert.Equal(t, stateA, other.Current())
}

func TestStatefulBuilder_Errors(t *testing.T) {
	b := typedfsm.NewStatefulBuilder[state, wrapper]()
	typedfsm.From[dataEvent](b, stateA, stateB)
	typedfsm.From[dataEvent](b, stateB, stateA) // different source, fine
	_, err := b.Build(stateA)
	require.NoError(t, err)

	typedfsm.From[dataEvent](b, stateA, stateA)
	typedfsm.From[typedfsm.Event[wrapper]](b, stateA, stateB)
	_, err = b.Build(stateA)
	assert.ErrorIs(t, err, typedfsm.ErrDuplicateTransition)
	assert.ErrorIs(t, err, typedfsm.ErrInterfaceKind)
}

func TestStatefulMachine_Describe(t *testing.T) {
	d := toggle(t, testutil.NewRecorder[wrapper](), typedfsm.WithID("toggle")).Describe()

	assert.Equal(t, typedfsm.Description{
		MachineID: "toggle",
		Current:   "StateA",
		Edges: []typedfsm.Edge{
			{From: "StateA", Kind: "typedfsm_test.datalessEvent", To: "StateB", Actions: 1},
			{From: "StateB", Kind: "typedfsm_test.dataEvent", To: "StateA", Actions: 2},
		},
	}, d)
}

func TestStatefulMachine_PublishesSequence(t *testing.T) {
	ch := make(chan typedfsm.Record, 4)
	m := toggle(t, testutil.NewRecorder[wrapper](), typedfsm.WithPublisher(publish.NewChannelPublisher(ch)))

	ctx := context.Background()
	_, _ = m.Send(ctx, datalessEvent{})
	_, _ = m.Send(ctx, dataEvent{})
	_, _ = m.Send(ctx, dataEvent{}) // no transition, not published

	require.Len(t, ch, 2)
	first, second := <-ch, <-ch
	assert.Equal(t, uint64(1), first.Sequence)
	assert.Equal(t, "StateA", first.From)
	assert.Equal(t, "StateB", first.To)
	assert.Equal(t, uint64(2), second.Sequence)
	assert.Equal(t, "StateA", second.To)
}
