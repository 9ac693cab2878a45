package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "boardcheck/pkg/domain"
)

func TestBus_SelectiveDelivery(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	alerts, cancelAlerts := bus.Subscribe(KindMinorAlert)
	defer cancelAlerts()
	everything, cancelAll := bus.Subscribe()
	defer cancelAll()

	requester := id.NewRequesterID()
	require.NoError(t, bus.Emit(ctx, Event{Kind: KindEvaluationCompleted, Requester: requester}))
	require.NoError(t, bus.Emit(ctx, Event{Kind: KindMinorAlert, Requester: requester, Age: 14}))

	// Alert subscriber sees only the minor alert.
	got := <-alerts
	assert.Equal(t, KindMinorAlert, got.Kind)
	assert.Equal(t, 14, got.Age)
	select {
	case extra := <-alerts:
		t.Fatalf("unexpected extra event: %v", extra.Kind)
	default:
	}

	// Unfiltered subscriber sees both, in order.
	first := <-everything
	second := <-everything
	assert.Equal(t, KindEvaluationCompleted, first.Kind)
	assert.Equal(t, KindMinorAlert, second.Kind)
}

func TestBus_SetsTimestamp(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(KindEvaluationCompleted)
	defer cancel()

	require.NoError(t, bus.Emit(context.Background(), Event{Kind: KindEvaluationCompleted}))
	got := <-ch
	assert.False(t, got.Timestamp.IsZero())

	fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, bus.Emit(context.Background(), Event{Kind: KindEvaluationCompleted, Timestamp: fixed}))
	got = <-ch
	assert.Equal(t, fixed, got.Timestamp)
}

func TestBus_DropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()
	_, cancel := bus.Subscribe(KindEvaluationCompleted)
	defer cancel()

	// Nobody reads: the buffer fills, then deliveries are dropped.
	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, bus.Emit(context.Background(), Event{Kind: KindEvaluationCompleted}))
	}
	assert.Equal(t, uint64(5), bus.Dropped())
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(KindEvaluationCompleted)
	cancel()

	require.NoError(t, bus.Emit(context.Background(), Event{Kind: KindEvaluationCompleted}))
	_, open := <-ch
	assert.False(t, open, "channel should be closed after cancel")

	// Double cancel is a no-op.
	cancel()
}

type recordingSink struct {
	events []Event
	fail   bool
}

func (s *recordingSink) Publish(_ context.Context, event Event) error {
	if s.fail {
		return errors.New("sink down")
	}
	s.events = append(s.events, event)
	return nil
}

func TestWorker_ForwardsToSink(t *testing.T) {
	sink := &recordingSink{}
	inbox := make(chan Event, 4)
	worker := NewWorker(sink, inbox, nil)

	inbox <- Event{Kind: KindEvaluationCompleted}
	inbox <- Event{Kind: KindMinorAlert}
	close(inbox)

	err := worker.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sink.events, 2)
	assert.Equal(t, KindEvaluationCompleted, sink.events[0].Kind)
	assert.Equal(t, KindMinorAlert, sink.events[1].Kind)
}

func TestWorker_SurvivesSinkFailure(t *testing.T) {
	sink := &recordingSink{fail: true}
	inbox := make(chan Event, 1)
	worker := NewWorker(sink, inbox, nil)

	inbox <- Event{Kind: KindEvaluationCompleted}
	close(inbox)

	// A failing sink must not abort the worker loop.
	require.NoError(t, worker.Run(context.Background()))
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	worker := NewWorker(&recordingSink{}, make(chan Event), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
