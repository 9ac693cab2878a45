package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// subscriberBuffer bounds each subscriber channel. A subscriber that falls
// this far behind starts losing events rather than stalling the write path.
const subscriberBuffer = 64

// Bus is the in-process fan-out point for notification events. The write path
// emits here; monitors subscribe to the kinds they care about.
//
// Emit never blocks on a slow subscriber: delivery to a full channel is
// dropped and counted. The ledger, not the bus, is the source of truth; a
// missed notification is an observability gap, not data loss.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	dropped     atomic.Uint64
}

type subscriber struct {
	kinds map[Kind]struct{}
	ch    chan Event
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[*subscriber]struct{})}
}

// Subscribe registers interest in the given kinds (all kinds when none are
// named) and returns the delivery channel plus a cancel function. Cancel must
// be called when the consumer stops reading.
func (b *Bus) Subscribe(kinds ...Kind) (<-chan Event, func()) {
	sub := &subscriber{
		kinds: make(map[Kind]struct{}, len(kinds)),
		ch:    make(chan Event, subscriberBuffer),
	}
	for _, k := range kinds {
		sub.kinds[k] = struct{}{}
	}

	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[sub]; ok {
			delete(b.subscribers, sub)
			close(sub.ch)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

// Emit fans the event out to every matching subscriber. The timestamp is set
// if the caller left it zero.
func (b *Bus) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subscribers {
		if len(sub.kinds) > 0 {
			if _, ok := sub.kinds[event.Kind]; !ok {
				continue
			}
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
	return nil
}

// Dropped reports how many deliveries were discarded due to full subscriber
// channels.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
