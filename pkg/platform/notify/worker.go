package notify

import (
	"context"
	"log/slog"
)

// Sink is any destination for notification events.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker drains a subscription channel into a sink. It decouples the HTTP
// write path from sink latency: the service emits to the in-process bus and
// the worker forwards to Kafka (or any other sink) in the background.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run forwards events until the context is canceled or the inbox closes.
// Publish failures are logged and skipped; the ledger already holds the
// record, so a lost notification must not stop the worker.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.sink.Publish(ctx, event); err != nil {
				if w.logger != nil {
					w.logger.ErrorContext(ctx, "notification publish failed",
						"kind", event.Kind,
						"requester_id", event.Requester,
						"error", err,
					)
				}
			}
		}
	}
}
