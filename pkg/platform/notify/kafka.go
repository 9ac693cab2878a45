package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink publishes notification events to Kafka, one topic per kind, so
// monitors consume minor alerts without filtering the evaluation stream.
// Records are keyed by requester to preserve per-requester ordering within a
// partition.
type KafkaSink struct {
	client           *kgo.Client
	evaluationsTopic string
	alertsTopic      string
}

// KafkaConfig selects brokers and topics for the sink.
type KafkaConfig struct {
	Brokers          []string
	EvaluationsTopic string
	AlertsTopic      string
}

// NewKafkaSink connects a producer-only client. Topics are provisioned
// externally.
func NewKafkaSink(cfg KafkaConfig) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProducerBatchMaxBytes(1<<20),
		kgo.ProduceRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{
		client:           client,
		evaluationsTopic: cfg.EvaluationsTopic,
		alertsTopic:      cfg.AlertsTopic,
	}, nil
}

// kafkaPayload is the JSON wire shape of a notification event.
type kafkaPayload struct {
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
	Requester string `json:"requester_id"`
	Category  string `json:"category"`
	CanBoard  bool   `json:"can_board"`
	RequestID string `json:"request_id,omitempty"`
	Age       *int   `json:"age,omitempty"`
	Companion string `json:"companion,omitempty"`
}

// Publish produces the event synchronously. The write path has already
// committed to the ledger by the time this runs, so failures are surfaced for
// logging, never for rollback.
func (s *KafkaSink) Publish(ctx context.Context, event Event) error {
	payload := kafkaPayload{
		Kind:      string(event.Kind),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Requester: event.Requester.String(),
		Category:  event.Category,
		CanBoard:  event.CanBoard,
		RequestID: event.RequestID,
	}
	if event.Kind == KindMinorAlert {
		age := event.Age
		payload.Age = &age
		payload.Companion = event.Companion
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topicFor(event.Kind),
		Key:   []byte(event.Requester.String()),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce notification event: %w", err)
	}
	return nil
}

func (s *KafkaSink) topicFor(kind Kind) string {
	if kind == KindMinorAlert {
		return s.alertsTopic
	}
	return s.evaluationsTopic
}

// Close flushes buffered records and releases the client.
func (s *KafkaSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Flush(ctx); err != nil {
		s.client.Close()
		return err
	}
	s.client.Close()
	return nil
}
