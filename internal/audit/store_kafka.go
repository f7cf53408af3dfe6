package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"batchtrace/internal/platform/kafka/producer"
)

// KafkaStore appends entries to a Kafka topic. Entries are keyed by batch
// code so attempts against the same code land on one partition in order.
type KafkaStore struct {
	producer *producer.Producer
	topic    string
}

// NewKafkaStore creates a Kafka-backed audit sink.
func NewKafkaStore(p *producer.Producer, topic string) *KafkaStore {
	return &KafkaStore{producer: p, topic: topic}
}

func (s *KafkaStore) Append(ctx context.Context, entry Entry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(entry.BatchCode),
		Value: value,
		Headers: map[string]string{
			"outcome": string(entry.Outcome),
		},
	})
}
