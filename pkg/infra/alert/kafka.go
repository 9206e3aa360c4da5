package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/estatewise/sentinel/pkg/guardrail"
)

const kafkaSinkName = "kafka"

// KafkaSink produces escalation events onto a topic for downstream security
// tooling.
type KafkaSink struct {
	topic    string
	producer *kafka.Producer
}

func NewKafkaSink(host, port, topic string) (*KafkaSink, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", host, port),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &KafkaSink{topic: topic, producer: producer}, nil
}

func (s *KafkaSink) Name() string {
	return kafkaSinkName
}

func (s *KafkaSink) Send(ctx context.Context, evt *guardrail.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.topic, Partition: kafka.PartitionAny},
		Value:          data,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce alert: %w", err)
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected kafka event type %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("alert delivery failed: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *KafkaSink) Close() {
	s.producer.Flush(5000)
	s.producer.Close()
}
