package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/estatewise/sentinel/pkg/guardrail"
	"github.com/go-redis/redis/v8"
)

const redisSinkName = "redis"

// RedisSink publishes escalation events on a pub/sub channel so sibling
// services can react without polling.
type RedisSink struct {
	channel string
	client  *redis.Client
}

func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	return &RedisSink{channel: channel, client: client}
}

func (s *RedisSink) Name() string {
	return redisSinkName
}

func (s *RedisSink) Send(ctx context.Context, evt *guardrail.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}
