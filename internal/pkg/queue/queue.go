package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Queue is the redis-backed tracking queue. Business-event producers
// push interaction events here instead of writing to the log inline,
// so a slow or failing store can never block a booking or a join.
type Queue struct {
	client    *redis.Client
	queueName string
}

// TrackMessage is one queued interaction event
type TrackMessage struct {
	UserA           int64                  `json:"user_a"`
	UserB           int64                  `json:"user_b"`
	EntityType      string                 `json:"entity_type"`
	InteractionType string                 `json:"interaction_type"`
	Category        string                 `json:"category"`
	EntityID        int64                  `json:"entity_id"`
	EntityTitle     string                 `json:"entity_title"`
	Date            *time.Time             `json:"date,omitempty"`
	Rating          *int                   `json:"rating,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push enqueues one tracking event
func (q *Queue) Push(ctx context.Context, msg *TrackMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal track message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop dequeues one tracking event, blocking up to timeout. Returns
// nil, nil when the queue stays empty.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*TrackMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg TrackMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal track message: %w", err)
	}
	return &msg, nil
}

// Len returns the number of pending events
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
