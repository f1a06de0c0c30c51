package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/voisinage/voisin_go_server/internal/model/dto"
)

const (
	ChannelSuggestions = "suggestion_events"
)

// SuggestionMessage is pushed whenever a realtime suggestion round
// completes; the websocket bridge forwards it to the target user.
type SuggestionMessage struct {
	Type            string               `json:"type"`
	UserID          int64                `json:"user_id"`
	TriggerType     string               `json:"trigger_type"`
	TriggerCategory string               `json:"trigger_category"`
	Suggestions     []dto.SuggestionItem `json:"suggestions"`
}

// Publisher publishes suggestion events to redis
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishSuggestions publishes one realtime suggestion round
func (p *Publisher) PublishSuggestions(ctx context.Context, msg *SuggestionMessage) error {
	msg.Type = "realtime_suggestions"

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestion message: %w", err)
	}

	return p.client.Publish(ctx, ChannelSuggestions, data).Err()
}

// Subscriber consumes suggestion events from redis
type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe blocks and feeds every suggestion message to handler
// until the context is cancelled
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*SuggestionMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelSuggestions)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var suggestionMsg SuggestionMessage
			if err := json.Unmarshal([]byte(msg.Payload), &suggestionMsg); err != nil {
				continue // skip malformed payloads
			}

			handler(&suggestionMsg)
		}
	}
}
