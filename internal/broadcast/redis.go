package broadcast

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/tadikamesra/tadika-mesra/internal/logger"
	"github.com/tadikamesra/tadika-mesra/internal/models"
)

// RedisPublisher publishes post events to a Redis pub/sub channel.
// Running the bus through Redis lets every service instance fan the event
// out to its own websocket clients.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher for the given channel.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish marshals the event and publishes it. Subscribers that are not
// connected at publish time never see the event.
func (p *RedisPublisher) Publish(ctx context.Context, ev models.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Errorw("failed to marshal event", "event", ev.Event, "error", err)
		return err
	}

	err = p.client.Publish(ctx, p.channel, data).Err()

	logger.Log.Infow(
		"event published",
		"channel", p.channel,
		"event", ev.Event,
		"error", err,
	)

	return err
}

// Relay subscribes to the Redis channel and forwards every received event
// to the local hub.
type Relay struct {
	client  *redis.Client
	channel string
	hub     *Hub
}

// NewRelay creates a relay between the Redis channel and the hub.
func NewRelay(client *redis.Client, channel string, hub *Hub) *Relay {
	return &Relay{client: client, channel: channel, hub: hub}
}

// Run consumes the subscription until the context is canceled. Messages
// that fail to decode are logged and skipped.
func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
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

			var ev models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Log.Errorw("failed to decode relayed event", "payload", msg.Payload, "error", err)
				continue
			}

			r.hub.Publish(ev)
		}
	}
}
