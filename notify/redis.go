package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"wingo/events"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Publisher fans committed game events out to Redis pub/sub channels so
// gateway processes can push them to connected clients. Channels carry
// notifications only; clients re-fetch authoritative state over the API.
type Publisher struct {
	client *redis.Client
}

// NewPublisher connects to Redis using a URL like redis://host:6379/0
func NewPublisher(ctx context.Context, redisURL string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info("Connected to Redis")
	return &Publisher{client: client}, nil
}

// Close releases the Redis connection
func (p *Publisher) Close() error {
	return p.client.Close()
}

// ChannelFor returns the pub/sub channel carrying one event type
func ChannelFor(eventType events.EventType) string {
	return "wingo:events:" + string(eventType)
}

// AttachTo subscribes the publisher to every event type on the bus.
// Publish failures are logged and dropped; the channel is a notification
// path, not the source of truth.
func (p *Publisher) AttachTo(bus *events.Bus) {
	for _, eventType := range []events.EventType{
		events.EventTypeResultCreated,
		events.EventTypeBetPlaced,
		events.EventTypeBetSettled,
		events.EventTypeBalanceChange,
		events.EventTypeConfigChange,
	} {
		bus.Subscribe(eventType, p.handle)
	}
}

func (p *Publisher) handle(ctx context.Context, event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to encode event for redis")
		return
	}

	if err := p.client.Publish(ctx, ChannelFor(event.Type()), payload).Err(); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to publish event to redis")
	}
}
