package broadcast

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/gokatarajesh/quiz-live/pkg/http/ws"
)

// Relay forwards session events from Redis Pub/Sub to local WebSocket subscribers.
type Relay struct {
	redis   *redis.Client
	hub     *ws.Hub
	pattern string
	logger  zerolog.Logger
}

func NewRelay(client *redis.Client, hub *ws.Hub, logger zerolog.Logger) *Relay {
	return &Relay{
		redis:   client,
		hub:     hub,
		pattern: ChannelPattern,
		logger:  logger.With().Str("component", "broadcast_relay").Logger(),
	}
}

// Run subscribes to every session channel and blocks until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r.redis == nil || r.hub == nil {
		return nil
	}

	sub := r.redis.PSubscribe(ctx, r.pattern)
	defer sub.Close()

	// wait for the subscription to be confirmed before relaying
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(msg.Channel, msg.Payload)
		}
	}
}

func (r *Relay) forward(channel, payload string) {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.logger.Warn().Err(err).Str("channel", channel).Msg("failed to decode session event")
		return
	}
	msg := ws.Message{Type: env.Event, Payload: env.Payload}
	if err := r.hub.Publish(channel, msg); err != nil {
		r.logger.Debug().Err(err).Str("channel", channel).Str("event", env.Event).Msg("relay delivery incomplete")
	}
}
