package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ChannelPattern matches every session channel.
	ChannelPattern = "session-*"

	presenceTTL = 24 * time.Hour
)

// Envelope is the Redis wire form of one session event.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// leaveScript decrements a user's connection count and drops the field at zero.
var leaveScript = redis.NewScript(`
local n = redis.call("HINCRBY", KEYS[1], ARGV[1], -1)
if n <= 0 then
  redis.call("HDEL", KEYS[1], ARGV[1])
end
return n
`)

// Redis publishes session events over Redis Pub/Sub so every instance can
// relay them to its own sockets. Presence lives in a hash of
// user id -> open connection count, shared across instances.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func presenceKey(channel string) string {
	return "presence:" + channel
}

func (r *Redis) Publish(ctx context.Context, channel, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	data, err := json.Marshal(Envelope{Event: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := r.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s on %s: %w", event, channel, err)
	}
	return nil
}

func (r *Redis) Subscribers(ctx context.Context, channel string) ([]string, error) {
	ids, err := r.client.HKeys(ctx, presenceKey(channel)).Result()
	if err != nil {
		return nil, fmt.Errorf("presence %s: %w", channel, err)
	}
	return ids, nil
}

// Join counts one more open connection for userID.
func (r *Redis) Join(ctx context.Context, channel string, userID int64) error {
	key := presenceKey(channel)
	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, key, strconv.FormatInt(userID, 10), 1)
	pipe.Expire(ctx, key, presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence join %s: %w", channel, err)
	}
	return nil
}

// Leave drops one connection for userID.
func (r *Redis) Leave(ctx context.Context, channel string, userID int64) error {
	err := leaveScript.Run(ctx, r.client, []string{presenceKey(channel)}, strconv.FormatInt(userID, 10)).Err()
	if err != nil {
		return fmt.Errorf("presence leave %s: %w", channel, err)
	}
	return nil
}
