package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// Cache keeps serialized quiz snapshots in Redis so session creation does not
// hit Postgres for popular quizzes.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ SnapshotCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(quizID int64) string {
	return "quiz:" + strconv.FormatInt(quizID, 10) + ":snapshot"
}

// Get returns (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, quizID int64) (*Quiz, error) {
	data, err := c.client.Get(ctx, c.key(quizID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var q Quiz
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *Cache) Set(ctx context.Context, q Quiz) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(q.ID), data, c.ttl).Err()
}

// Delete evicts the snapshot of quizID. A missing key is not an error.
func (c *Cache) Delete(ctx context.Context, quizID int64) error {
	return c.client.Del(ctx, c.key(quizID)).Err()
}
