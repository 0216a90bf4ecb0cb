package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
)

const DefaultKeyPrefix = "eventapi:event:"

// Client caches events as JSON under prefix+id.
type Client struct {
	rdb    *redis.Client
	prefix string
}

type Option func(*Client)

func WithKeyPrefix(prefix string) Option {
	return func(c *Client) { c.prefix = prefix }
}

func New(url string, opts ...Option) (*Client, error) {
	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	c := &Client{rdb: redis.NewClient(ro), prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		_ = c.rdb.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Close() error { return c.rdb.Close() }

func (c *Client) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *Client) Key(id string) string { return c.prefix + id }

// GetEvent reports found=false on a miss. A value that no longer decodes as
// an event is dropped and reported as a miss together with the decode error.
func (c *Client) GetEvent(ctx context.Context, id string) (domain.Event, bool, error) {
	key := c.Key(id)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Event{}, false, nil
	}
	if err != nil {
		return domain.Event{}, false, err
	}

	var e domain.Event
	if err := json.Unmarshal(raw, &e); err != nil || e.ID != id {
		_ = c.rdb.Del(ctx, key).Err()
		if err == nil {
			err = fmt.Errorf("cached id %q under key %q", e.ID, key)
		}
		return domain.Event{}, false, fmt.Errorf("decode cached event: %w", err)
	}
	return e, true, nil
}

func (c *Client) SetEvent(ctx context.Context, e domain.Event, ttl time.Duration) error {
	if e.ID == "" {
		return errors.New("cache: event without id")
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.Key(e.ID), b, ttl).Err()
}

func (c *Client) DeleteEvents(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.Key(id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
