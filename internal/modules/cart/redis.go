package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cart:"

// RedisPersister stores each cart as one JSON value with a sliding TTL.
type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPersister(client *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, ttl: ttl}
}

func (p *RedisPersister) Load(ctx context.Context, owner string) ([]Line, error) {
	raw, err := p.client.Get(ctx, keyPrefix+owner).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		// A corrupt cart is dropped rather than blocking the shopper.
		return nil, nil
	}
	return lines, nil
}

func (p *RedisPersister) Save(ctx context.Context, owner string, lines []Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := p.client.Set(ctx, keyPrefix+owner, raw, p.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (p *RedisPersister) Delete(ctx context.Context, owner string) error {
	if err := p.client.Del(ctx, keyPrefix+owner).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
