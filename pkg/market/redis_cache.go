package market

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPriceCache mirrors clearing prices into redis so that out-of-process
// readers can look up the last price without touching the exchange.
type RedisPriceCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisPriceCache(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisPriceCache {
	if keyPrefix == "" {
		keyPrefix = "price"
	}
	return &RedisPriceCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisPriceCache) key(symbol string) string {
	return fmt.Sprintf("%s:%s", c.keyPrefix, symbol)
}

func (c *RedisPriceCache) SetPrice(ctx context.Context, symbol string, price float64) error {
	return c.client.Set(ctx, c.key(symbol), price, c.ttl).Err()
}

func (c *RedisPriceCache) GetPrice(ctx context.Context, symbol string) (float64, error) {
	return c.client.Get(ctx, c.key(symbol)).Float64()
}
