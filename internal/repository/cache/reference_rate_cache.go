// Package cache provides a Redis read-through layer over the reference-rate
// repository. Calculator traffic hits the reference-rate table on every
// package evaluation; the cache keeps that off Postgres between admin
// updates.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	referenceRatesKey = "reference_rates"
	defaultTTL        = 15 * time.Minute
)

// ReferenceRateCache wraps a ReferenceRateRepository with a Redis
// read-through cache. Cache failures degrade to direct reads.
type ReferenceRateCache struct {
	client *redis.Client
	repo   domain.ReferenceRateRepository
	ttl    time.Duration
}

// NewReferenceRateCache connects to Redis at addr (redis://[:password@]host:port[/db])
// and wraps repo. The connection is verified with a ping.
func NewReferenceRateCache(addr string, repo domain.ReferenceRateRepository) (*ReferenceRateCache, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	var password string
	if u.User != nil {
		password, _ = u.User.Password()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     u.Host,
		Password: password,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &ReferenceRateCache{client: client, repo: repo, ttl: defaultTTL}, nil
}

// GetAll returns the cached reference-rate table, falling back to the
// underlying repository on a miss or cache error.
func (c *ReferenceRateCache) GetAll() ([]*domain.ReferenceRate, error) {
	ctx := context.Background()

	data, err := c.client.Get(ctx, referenceRatesKey).Bytes()
	if err == nil {
		var rates []*domain.ReferenceRate
		if err := json.Unmarshal(data, &rates); err == nil {
			return rates, nil
		}
		log.Warn().Err(err).Msg("Discarding undecodable reference-rate cache entry")
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("Reference-rate cache read failed, falling back to database")
	}

	rates, err := c.repo.GetAll()
	if err != nil {
		return nil, err
	}
	c.store(ctx, rates)
	return rates, nil
}

// Upsert writes through to the repository and invalidates the cached table.
func (c *ReferenceRateCache) Upsert(rateType string, value decimal.Decimal) (*domain.ReferenceRate, error) {
	rate, err := c.repo.Upsert(rateType, value)
	if err != nil {
		return nil, err
	}
	if err := c.client.Del(context.Background(), referenceRatesKey).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate reference-rate cache")
	}
	return rate, nil
}

// Close releases the Redis connection
func (c *ReferenceRateCache) Close() error {
	return c.client.Close()
}

func (c *ReferenceRateCache) store(ctx context.Context, rates []*domain.ReferenceRate) {
	data, err := json.Marshal(rates)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal reference rates for caching")
		return
	}
	if err := c.client.Set(ctx, referenceRatesKey, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to cache reference rates")
	}
}
