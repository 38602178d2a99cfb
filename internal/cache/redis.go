package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// FlightCache holds the full flight listing together with a version that
// every invalidation bumps. GetFlights reports the version even on a miss,
// and SetFlights drops a listing whose version is no longer current.
type FlightCache interface {
	GetFlights(ctx context.Context) ([]*entity.Flight, int64, error)
	SetFlights(ctx context.Context, version int64, flights []*entity.Flight) error
	InvalidateFlights(ctx context.Context) error
}

const (
	flightsKey        = "cache:flights"
	flightsVersionKey = "cache:flights:version"
)

var errStaleFlights = errors.New("flight listing is stale")

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
	log        *zap.Logger
}

func NewRedisCache(client *redis.Client, flightsTTL time.Duration, log *zap.Logger) *RedisCache {
	return &RedisCache{
		client:     client,
		flightsTTL: flightsTTL,
		log:        log.With(zap.String("cache", "redis")),
	}
}

// Connect opens a client and pings it.
func Connect(ctx context.Context, cfg utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]*entity.Flight, int64, error) {
	vals, err := c.client.MGet(ctx, flightsKey, flightsVersionKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("get cached flights: %w", err)
	}

	var version int64
	if raw, ok := vals[1].(string); ok {
		if version, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, 0, fmt.Errorf("parse flight cache version %q: %w", raw, err)
		}
	}

	data, ok := vals[0].(string)
	if !ok {
		return nil, version, nil
	}

	var flights []*entity.Flight
	if err := json.Unmarshal([]byte(data), &flights); err != nil {
		c.log.Warn("Dropping unreadable flight cache entry", zap.Error(err))
		return nil, version, nil
	}
	return flights, version, nil
}

// SetFlights stores the listing only while the version key still reads
// version; the check and the write run under WATCH.
func (c *RedisCache) SetFlights(ctx context.Context, version int64, flights []*entity.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return fmt.Errorf("encode flights: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, flightsVersionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleFlights
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, flightsKey, payload, c.flightsTTL)
			return nil
		})
		return err
	}, flightsVersionKey)

	if errors.Is(err, errStaleFlights) || errors.Is(err, redis.TxFailedErr) {
		c.log.Debug("Skipped caching a stale flight listing", zap.Int64("version", version))
		return nil
	}
	if err != nil {
		return fmt.Errorf("cache flights: %w", err)
	}
	return nil
}

func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, flightsVersionKey)
		pipe.Del(ctx, flightsKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate cached flights: %w", err)
	}
	return nil
}

// Nop never stores anything; used when REDIS_ADDR is empty.
type Nop struct{}

func (Nop) GetFlights(context.Context) ([]*entity.Flight, int64, error) { return nil, 0, nil }
func (Nop) SetFlights(context.Context, int64, []*entity.Flight) error  { return nil }
func (Nop) InvalidateFlights(context.Context) error                    { return nil }
