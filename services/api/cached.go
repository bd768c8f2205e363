package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"stationcal/models"
	"stationcal/utils"
)

// Source is the full set of remote operations the stores consume.
type Source interface {
	GetStations(ctx context.Context, query string) ([]models.Station, error)
	GetBooking(ctx context.Context, stationID, bookingID string) (models.Booking, error)
	UpdateBooking(ctx context.Context, stationID, bookingID string, dates models.DateRange) (models.Booking, error)
}

// Cache is the subset of redis commands the cached client uses. *redis.Client satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// CachedClient keeps station lists in redis. Cache failures fall through to the wrapped source.
type CachedClient struct {
	next   Source
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedClient(next Source, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClient{next: next, cache: cache, ttl: ttl, logger: logger}
}

func stationsKey(query string) string {
	return utils.StationsCachePrefix + query
}

func (c *CachedClient) GetStations(ctx context.Context, query string) ([]models.Station, error) {
	key := stationsKey(query)

	raw, err := c.cache.Get(ctx, key).Bytes()
	if err == nil {
		var stations []models.Station
		if jerr := json.Unmarshal(raw, &stations); jerr == nil {
			return stations, nil
		}
		c.logger.Warn("GetStations: corrupt cache entry", zap.String("key", key))
	} else if err != redis.Nil {
		c.logger.Warn("GetStations: cache read failed", zap.String("key", key), zap.Error(err))
	}

	stations, err := c.next.GetStations(ctx, query)
	if err != nil {
		return nil, err
	}

	if data, jerr := json.Marshal(stations); jerr == nil {
		if serr := c.cache.Set(ctx, key, data, c.ttl).Err(); serr != nil {
			c.logger.Warn("GetStations: cache write failed", zap.String("key", key), zap.Error(serr))
		}
	}
	return stations, nil
}

func (c *CachedClient) GetBooking(ctx context.Context, stationID, bookingID string) (models.Booking, error) {
	return c.next.GetBooking(ctx, stationID, bookingID)
}

// UpdateBooking forwards the update and drops every cached station list on success.
func (c *CachedClient) UpdateBooking(ctx context.Context, stationID, bookingID string, dates models.DateRange) (models.Booking, error) {
	b, err := c.next.UpdateBooking(ctx, stationID, bookingID, dates)
	if err != nil {
		return b, err
	}
	c.invalidate(ctx)
	return b, nil
}

func (c *CachedClient) invalidate(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := c.cache.Scan(ctx, cursor, utils.StationsCachePrefix+"*", 100).Result()
		if err != nil {
			c.logger.Warn("invalidate: cache scan failed", zap.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := c.cache.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("invalidate: cache delete failed", zap.Error(err))
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
