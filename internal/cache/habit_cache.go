package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	dom "github.com/oriana-monaldi/Hamster-habits/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyListPrefix   = "habit:list:"
	keySearchPrefix = "habit:search:"
)

// HabitCache caches per-user habit list and search results in Redis.
type HabitCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewHabitCache returns a new HabitCache.
func NewHabitCache(rdb *redis.Client, ttl time.Duration) *HabitCache {
	return &HabitCache{rdb: rdb, ttl: ttl}
}

func listKey(userID int64) string {
	return keyListPrefix + strconv.FormatInt(userID, 10)
}

func searchKey(userID int64, q string) string {
	return keySearchPrefix + strconv.FormatInt(userID, 10) + ":" + normalizeQuery(q)
}

// GetList returns the cached list for userID or nil if miss.
func (c *HabitCache) GetList(ctx context.Context, userID int64) ([]dom.Habit, error) {
	return c.get(ctx, listKey(userID))
}

// SetList stores the list for userID in cache.
func (c *HabitCache) SetList(ctx context.Context, userID int64, list []dom.Habit) error {
	return c.set(ctx, listKey(userID), list)
}

// GetSearch returns the cached search result for query q, or nil if miss.
func (c *HabitCache) GetSearch(ctx context.Context, userID int64, q string) ([]dom.Habit, error) {
	return c.get(ctx, searchKey(userID, q))
}

// SetSearch stores the search result in cache.
func (c *HabitCache) SetSearch(ctx context.Context, userID int64, q string, list []dom.Habit) error {
	return c.set(ctx, searchKey(userID, q), list)
}

// InvalidateUser removes the list and all search keys for userID
// (cache invalidation on write).
func (c *HabitCache) InvalidateUser(ctx context.Context, userID int64) error {
	if err := c.rdb.Del(ctx, listKey(userID)).Err(); err != nil {
		return err
	}
	pattern := keySearchPrefix + strconv.FormatInt(userID, 10) + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *HabitCache) get(ctx context.Context, key string) ([]dom.Habit, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Habit
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HabitCache) set(ctx context.Context, key string, list []dom.Habit) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
