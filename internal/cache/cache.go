// Package cache keeps a Redis projection of account balances so that the
// balance endpoint does not hit PostgreSQL on every read. Cache misses and
// write failures are logged and tolerated; the store stays the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/magicjohnson/simple-bank/internal/models"
)

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewAccountCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *AccountCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountCache{client: client, ttl: ttl, logger: logger}
}

func accountKey(userID string) string {
	return "account:view:" + userID
}

// Get returns the cached account view for a user, or (nil, false) on a miss.
func (c *AccountCache) Get(ctx context.Context, userID string) (*models.Account, bool) {
	data, err := c.client.Get(ctx, accountKey(userID)).Result()
	if err != nil {
		return nil, false
	}
	var account models.Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, false
	}
	return &account, true
}

func (c *AccountCache) Set(ctx context.Context, account *models.Account) {
	data, err := json.Marshal(account)
	if err != nil {
		c.logger.Warn("account cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, accountKey(account.UserID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("account cache write failed", zap.String("user_id", account.UserID), zap.Error(err))
	}
}

func (c *AccountCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, accountKey(userID)).Err(); err != nil {
		c.logger.Warn("account cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}
