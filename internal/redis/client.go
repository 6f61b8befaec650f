package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Sync info records. One record per successfully synced order, no TTL:
// the record is the durable answer to "did this order reach the ERP".

func (c *Client) SetSyncInfo(info *models.SyncInfo) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal sync info: %w", err)
	}

	return c.rdb.Set(ctx, "sync_info:"+info.OrderID, jsonData, 0).Err()
}

func (c *Client) GetSyncInfo(orderID string) (*models.SyncInfo, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "sync_info:"+orderID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("sync info not found")
		}
		return nil, fmt.Errorf("failed to get sync info: %w", err)
	}

	var info models.SyncInfo
	if err := json.Unmarshal([]byte(val), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync info: %w", err)
	}

	return &info, nil
}

// Session management

func (c *Client) SetSession(token string, customerID uint, ttl time.Duration) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, "session:"+token, customerID, ttl).Err()
}

func (c *Client) GetSession(token string) (uint, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "session:"+token).Uint64()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("session not found")
		}
		return 0, fmt.Errorf("failed to get session: %w", err)
	}
	return uint(val), nil
}

func (c *Client) DeleteSession(token string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "session:"+token).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
