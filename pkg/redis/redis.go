package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shift-report/config"
)

// Client wraps go-redis for admin session state and rate limiting.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects and pings redis.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── session revocation ──

const revokedPrefix = "session:revoked:"

// RevokeSession marks the session as logged out for the rest of its lifetime.
func (c *Client) RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, revokedPrefix+sessionID, "1", ttl).Err()
}

// IsSessionRevoked reports whether the session was logged out.
func (c *Client) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, revokedPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── destructive action confirmation ──

func confirmKey(sessionID, action string) string {
	return "session:confirm:" + sessionID + ":" + action
}

// ArmConfirmation records the first click of a two-step action.
func (c *Client) ArmConfirmation(ctx context.Context, sessionID, action string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, confirmKey(sessionID, action), "1", ttl).Err()
}

// IsConfirmationArmed reports whether the action is waiting for its second click.
func (c *Client) IsConfirmationArmed(ctx context.Context, sessionID, action string) (bool, error) {
	n, err := c.rdb.Exists(ctx, confirmKey(sessionID, action)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DisarmConfirmations clears the given armed actions.
func (c *Client) DisarmConfirmations(ctx context.Context, sessionID string, actions ...string) error {
	if len(actions) == 0 {
		return nil
	}
	keys := make([]string, 0, len(actions))
	for _, a := range actions {
		keys = append(keys, confirmKey(sessionID, a))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// ── rate limiting ──

// CheckRateLimit sliding-window limiter on a sorted set.
// Returns false once key has seen limit requests inside window.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	count := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if count.Val() >= int64(limit) {
		return false, nil
	}

	pipe = c.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.New().String()})
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
