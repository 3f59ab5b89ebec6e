// Package redis wraps the go-redis client with the availability policy the
// cache layer relies on: one shared lazily-connected client per process,
// bounded reconnection with increasing backoff, and a permanent degraded
// mode once the attempt budget is exhausted. In degraded mode every
// operation is a cheap no-op: reads behave as misses, writes as accepted.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config for the shared client.
type Config struct {
	URL string // "redis://[:password@]host:port/db"

	// OpTimeout bounds every cache round trip. It must be shorter than the
	// store's query timeout so a slow cache never dominates latency.
	OpTimeout time.Duration
	// MaxReconnectAttempts is the budget before permanent degraded mode.
	MaxReconnectAttempts int
	// ReconnectBaseDelay is doubled on every failed attempt.
	ReconnectBaseDelay time.Duration

	Logger Logger
}

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(err error, msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (l *noopLogger) Debug(msg string, keysAndValues ...interface{})            {}
func (l *noopLogger) Warn(msg string, keysAndValues ...interface{})             {}
func (l *noopLogger) Error(err error, msg string, keysAndValues ...interface{}) {}

// NewNoopLogger returns a logger that performs no operations.
func NewNoopLogger() Logger { return &noopLogger{} }

const (
	defaultOpTimeout     = 250 * time.Millisecond
	defaultMaxReconnects = 5
	defaultBaseDelay     = time.Second
	scanBatchSize        = 200
)

// ScoredMember mirrors one sorted-set entry.
type ScoredMember struct {
	Member string
	Score  float64
}

// Client is the process-wide resilient cache client.
type Client struct {
	cfg Config
	rdb *redis.Client

	mu       sync.Mutex
	ready    atomic.Bool
	degraded atomic.Bool
	attempts int
	nextTry  time.Time

	logger Logger
}

var (
	clientInstance *Client
	once           sync.Once
)

// GetClient creates or returns the shared client (one session per process).
// The first connection attempt happens lazily on first use, so a cache
// outage at boot does not block the service.
func GetClient(cfg Config) (*Client, error) {
	var initErr error
	once.Do(func() {
		if cfg.URL == "" {
			initErr = fmt.Errorf("redis: URL configuration is required")
			return
		}
		if cfg.Logger == nil {
			cfg.Logger = NewNoopLogger()
		}
		if cfg.OpTimeout <= 0 {
			cfg.OpTimeout = defaultOpTimeout
		}
		if cfg.MaxReconnectAttempts <= 0 {
			cfg.MaxReconnectAttempts = defaultMaxReconnects
		}
		if cfg.ReconnectBaseDelay <= 0 {
			cfg.ReconnectBaseDelay = defaultBaseDelay
		}
		clientInstance = &Client{cfg: cfg, logger: cfg.Logger}
	})
	if initErr != nil {
		return nil, initErr
	}
	return clientInstance, nil
}

// NewClient builds an unshared client. Used by the composition root when the
// singleton is undesirable (and by integration tests).
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis: URL configuration is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = NewNoopLogger()
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaultOpTimeout
	}
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = defaultMaxReconnects
	}
	if cfg.ReconnectBaseDelay <= 0 {
		cfg.ReconnectBaseDelay = defaultBaseDelay
	}
	return &Client{cfg: cfg, logger: cfg.Logger}, nil
}

// IsReady reports whether operations will reach the cache. False either
// before the first successful connect or permanently after degradation.
func (c *Client) IsReady() bool {
	return c.ready.Load() && !c.degraded.Load()
}

// conn returns the live connection, attempting a (re)connect when allowed by
// the backoff schedule. Returns nil while unavailable.
func (c *Client) conn(ctx context.Context) *redis.Client {
	if c.degraded.Load() {
		return nil
	}
	if c.ready.Load() {
		return c.rdb
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready.Load() {
		return c.rdb
	}
	if c.degraded.Load() || time.Now().Before(c.nextTry) {
		return nil
	}

	if c.rdb == nil {
		opts, err := redis.ParseURL(c.cfg.URL)
		if err != nil {
			c.logger.Error(err, "redis: invalid URL, entering degraded mode")
			c.degraded.Store(true)
			return nil
		}
		c.rdb = redis.NewClient(opts)
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()
	if err := c.rdb.Ping(pingCtx).Err(); err != nil {
		c.attempts++
		if c.attempts >= c.cfg.MaxReconnectAttempts {
			// Logged once per transition, not per operation.
			c.logger.Error(err, "redis: reconnect budget exhausted, degraded until restart",
				"attempts", c.attempts)
			c.degraded.Store(true)
			return nil
		}
		delay := c.cfg.ReconnectBaseDelay << (c.attempts - 1)
		c.nextTry = time.Now().Add(delay)
		c.logger.Warn("redis: connect failed, will retry",
			"attempt", c.attempts, "next_try_in", delay.String())
		return nil
	}

	c.attempts = 0
	c.ready.Store(true)
	c.logger.Debug("redis: connected")
	return c.rdb
}

// opCtx derives the short per-operation timeout. On timeout the operation
// reports failure and the caller treats it as a miss.
func (c *Client) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.OpTimeout)
}

// markFailure flags the connection as lost so the next call goes through the
// reconnect path again.
func (c *Client) markFailure(err error, op string) {
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}
	c.logger.Debug("redis: operation failed", "op", op, "error", err.Error())
	if errors.Is(err, context.DeadlineExceeded) {
		// A slow cache is treated as a miss but not as a lost connection.
		return
	}
	c.ready.Store(false)
}

// Get returns the value and true on hit; ("", false) on miss, timeout or
// degraded mode.
func (c *Client) Get(ctx context.Context, key string) (string, bool) {
	rdb := c.conn(ctx)
	if rdb == nil {
		return "", false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	val, err := rdb.Get(opCtx, key).Result()
	if err != nil {
		c.markFailure(err, "get")
		return "", false
	}
	return val, true
}

// Set writes the value with a TTL (0 means no expiry).
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	rdb := c.conn(ctx)
	if rdb == nil {
		return false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := rdb.Set(opCtx, key, value, ttl).Err(); err != nil {
		c.markFailure(err, "set")
		return false
	}
	return true
}

// Del removes the given keys.
func (c *Client) Del(ctx context.Context, keys ...string) bool {
	if len(keys) == 0 {
		return true
	}
	rdb := c.conn(ctx)
	if rdb == nil {
		return false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := rdb.Del(opCtx, keys...).Err(); err != nil {
		c.markFailure(err, "del")
		return false
	}
	return true
}

// ScanKeys lists every key under the prefix using SCAN, never KEYS.
func (c *Client) ScanKeys(ctx context.Context, prefix string) ([]string, bool) {
	rdb := c.conn(ctx)
	if rdb == nil {
		return nil, false
	}
	// Namespace scans may legitimately exceed the single-op budget; give
	// them a few batches worth of time.
	opCtx, cancel := context.WithTimeout(ctx, 4*c.cfg.OpTimeout)
	defer cancel()

	var keys []string
	var cursor uint64
	for {
		batch, next, err := rdb.Scan(opCtx, cursor, prefix+"*", scanBatchSize).Result()
		if err != nil {
			c.markFailure(err, "scan")
			return nil, false
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, true
		}
		cursor = next
	}
}

// DelByPrefix removes a whole key namespace.
func (c *Client) DelByPrefix(ctx context.Context, prefix string) bool {
	keys, ok := c.ScanKeys(ctx, prefix)
	if !ok {
		return false
	}
	if len(keys) == 0 {
		return true
	}
	return c.Del(ctx, keys...)
}

// Exists reports whether the key is present.
func (c *Client) Exists(ctx context.Context, key string) bool {
	rdb := c.conn(ctx)
	if rdb == nil {
		return false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	n, err := rdb.Exists(opCtx, key).Result()
	if err != nil {
		c.markFailure(err, "exists")
		return false
	}
	return n > 0
}

// IncrBy atomically increments a counter.
func (c *Client) IncrBy(ctx context.Context, key string, delta int64) (int64, bool) {
	rdb := c.conn(ctx)
	if rdb == nil {
		return 0, false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	val, err := rdb.IncrBy(opCtx, key, delta).Result()
	if err != nil {
		c.markFailure(err, "incrby")
		return 0, false
	}
	return val, true
}

// GetDel atomically reads and removes a key.
func (c *Client) GetDel(ctx context.Context, key string) (string, bool) {
	rdb := c.conn(ctx)
	if rdb == nil {
		return "", false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	val, err := rdb.GetDel(opCtx, key).Result()
	if err != nil {
		c.markFailure(err, "getdel")
		return "", false
	}
	return val, true
}

// Expire refreshes a key's TTL.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	rdb := c.conn(ctx)
	if rdb == nil {
		return false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := rdb.Expire(opCtx, key, ttl).Err(); err != nil {
		c.markFailure(err, "expire")
		return false
	}
	return true
}

// ListPush prepends a value (most-recent-first lists).
func (c *Client) ListPush(ctx context.Context, key, value string) bool {
	rdb := c.conn(ctx)
	if rdb == nil {
		return false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := rdb.LPush(opCtx, key, value).Err(); err != nil {
		c.markFailure(err, "lpush")
		return false
	}
	return true
}

// ListTrim bounds a list to [start, stop].
func (c *Client) ListTrim(ctx context.Context, key string, start, stop int64) bool {
	rdb := c.conn(ctx)
	if rdb == nil {
		return false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := rdb.LTrim(opCtx, key, start, stop).Err(); err != nil {
		c.markFailure(err, "ltrim")
		return false
	}
	return true
}

// ListRange reads a slice of a list.
func (c *Client) ListRange(ctx context.Context, key string, start, stop int64) ([]string, bool) {
	rdb := c.conn(ctx)
	if rdb == nil {
		return nil, false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	vals, err := rdb.LRange(opCtx, key, start, stop).Result()
	if err != nil {
		c.markFailure(err, "lrange")
		return nil, false
	}
	return vals, true
}

// SortedIncr bumps a member's score in a scored set.
func (c *Client) SortedIncr(ctx context.Context, key, member string, delta float64) bool {
	rdb := c.conn(ctx)
	if rdb == nil {
		return false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := rdb.ZIncrBy(opCtx, key, delta, member).Err(); err != nil {
		c.markFailure(err, "zincrby")
		return false
	}
	return true
}

// SortedTop reads the highest-scored members.
func (c *Client) SortedTop(ctx context.Context, key string, count int64) ([]ScoredMember, bool) {
	rdb := c.conn(ctx)
	if rdb == nil {
		return nil, false
	}
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()
	zs, err := rdb.ZRevRangeWithScores(opCtx, key, 0, count-1).Result()
	if err != nil {
		c.markFailure(err, "zrevrange")
		return nil, false
	}
	members := make([]ScoredMember, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		members = append(members, ScoredMember{Member: member, Score: z.Score})
	}
	return members, true
}

// Close shuts down the underlying connection pool.
func (c *Client) Close() error {
	c.ready.Store(false)
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
