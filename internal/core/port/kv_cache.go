package port

import (
	"context"
	"time"
)

// ScoredMember is one entry of a scored set, highest score first.
type ScoredMember struct {
	Member string
	Score  float64
}

// KeyValueCachePort is the narrow contract over the remote key-value cache.
// Every operation reports success with a boolean instead of an error: when
// the client is degraded or unreachable, reads behave as misses and writes
// as accepted no-ops. Cache availability must never become a correctness
// dependency for callers.
type KeyValueCachePort interface {
	IsReady() bool

	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) bool
	Del(ctx context.Context, keys ...string) bool
	// DelByPrefix removes every key under a namespace prefix.
	DelByPrefix(ctx context.Context, prefix string) bool
	// ScanKeys lists the keys under a namespace prefix.
	ScanKeys(ctx context.Context, prefix string) ([]string, bool)
	Exists(ctx context.Context, key string) bool
	IncrBy(ctx context.Context, key string, delta int64) (int64, bool)
	GetDel(ctx context.Context, key string) (string, bool)
	Expire(ctx context.Context, key string, ttl time.Duration) bool

	// Bounded most-recent-first lists (search history).
	ListPush(ctx context.Context, key, value string) bool
	ListTrim(ctx context.Context, key string, start, stop int64) bool
	ListRange(ctx context.Context, key string, start, stop int64) ([]string, bool)

	// Scored sets (term popularity).
	SortedIncr(ctx context.Context, key, member string, delta float64) bool
	SortedTop(ctx context.Context, key string, count int64) ([]ScoredMember, bool)
}
