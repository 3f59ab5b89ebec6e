package rediscache

import (
	"context"
	"time"

	"property-service/internal/core/port"
	pkgredis "property-service/pkg/redis"
)

// KVBridge adapts the shared pkg/redis client to the core's
// KeyValueCachePort (the pkg layer must not know about core types).
type KVBridge struct {
	client *pkgredis.Client
}

func NewKVBridge(client *pkgredis.Client) *KVBridge {
	return &KVBridge{client: client}
}

func (b *KVBridge) IsReady() bool { return b.client.IsReady() }

func (b *KVBridge) Get(ctx context.Context, key string) (string, bool) {
	return b.client.Get(ctx, key)
}

func (b *KVBridge) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	return b.client.Set(ctx, key, value, ttl)
}

func (b *KVBridge) Del(ctx context.Context, keys ...string) bool {
	return b.client.Del(ctx, keys...)
}

func (b *KVBridge) DelByPrefix(ctx context.Context, prefix string) bool {
	return b.client.DelByPrefix(ctx, prefix)
}

func (b *KVBridge) ScanKeys(ctx context.Context, prefix string) ([]string, bool) {
	return b.client.ScanKeys(ctx, prefix)
}

func (b *KVBridge) Exists(ctx context.Context, key string) bool {
	return b.client.Exists(ctx, key)
}

func (b *KVBridge) IncrBy(ctx context.Context, key string, delta int64) (int64, bool) {
	return b.client.IncrBy(ctx, key, delta)
}

func (b *KVBridge) GetDel(ctx context.Context, key string) (string, bool) {
	return b.client.GetDel(ctx, key)
}

func (b *KVBridge) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	return b.client.Expire(ctx, key, ttl)
}

func (b *KVBridge) ListPush(ctx context.Context, key, value string) bool {
	return b.client.ListPush(ctx, key, value)
}

func (b *KVBridge) ListTrim(ctx context.Context, key string, start, stop int64) bool {
	return b.client.ListTrim(ctx, key, start, stop)
}

func (b *KVBridge) ListRange(ctx context.Context, key string, start, stop int64) ([]string, bool) {
	return b.client.ListRange(ctx, key, start, stop)
}

func (b *KVBridge) SortedIncr(ctx context.Context, key, member string, delta float64) bool {
	return b.client.SortedIncr(ctx, key, member, delta)
}

func (b *KVBridge) SortedTop(ctx context.Context, key string, count int64) ([]port.ScoredMember, bool) {
	members, ok := b.client.SortedTop(ctx, key, count)
	if !ok {
		return nil, false
	}
	out := make([]port.ScoredMember, 0, len(members))
	for _, m := range members {
		out = append(out, port.ScoredMember{Member: m.Member, Score: m.Score})
	}
	return out, true
}
