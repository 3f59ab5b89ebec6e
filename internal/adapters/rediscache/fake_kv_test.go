package rediscache

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"property-service/internal/core/port"
)

// fakeKV is an in-memory stand-in for the remote key-value cache. Setting
// down simulates a degraded client: every operation fails.
type fakeKV struct {
	down    bool
	strs    map[string]string
	lists   map[string][]string
	zsets   map[string]map[string]float64
	ttls    map[string]time.Duration
	expires int
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		strs:  make(map[string]string),
		lists: make(map[string][]string),
		zsets: make(map[string]map[string]float64),
		ttls:  make(map[string]time.Duration),
	}
}

func (f *fakeKV) IsReady() bool { return !f.down }

func (f *fakeKV) Get(_ context.Context, key string) (string, bool) {
	if f.down {
		return "", false
	}
	v, ok := f.strs[key]
	return v, ok
}

func (f *fakeKV) Set(_ context.Context, key, value string, ttl time.Duration) bool {
	if f.down {
		return false
	}
	f.strs[key] = value
	f.ttls[key] = ttl
	return true
}

func (f *fakeKV) Del(_ context.Context, keys ...string) bool {
	if f.down {
		return false
	}
	for _, k := range keys {
		delete(f.strs, k)
		delete(f.lists, k)
		delete(f.zsets, k)
	}
	return true
}

func (f *fakeKV) DelByPrefix(_ context.Context, prefix string) bool {
	if f.down {
		return false
	}
	for k := range f.strs {
		if strings.HasPrefix(k, prefix) {
			delete(f.strs, k)
		}
	}
	return true
}

func (f *fakeKV) ScanKeys(_ context.Context, prefix string) ([]string, bool) {
	if f.down {
		return nil, false
	}
	var keys []string
	for k := range f.strs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, true
}

func (f *fakeKV) Exists(_ context.Context, key string) bool {
	if f.down {
		return false
	}
	if _, ok := f.strs[key]; ok {
		return true
	}
	if _, ok := f.lists[key]; ok {
		return true
	}
	_, ok := f.zsets[key]
	return ok
}

func (f *fakeKV) IncrBy(_ context.Context, key string, delta int64) (int64, bool) {
	if f.down {
		return 0, false
	}
	cur, _ := strconv.ParseInt(f.strs[key], 10, 64)
	cur += delta
	f.strs[key] = strconv.FormatInt(cur, 10)
	return cur, true
}

func (f *fakeKV) GetDel(_ context.Context, key string) (string, bool) {
	if f.down {
		return "", false
	}
	v, ok := f.strs[key]
	if ok {
		delete(f.strs, key)
	}
	return v, ok
}

func (f *fakeKV) Expire(_ context.Context, key string, ttl time.Duration) bool {
	if f.down {
		return false
	}
	f.ttls[key] = ttl
	f.expires++
	return true
}

func (f *fakeKV) ListPush(_ context.Context, key, value string) bool {
	if f.down {
		return false
	}
	f.lists[key] = append([]string{value}, f.lists[key]...)
	return true
}

func (f *fakeKV) ListTrim(_ context.Context, key string, start, stop int64) bool {
	if f.down {
		return false
	}
	list := f.lists[key]
	if start < 0 {
		start = 0
	}
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start > stop {
		f.lists[key] = nil
		return true
	}
	f.lists[key] = list[start : stop+1]
	return true
}

func (f *fakeKV) ListRange(_ context.Context, key string, start, stop int64) ([]string, bool) {
	if f.down {
		return nil, false
	}
	list := f.lists[key]
	if start >= int64(len(list)) {
		return nil, true
	}
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start > stop {
		return nil, true
	}
	return append([]string(nil), list[start:stop+1]...), true
}

func (f *fakeKV) SortedIncr(_ context.Context, key, member string, delta float64) bool {
	if f.down {
		return false
	}
	if f.zsets[key] == nil {
		f.zsets[key] = make(map[string]float64)
	}
	f.zsets[key][member] += delta
	return true
}

func (f *fakeKV) SortedTop(_ context.Context, key string, count int64) ([]port.ScoredMember, bool) {
	if f.down {
		return nil, false
	}
	members := make([]port.ScoredMember, 0, len(f.zsets[key]))
	for m, s := range f.zsets[key] {
		members = append(members, port.ScoredMember{Member: m, Score: s})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score > members[j].Score
		}
		return members[i].Member < members[j].Member
	})
	if int64(len(members)) > count {
		members = members[:count]
	}
	return members, true
}
