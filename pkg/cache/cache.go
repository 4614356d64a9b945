// Package cache keeps the complete product list per role in redis with a
// short lived local copy in front of it.
package cache

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rishia17/ecommerceweb/pkg/common/jsoncompat"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

var (
	lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_list_cache_lookups_total",
		Help: "The total number of list cache lookups by source",
	}, []string{"source"})
)

const keyPrefix = "storefront:products:"

// DefaultTimeout bounds a single redis call, lookups run while the
// controller holds its lock.
const DefaultTimeout = 250 * time.Millisecond

type localEntry struct {
	expires time.Time
	list    types.ProductList
}

type ListCache struct {
	client   *redis.Client
	ctx      context.Context
	ttl      time.Duration
	localTTL time.Duration
	timeout  time.Duration
	mu       sync.Mutex
	memCache map[types.Role]localEntry
}

func NewListCache(addr, password string, db int, ttl time.Duration) *ListCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    db,
		ContextTimeoutEnabled: true,
	})
	return newListCache(rdb, ttl)
}

func newListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ListCache{
		client:   client,
		ctx:      context.Background(),
		ttl:      ttl,
		localTTL: min(ttl, time.Minute),
		timeout:  DefaultTimeout,
		memCache: make(map[types.Role]localEntry),
	}
}

func (c *ListCache) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.ctx, c.timeout)
}

func key(role types.Role) string {
	return keyPrefix + string(role)
}

func (c *ListCache) Get(role types.Role) (types.ProductList, bool) {
	c.mu.Lock()
	local, found := c.memCache[role]
	if found && time.Now().Before(local.expires) {
		c.mu.Unlock()
		lookups.WithLabelValues("local").Inc()
		return local.list, true
	}
	delete(c.memCache, role)
	c.mu.Unlock()

	ctx, cancel := c.opContext()
	defer cancel()
	data, err := c.client.Get(ctx, key(role)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("list cache get %s: %v", role, err)
		}
		lookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	var list types.ProductList
	if err = jsoncompat.Unmarshal(data, &list); err != nil {
		log.Printf("list cache decode %s: %v", role, err)
		lookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if list == nil {
		list = types.ProductList{}
	}
	c.remember(role, list)
	lookups.WithLabelValues("redis").Inc()
	return list, true
}

// Put keeps the list locally even when redis cannot be reached.
func (c *ListCache) Put(role types.Role, list types.ProductList) {
	if list == nil {
		list = types.ProductList{}
	}
	c.remember(role, list)
	data, err := jsoncompat.Marshal(list)
	if err != nil {
		log.Printf("list cache encode %s: %v", role, err)
		return
	}
	ctx, cancel := c.opContext()
	defer cancel()
	if err = c.client.Set(ctx, key(role), data, c.ttl).Err(); err != nil {
		log.Printf("list cache set %s: %v", role, err)
	}
}

func (c *ListCache) Drop(role types.Role) {
	c.mu.Lock()
	delete(c.memCache, role)
	c.mu.Unlock()
	ctx, cancel := c.opContext()
	defer cancel()
	if err := c.client.Del(ctx, key(role)).Err(); err != nil {
		log.Printf("list cache drop %s: %v", role, err)
	}
}

func (c *ListCache) remember(role types.Role, list types.ProductList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memCache[role] = localEntry{expires: time.Now().Add(c.localTTL), list: list}
}

func (c *ListCache) Close() error {
	return c.client.Close()
}
