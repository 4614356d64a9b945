package filter

import (
	"sync"

	"github.com/rishia17/ecommerceweb/pkg/types"
)

// ListCache holds the complete unfiltered product list per role.
type ListCache interface {
	Get(role types.Role) (types.ProductList, bool)
	Put(role types.Role, list types.ProductList)
	Drop(role types.Role)
}

type MemoryListCache struct {
	mu    sync.RWMutex
	lists map[types.Role]types.ProductList
}

func NewMemoryListCache() *MemoryListCache {
	return &MemoryListCache{lists: make(map[types.Role]types.ProductList)}
}

func (c *MemoryListCache) Get(role types.Role) (types.ProductList, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.lists[role]
	return list, ok
}

func (c *MemoryListCache) Put(role types.Role, list types.ProductList) {
	if list == nil {
		list = types.ProductList{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[role] = list
}

func (c *MemoryListCache) Drop(role types.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lists, role)
}
