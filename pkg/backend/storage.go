package backend

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/rishia17/ecommerceweb/pkg/common/jsoncompat"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

type CartStorage interface {
	AddItem(entry types.CartEntry) error
	GetCart(userName string) ([]string, error)
}

// MemoryCartStorage appends every add, a product added twice is listed twice.
type MemoryCartStorage struct {
	mu    sync.Mutex
	carts map[string][]string
}

func NewMemoryCartStorage() *MemoryCartStorage {
	return &MemoryCartStorage{carts: make(map[string][]string)}
}

func (s *MemoryCartStorage) AddItem(entry types.CartEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[entry.UserName] = append(s.carts[entry.UserName], entry.ProductId)
	return nil
}

func (s *MemoryCartStorage) GetCart(userName string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.carts[userName]), nil
}

// LoadProducts reads a json array of products and validates it.
func LoadProducts(path string) (types.ProductList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list types.ProductList
	if err = jsoncompat.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err = list.Validate(); err != nil {
		return nil, fmt.Errorf("invalid products in %s: %w", path, err)
	}
	return list, nil
}
