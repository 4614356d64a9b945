// Package filter holds the active filter criteria and decides whether a
// change can be answered from the cached catalog or needs a server side
// filter request.
package filter

import (
	"errors"
	"strings"
	"sync"

	"github.com/rishia17/ecommerceweb/pkg/query"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

var ErrUnknownAxis = errors.New("unknown filter axis")

// Navigator receives the query string of the new criteria. Implementations
// should replace the visible URL without reloading.
type Navigator interface {
	Push(query string)
}

type NavigatorFunc func(query string)

func (f NavigatorFunc) Push(query string) {
	f(query)
}

type noopNavigator struct{}

func (noopNavigator) Push(string) {}

// Derivation is the outcome of a criteria change. When Local is set Products
// holds the filtered list, otherwise the caller has to fetch it.
type Derivation struct {
	Criteria types.FilterCriteria
	Changed  bool
	Local    bool
	Products types.ProductList
}

type Store struct {
	mu        sync.Mutex
	role      types.Role
	criteria  types.FilterCriteria
	cache     ListCache
	nav       Navigator
	lastQuery string
}

// NewStore starts with default criteria. A nil cache gets an in-memory one,
// a nil navigator drops pushes.
func NewStore(role types.Role, cache ListCache, nav Navigator) *Store {
	if cache == nil {
		cache = NewMemoryListCache()
	}
	if nav == nil {
		nav = noopNavigator{}
	}
	return &Store{
		role:      role,
		criteria:  types.DefaultCriteria(),
		cache:     cache,
		nav:       nav,
		lastQuery: query.Encode(types.DefaultCriteria()),
	}
}

func (s *Store) Role() types.Role {
	return s.role
}

func (s *Store) Criteria() types.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Query is the encoded form of the current criteria.
func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.Encode(s.criteria)
}

// SetCriteria adopts next and pushes its query to the navigator.
func (s *Store) SetCriteria(next types.FilterCriteria) (Derivation, error) {
	if err := next.Validate(); err != nil {
		return Derivation{}, err
	}
	next = normalize(next)
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := !s.criteria.Equal(next)
	s.criteria = next
	s.push(query.Encode(next))
	return s.derive(changed), nil
}

// Toggle flips value on the category or brand axis.
func (s *Store) Toggle(axis types.Axis, value string) (Derivation, error) {
	s.mu.Lock()
	current, ok := s.criteria.Selection(axis)
	next, _ := s.criteria.WithSelection(axis, current.Toggle(value))
	s.mu.Unlock()
	if !ok {
		return Derivation{}, ErrUnknownAxis
	}
	return s.SetCriteria(next)
}

func (s *Store) SetPriceRange(min, max float64) (Derivation, error) {
	r := types.PriceRange{Min: min, Max: max}
	if !r.Valid() {
		return Derivation{}, types.ErrInvalidRange
	}
	s.mu.Lock()
	next := s.criteria
	s.mu.Unlock()
	next.Price = r
	return s.SetCriteria(next)
}

// Clear restores the defaults and pushes an empty query.
func (s *Store) Clear() Derivation {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := types.DefaultCriteria()
	changed := !s.criteria.Equal(next)
	s.criteria = next
	s.push("")
	return s.derive(changed)
}

// Reconcile adopts the criteria of a URL that changed outside the store,
// such as back/forward navigation. Nothing is pushed. A query equal to the
// last one pushed is the store's own echo and leaves the criteria alone.
func (s *Store) Reconcile(raw string) Derivation {
	raw = strings.TrimPrefix(raw, "?")
	s.mu.Lock()
	defer s.mu.Unlock()
	if raw == s.lastQuery {
		return s.derive(false)
	}
	next := query.Decode(raw)
	changed := !s.criteria.Equal(next)
	s.criteria = next
	s.lastQuery = raw
	return s.derive(changed)
}

// Derive filters full with the current criteria.
func (s *Store) Derive(full types.ProductList) types.ProductList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.Apply(full)
}

// Current derives from the cache without changing anything.
func (s *Store) Current() Derivation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.derive(false)
}

// Cache stores a complete unfiltered list for the store's role.
func (s *Store) Cache(list types.ProductList) {
	s.cache.Put(s.role, list)
}

func (s *Store) Forget() {
	s.cache.Drop(s.role)
}

func (s *Store) Cached() (types.ProductList, bool) {
	return s.cache.Get(s.role)
}

func (s *Store) push(q string) {
	if q == s.lastQuery {
		return
	}
	s.lastQuery = q
	s.nav.Push(q)
}

func (s *Store) derive(changed bool) Derivation {
	d := Derivation{Criteria: s.criteria, Changed: changed}
	if full, ok := s.cache.Get(s.role); ok {
		d.Local = true
		d.Products = s.criteria.Apply(full)
	}
	return d
}

func normalize(c types.FilterCriteria) types.FilterCriteria {
	c.Categories = types.NewSelection(c.Categories...)
	c.Brands = types.NewSelection(c.Brands...)
	return c
}

// Options offered for each selectable axis.
var (
	CategoryOptions = []string{types.AllValues, "Mobile", "TV", "IPAD", "Laptop", "Watch", "Accessories"}
	BrandOptions    = []string{types.AllValues, "samsung", "iphone", "redmi", "boat"}
)
