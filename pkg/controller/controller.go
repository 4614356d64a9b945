// Package controller keeps the filter criteria, the URL query, the fetched
// product list and the visible page in agreement.
package controller

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rishia17/ecommerceweb/pkg/filter"
	"github.com/rishia17/ecommerceweb/pkg/paging"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

var (
	staleResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_stale_responses_total",
		Help: "The total number of catalog responses discarded because a newer request superseded them",
	})
)

// ErrStale is returned to a command whose response arrived after a newer
// command had already changed the state. The response is dropped.
var ErrStale = errors.New("response superseded by a newer request")

var ErrNoCart = errors.New("no cart dispatcher configured")

type Fetcher interface {
	FetchAll(ctx context.Context, role types.Role) (types.ProductList, error)
	FetchFiltered(ctx context.Context, role types.Role, criteria types.FilterCriteria) (types.ProductList, error)
}

type CartDispatcher interface {
	AddToCart(ctx context.Context, user types.UserContext, productId string) error
}

type Snapshot struct {
	State      State
	Criteria   types.FilterCriteria
	Query      string
	Products   types.ProductList
	Visible    types.ProductList
	Page       int
	TotalPages int
	Err        error
	CartErr    error
}

type Option func(*Controller)

func WithCart(cart CartDispatcher) Option {
	return func(c *Controller) {
		c.cart = cart
	}
}

func WithTracking(tracking types.Tracking) Option {
	return func(c *Controller) {
		c.tracking = tracking
	}
}

type Controller struct {
	mu       sync.Mutex
	user     types.UserContext
	store    *filter.Store
	fetcher  Fetcher
	cart     CartDispatcher
	tracking types.Tracking

	state    State
	seq      uint64
	products types.ProductList
	pager    *paging.Pager
	err      error
	cartErr  error
}

func New(user types.UserContext, store *filter.Store, fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		user:     user,
		store:    store,
		fetcher:  fetcher,
		state:    Idle,
		products: types.ProductList{},
		pager:    paging.NewPager(paging.PageSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type plan struct {
	derivation filter.Derivation
	all        bool
	skip       bool
}

// Mount reads the initial URL. A cached catalog is filtered locally, an empty
// query loads the whole catalog and a deep link asks the backend to filter.
func (c *Controller) Mount(ctx context.Context, rawQuery string) error {
	return c.run(ctx, func() (plan, error) {
		d := c.store.Reconcile(rawQuery)
		return plan{derivation: d, all: !d.Local && emptyQuery(rawQuery)}, nil
	})
}

// Navigate handles a URL change made outside the controller, like back and
// forward. From Failed it retries the request for the current URL.
func (c *Controller) Navigate(ctx context.Context, rawQuery string) error {
	return c.run(ctx, func() (plan, error) {
		d := c.store.Reconcile(rawQuery)
		return plan{derivation: d, all: !d.Local && emptyQuery(rawQuery), skip: c.settled(d)}, nil
	})
}

func (c *Controller) SetCriteria(ctx context.Context, criteria types.FilterCriteria) error {
	return c.run(ctx, func() (plan, error) {
		d, err := c.store.SetCriteria(criteria)
		return plan{derivation: d, skip: c.settled(d)}, err
	})
}

func (c *Controller) Toggle(ctx context.Context, axis types.Axis, value string) error {
	return c.run(ctx, func() (plan, error) {
		d, err := c.store.Toggle(axis, value)
		return plan{derivation: d, skip: c.settled(d)}, err
	})
}

func (c *Controller) SetPriceRange(ctx context.Context, min, max float64) error {
	return c.run(ctx, func() (plan, error) {
		d, err := c.store.SetPriceRange(min, max)
		return plan{derivation: d, skip: c.settled(d)}, err
	})
}

func (c *Controller) Clear(ctx context.Context) error {
	return c.run(ctx, func() (plan, error) {
		d := c.store.Clear()
		return plan{derivation: d, skip: c.settled(d)}, nil
	})
}

// Refresh drops the cached catalog and loads it again.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.run(ctx, func() (plan, error) {
		c.store.Forget()
		return plan{derivation: c.store.Current(), all: true}, nil
	})
}

// settled reports whether d leaves the visible result as it is. Must hold mu.
func (c *Controller) settled(d filter.Derivation) bool {
	return !d.Changed && (c.state == Ready || c.state == Loading)
}

func (c *Controller) run(ctx context.Context, step func() (plan, error)) error {
	c.mu.Lock()
	p, err := step()
	if err != nil || p.skip {
		c.mu.Unlock()
		return err
	}
	c.seq++
	seq := c.seq
	d := p.derivation
	if d.Local {
		c.ready(d.Criteria, d.Products, false)
		c.mu.Unlock()
		return nil
	}
	c.state = Loading
	c.mu.Unlock()

	role := c.store.Role()
	var list types.ProductList
	if p.all {
		list, err = c.fetcher.FetchAll(ctx, role)
	} else {
		list, err = c.fetcher.FetchFiltered(ctx, role, d.Criteria)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		staleResponses.Inc()
		log.Printf("discarding stale catalog response %d, current is %d", seq, c.seq)
		return ErrStale
	}
	if err != nil {
		log.Printf("catalog request failed: %v", err)
		c.state = Failed
		c.err = err
		return err
	}
	if p.all {
		c.store.Cache(list)
		list = d.Criteria.Apply(list)
	}
	c.ready(d.Criteria, list, true)
	return nil
}

// ready replaces the list and goes back to the first page. Must hold mu.
func (c *Controller) ready(criteria types.FilterCriteria, list types.ProductList, remote bool) {
	if list == nil {
		list = types.ProductList{}
	}
	c.products = list
	c.pager.Reset(len(list))
	c.state = Ready
	c.err = nil
	if c.tracking != nil {
		c.tracking.TrackBrowse(types.BrowseEvent{
			UserName:   c.user.CurrentUser.UserName,
			Role:       c.store.Role(),
			Criteria:   criteria,
			Results:    len(list),
			Page:       c.pager.Number(),
			RemoteCall: remote,
		})
	}
}

func (c *Controller) GotoPage(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pager.Goto(n)
}

func (c *Controller) NextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pager.Next()
}

func (c *Controller) PreviousPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pager.Previous()
}

func (c *Controller) FirstPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pager.First()
}

// AddToCart never changes the controller state. A failure is kept as the
// inline cart error until the next successful add.
func (c *Controller) AddToCart(ctx context.Context, productId string) error {
	if c.cart == nil {
		return ErrNoCart
	}
	err := c.cart.AddToCart(ctx, c.user, productId)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartErr = err
	if err == nil && c.tracking != nil && c.user.CanAddToCart() {
		c.tracking.TrackAddToCart(types.CartEntry{UserName: c.user.CurrentUser.UserName, ProductId: productId})
	}
	return err
}

// Product looks up a product in the current list.
func (c *Controller) Product(productId string) (types.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products.Find(productId)
	if !ok {
		return types.Product{}, false
	}
	return *p, true
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:      c.state,
		Criteria:   c.store.Criteria(),
		Query:      c.store.Query(),
		Products:   c.products,
		Visible:    paging.Page(c.products, c.pager.Number(), c.pager.Size()),
		Page:       c.pager.Number(),
		TotalPages: c.pager.Total(),
		Err:        c.err,
		CartErr:    c.cartErr,
	}
}

func emptyQuery(raw string) bool {
	return strings.TrimSpace(strings.TrimPrefix(raw, "?")) == ""
}
