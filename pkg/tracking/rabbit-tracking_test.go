package tracking

import (
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rishia17/ecommerceweb/pkg/common"
	"github.com/rishia17/ecommerceweb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ types.Tracking = (*RabbitTracking)(nil)

type sent struct {
	mu     sync.Mutex
	events []any
	fail   bool
}

func (s *sent) send(data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("broker gone")
	}
	s.events = append(s.events, data)
	return nil
}

func offline(s *sent) *RabbitTracking {
	t := &RabbitTracking{country: "se", send: s.send}
	t.queue = common.NewQueueHandler[any](t.flush, 10, time.Hour)
	return t
}

func TestEventsAreSentOnClose(t *testing.T) {
	s := &sent{}
	tr := offline(s)
	tr.TrackBrowse(types.BrowseEvent{
		UserName: "anna",
		Role:     types.RoleUser,
		Criteria: types.FilterCriteria{Brands: types.NewSelection("boat"), Price: types.PriceRange{Min: 0, Max: 500}},
		Results:  2,
		Page:     1,
	})
	tr.TrackAddToCart(types.CartEntry{UserName: "anna", ProductId: "5"})
	require.NoError(t, tr.Close())

	require.Len(t, s.events, 2)
	browse, ok := s.events[0].(*BrowseEventData)
	require.True(t, ok)
	assert.Equal(t, browseEvent, browse.Event)
	assert.Equal(t, "se", browse.Country)
	assert.Equal(t, []string{"boat"}, browse.Brands)
	assert.Equal(t, []string{}, browse.Categories)
	assert.Equal(t, 2, browse.NumberOfResults)

	cart, ok := s.events[1].(*CartEventData)
	require.True(t, ok)
	assert.Equal(t, addToCartEvent, cart.Event)
	assert.Equal(t, "5", cart.ProductId)
}

func TestSendFailuresAreDropped(t *testing.T) {
	s := &sent{fail: true}
	tr := offline(s)
	tr.TrackAddToCart(types.CartEntry{UserName: "anna", ProductId: "1"})
	assert.NotPanics(t, func() {
		require.NoError(t, tr.Close())
	})
	assert.Empty(t, s.events)
}

type brokenConn struct {
	closed int
}

func (c *brokenConn) Channel() (*amqp.Channel, error) {
	return nil, errors.New("channel refused")
}

func (c *brokenConn) Close() error {
	c.closed++
	return nil
}

func TestDefineTopicClosesConnectionOnFailure(t *testing.T) {
	conn := &brokenConn{}
	err := defineTopic(conn, "global")
	assert.EqualError(t, err, "channel refused")
	assert.Equal(t, 1, conn.closed)
}
