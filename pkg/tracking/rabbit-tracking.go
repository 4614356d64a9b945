package tracking

import (
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rishia17/ecommerceweb/pkg/common"
	"github.com/rishia17/ecommerceweb/pkg/messaging"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

const (
	browseEvent    uint16 = 1
	addToCartEvent uint16 = 4
)

type RabbitTracking struct {
	country    string
	prefix     string
	connection *amqp.Connection
	send       func(data any) error
	queue      *common.QueueHandler[any]
}

func NewRabbitTracking(url, country string) (*RabbitTracking, error) {
	ret := &RabbitTracking{
		country: country,
		prefix:  messaging.DefaultPrefix,
	}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	ret.send = ret.publish
	ret.queue = common.NewQueueHandler[any](ret.flush, 50, time.Second)
	return ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	if err = defineTopic(conn, t.prefix); err != nil {
		return err
	}
	t.connection = conn
	return nil
}

type channelOpener interface {
	Channel() (*amqp.Channel, error)
	Close() error
}

// defineTopic closes conn when the tracking topic could not be declared.
func defineTopic(conn channelOpener, prefix string) error {
	ch, err := conn.Channel()
	if err == nil {
		err = messaging.DefineTopic(ch, prefix, messaging.TrackingTopic)
		ch.Close()
	}
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			log.Println("Error closing rabbit connection: ", closeErr)
		}
		return err
	}
	return nil
}

// Close sends what is still queued before closing the connection.
func (t *RabbitTracking) Close() error {
	t.queue.Close()
	if t.connection == nil {
		return nil
	}
	return t.connection.Close()
}

func (t *RabbitTracking) publish(data any) error {
	return messaging.SendChange(t.connection, t.prefix, messaging.TrackingTopic, data)
}

func (t *RabbitTracking) flush(events []any) {
	for _, event := range events {
		if err := t.send(event); err != nil {
			log.Println("Error sending tracking event: ", err)
		}
	}
}

type BaseEvent struct {
	User    string `json:"user,omitempty"`
	Country string `json:"country,omitempty"`
	Context string `json:"context,omitempty"`
	Event   uint16 `json:"event"`
}

type BrowseEventData struct {
	*BaseEvent
	Role            types.Role `json:"role"`
	Categories      []string   `json:"categories"`
	Brands          []string   `json:"brands"`
	MinPrice        float64    `json:"min_price"`
	MaxPrice        float64    `json:"max_price"`
	NumberOfResults int        `json:"noi"`
	Page            int        `json:"page"`
	Remote          bool       `json:"remote"`
}

type CartEventData struct {
	*BaseEvent
	ProductId string `json:"product_id"`
}

func (t *RabbitTracking) base(user string, event uint16) *BaseEvent {
	return &BaseEvent{User: user, Country: t.country, Context: "b2c", Event: event}
}

func (t *RabbitTracking) TrackBrowse(event types.BrowseEvent) {
	t.queue.Add(&BrowseEventData{
		BaseEvent:       t.base(event.UserName, browseEvent),
		Role:            event.Role,
		Categories:      event.Criteria.Categories.Values(),
		Brands:          event.Criteria.Brands.Values(),
		MinPrice:        event.Criteria.Price.Min,
		MaxPrice:        event.Criteria.Price.Max,
		NumberOfResults: event.Results,
		Page:            event.Page,
		Remote:          event.RemoteCall,
	})
}

func (t *RabbitTracking) TrackAddToCart(entry types.CartEntry) {
	t.queue.Add(&CartEventData{
		BaseEvent: t.base(entry.UserName, addToCartEvent),
		ProductId: entry.ProductId,
	})
}
