package messaging

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rishia17/ecommerceweb/pkg/common/jsoncompat"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic hands every delivery to handler from a background goroutine.
// Deliveries the handler fails on are dropped without requeue.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(amqp.Delivery) error) error {
	fc, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func(msgs <-chan amqp.Delivery) {
		defer ch.Close()
		for d := range msgs {
			if err := handler(d); err != nil {
				log.Printf("Error processing message on %s: %v", topic, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}(fc)
	return nil
}

// Decode reads a json message body into V.
func Decode[V any](d amqp.Delivery) (V, error) {
	var v V
	err := jsoncompat.Unmarshal(d.Body, &v)
	return v, err
}
