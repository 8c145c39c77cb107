package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys for engine events.
const (
	FollowCreated  = "follow.created"
	MessageCreated = "message.created"
	LikeCreated    = "like.created"
	CommentCreated = "comment.created"
)

// Event is the envelope pushed to the delivery exchange after a
// successful mutation. Delivery is best-effort; the engine never
// depends on it succeeding.
type Event struct {
	ActorID     uint      `json:"actor_id"`
	RecipientID uint      `json:"recipient_id"`
	TargetID    string    `json:"target_id,omitempty"` // post or thread ID where applicable
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher pushes engine events to the real-time delivery exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event Event) error
	Close() error
}

// NewPublisher builds an AMQP publisher, or a noop publisher when AMQP
// is not configured or unreachable.
func NewPublisher(amqpURL, exchange string) Publisher {
	if amqpURL == "" {
		log.Println("events: amqp disabled, using noop publisher")
		return noopPublisher{}
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Printf("events: amqp unreachable, using noop publisher: %v", err)
		return noopPublisher{}
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("events: amqp channel failed, using noop publisher: %v", err)
		_ = conn.Close()
		return noopPublisher{}
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		log.Printf("events: exchange declare failed, using noop publisher: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return noopPublisher{}
	}

	log.Printf("events: amqp connected exchange=%s", exchange)
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange}
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		log.Printf("events: publish failed key=%s: %v", routingKey, err)
	}
	return err
}

func (p *amqpPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, routingKey string, event Event) error {
	log.Printf("events: noop publish key=%s actor=%d recipient=%d", routingKey, event.ActorID, event.RecipientID)
	return nil
}

func (noopPublisher) Close() error { return nil }
