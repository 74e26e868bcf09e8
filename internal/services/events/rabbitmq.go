package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/arent-kient/api-key-dashboard/internal/models"
)

const publishTimeout = 5 * time.Second

// RabbitMQPublisher publishes key events to a fanout exchange and relays
// events published by other server instances
type RabbitMQPublisher struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	instanceID string
	mu         sync.Mutex
}

// NewRabbitMQPublisher connects to url and declares the fanout exchange
func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"fanout", // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logrus.Infof("RabbitMQ publisher ready on exchange %s", exchange)
	return &RabbitMQPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		instanceID: uuid.NewString(),
	}, nil
}

// Publish implements Publisher. Failures are logged and dropped.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event models.KeyEvent) {
	msg, err := encodeEvent(event, p.instanceID)
	if err != nil {
		logrus.Errorf("Failed to encode key event: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.PublishWithContext(ctx, p.exchange, "", false, false, msg); err != nil {
		logrus.Warnf("Failed to publish key event %s for %s: %v", event.Type, event.KeyID, err)
	}
}

// Subscribe binds an exclusive queue to the exchange and passes events
// published by other instances to handler until ctx is done
func (p *RabbitMQPublisher) Subscribe(ctx context.Context, handler func(models.KeyEvent)) error {
	p.mu.Lock()
	queue, err := p.channel.QueueDeclare(
		"",    // name: server generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err == nil {
		err = p.channel.QueueBind(queue.Name, "", p.exchange, false, nil)
	}
	var deliveries <-chan amqp.Delivery
	if err == nil {
		deliveries, err = p.channel.Consume(queue.Name, "", true, true, false, false, nil)
	}
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", p.exchange, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					logrus.Warn("RabbitMQ key event subscription closed")
					return
				}
				if d.AppId == p.instanceID {
					continue
				}
				event, err := decodeEvent(d.Body)
				if err != nil {
					logrus.Warnf("Dropping malformed key event: %v", err)
					continue
				}
				handler(event)
			}
		}
	}()
	return nil
}

// Close closes the RabbitMQ connection
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			logrus.Warnf("Error closing channel: %v", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			logrus.Warnf("Error closing connection: %v", err)
		}
	}
	return nil
}

func encodeEvent(event models.KeyEvent, instanceID string) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType: "application/json",
		AppId:       instanceID,
		Type:        event.Type,
		Timestamp:   event.At,
		Body:        body,
	}, nil
}

func decodeEvent(body []byte) (models.KeyEvent, error) {
	var event models.KeyEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return models.KeyEvent{}, err
	}
	if event.Type == "" || event.KeyID == "" {
		return models.KeyEvent{}, fmt.Errorf("missing type or key_id")
	}
	return event, nil
}
