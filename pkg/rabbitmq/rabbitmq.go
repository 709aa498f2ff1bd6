package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"stockdesk/internal/models"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Names of the exchange and queue carrying catalog events.
const (
	CatalogExchange = "catalog"
	CatalogQueue    = "catalog_events"
)

// Client holds the RabbitMQ connection and a publishing channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // guards channel
	log     *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ and declares the catalog topology: a
// durable topic exchange and a durable queue bound to every routing key.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("RabbitMQ client connected",
		zap.String("exchange", CatalogExchange),
		zap.String("queue", CatalogQueue))

	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

func declareTopology(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		CatalogExchange, // name
		"topic",         // kind
		true,            // durable
		false,           // auto-delete
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", CatalogExchange, err)
	}

	_, err = ch.QueueDeclare(
		CatalogQueue, // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", CatalogQueue, err)
	}

	if err := ch.QueueBind(CatalogQueue, "#", CatalogExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", CatalogQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		c.channel = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
		c.conn = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors while closing RabbitMQ client: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to the catalog exchange.
func (c *Client) Publish(routingKey string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err := c.channel.Publish(
		CatalogExchange, // exchange
		routingKey,      // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.log.Debug("catalog event published", zap.String("routing_key", routingKey))
	return nil
}

// EventHandler processes one decoded catalog event.
type EventHandler func(event models.CatalogEvent) error

// ConsumeCatalogEvents starts a goroutine that decodes messages from the
// catalog queue and passes them to handler. Messages that cannot be decoded
// are dropped; handler errors requeue the message once.
func (c *Client) ConsumeCatalogEvents(handler EventHandler) error {
	if c.conn == nil {
		return fmt.Errorf("RabbitMQ connection is not available for consumption")
	}

	// Consumers get their own channel so a slow handler never blocks Publish.
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}

	msgs, err := ch.Consume(
		CatalogQueue, // queue
		"",           // consumer tag
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info("waiting for catalog events", zap.String("queue", CatalogQueue))

	go func() {
		defer ch.Close()
		for msg := range msgs {
			c.handle(msg, handler)
		}
	}()
	return nil
}

func (c *Client) handle(msg amqp.Delivery, handler EventHandler) {
	var event models.CatalogEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.log.Warn("dropping malformed catalog event",
			zap.Uint64("delivery_tag", msg.DeliveryTag),
			zap.Error(err))
		if err := msg.Nack(false, false); err != nil {
			c.log.Error("nack failed", zap.Error(err))
		}
		return
	}

	if err := handler(event); err != nil {
		c.log.Warn("catalog event handler failed",
			zap.String("routing_key", msg.RoutingKey),
			zap.Bool("redelivered", msg.Redelivered),
			zap.Error(err))
		if err := msg.Nack(false, !msg.Redelivered); err != nil {
			c.log.Error("nack failed", zap.Error(err))
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		c.log.Error("ack failed", zap.Error(err))
	}
}

// AuditLogger returns an EventHandler that writes each event to log.
func AuditLogger(log *zap.Logger) EventHandler {
	return func(event models.CatalogEvent) error {
		log.Info("catalog change",
			zap.String("entity", event.Entity),
			zap.String("type", event.Type),
			zap.String("id", event.ID),
			zap.String("name", event.Name),
			zap.Time("at", event.At))
		return nil
	}
}
