package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lnascimentosilva/library/internal/utils"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type RabbitConfig struct {
	URL      string
	Exchange string
	Queue    string
	Timeout  time.Duration
}

func (c *RabbitConfig) defaults() {
	if c.Exchange == "" {
		c.Exchange = "library"
	}
	if c.Queue == "" {
		c.Queue = "library.orders"
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
}

// RabbitPublisher publishes to a durable topic exchange.
type RabbitPublisher struct {
	cfg  RabbitConfig
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

func dial(cfg RabbitConfig) (*amqp.Connection, *amqp.Channel, error) {
	if cfg.URL == "" {
		return nil, nil, errors.New("rabbitmq URL is required")
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}
	return conn, ch, nil
}

func NewRabbitPublisher(cfg RabbitConfig) (*RabbitPublisher, error) {
	cfg.defaults()
	conn, ch, err := dial(cfg)
	if err != nil {
		return nil, err
	}
	return &RabbitPublisher{cfg: cfg, conn: conn, ch: ch}, nil
}

func (p *RabbitPublisher) PublishOrderPlaced(ctx context.Context, m OrderPlaced) error {
	body, err := m.Encode()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return errors.New("rabbitmq publisher is closed")
	}
	err = p.ch.PublishWithContext(ctx, p.cfg.Exchange, RoutingKeyOrderPlaced, false, false, amqp.Publishing{
		MessageId:    uuid.NewString(),
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    utils.NowUTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish order %d: %w", m.OrderID, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
		p.ch = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}

// Handler processes one delivery body.
type Handler func(ctx context.Context, messageID string, body []byte) error

// Consume binds cfg.Queue to order notifications and runs handle for each
// delivery until ctx is done. Deliveries are acked after handle succeeds.
func Consume(ctx context.Context, cfg RabbitConfig, handle Handler) error {
	cfg.defaults()
	conn, ch, err := dial(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer ch.Close()

	q, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, RoutingKeyOrderPlaced, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	utils.Log().Info("consuming order notifications", zap.String("queue", q.Name))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			if err := handle(ctx, d.MessageId, d.Body); err != nil {
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
