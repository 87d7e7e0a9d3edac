// Package events fans stored notifications out to a message broker.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"money-tracker-go-be/models"
)

// Publisher announces notifications after they have been stored.
type Publisher interface {
	Publish(ctx context.Context, n models.Notification) error
	Close() error
}

// Nop discards every notification. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, models.Notification) error { return nil }
func (Nop) Close() error                                        { return nil }

const publishTimeout = 5 * time.Second

// AMQPPublisher publishes to a durable direct exchange, routing by queue name.
// A dropped connection is redialled on the next publish.
type AMQPPublisher struct {
	url          string
	exchangeName string
	queueName    string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewAMQPPublisher(url, exchangeName, queueName string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchangeName: exchangeName, queueName: queueName}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := setup(channel, p.exchangeName, p.queueName); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	p.conn, p.channel = conn, channel
	return nil
}

func setup(ch *amqp091.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// Routing key is the queue name.
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, n models.Notification) error {
	body, err := NewNotificationMessage(n).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := 0; ; attempt++ {
		if p.channel == nil || p.channel.IsClosed() {
			if err := p.reconnect(); err != nil {
				return err
			}
		}

		err = p.publish(ctx, body)
		if err == nil {
			break
		}
		if attempt > 0 || !isConnectionError(err) {
			return fmt.Errorf("publish message: %w", err)
		}
		log.Warn().Err(err).Msg("AMQP publish failed, reconnecting")
		p.dropConnection()
	}

	log.Debug().
		Str("notification_id", n.ID.String()).
		Str("type", string(n.Type)).
		Str("exchange", p.exchangeName).
		Msg("Published notification")
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx, p.exchangeName, p.queueName, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) reconnect() error {
	p.dropConnection()
	if err := p.connect(); err != nil {
		return fmt.Errorf("reconnect AMQP: %w", err)
	}
	log.Info().Str("exchange", p.exchangeName).Msg("AMQP connection re-established")
	return nil
}

func (p *AMQPPublisher) dropConnection() {
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	p.channel, p.conn = nil, nil
	return err
}

// Connect returns an AMQP publisher when url is set, retrying the first dial
// with exponential backoff, and Nop otherwise.
func Connect(ctx context.Context, url, exchange, queue string, attempts int) (Publisher, error) {
	if url == "" {
		log.Info().Msg("AMQP_URL not set, notification fan-out disabled")
		return Nop{}, nil
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		p, err := NewAMQPPublisher(url, exchange, queue)
		if err == nil {
			log.Info().Str("exchange", exchange).Str("queue", queue).Msg("Connected to AMQP broker")
			return p, nil
		}
		lastErr = err
		if attempt == attempts-1 {
			break
		}

		wait := exponentialBackoff(attempt)
		log.Warn().Err(err).Int("attempt", attempt+1).Dur("retry_in", wait).Msg("AMQP connection failed")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("connect to AMQP after %d attempts: %w", attempts, lastErr)
}

// exponentialBackoff doubles from one second, capped at 30 seconds.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return 30 * time.Second
	}
	return time.Duration(1<<attempt) * time.Second
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "closed", "eof", "broken pipe", "reset by peer"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
