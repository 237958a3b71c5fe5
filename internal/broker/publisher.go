// Package broker forwards driver dashboard events to RabbitMQ.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/config"
	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
)

const reconnectDelay = 3 * time.Second

var ErrNotConnected = errors.New("BROKER_NOT_CONNECTED")

// RabbitPublisher publishes events to a topic exchange, routed by event
// type, and reconnects in the background when the connection drops.
type RabbitPublisher struct {
	dsn      string
	exchange string

	mu        sync.RWMutex
	conn      *amqp091.Connection
	ch        *amqp091.Channel
	connClose chan *amqp091.Error
	isClosed  atomic.Bool
}

var _ domain.EventPublisher = (*RabbitPublisher)(nil)

// DSN builds the AMQP URL from the broker configuration.
func DSN(cfg *config.Config) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.Broker.User, cfg.Broker.Password),
		Host:   net.JoinHostPort(cfg.Broker.Host, strconv.Itoa(cfg.Broker.Port)),
		Path:   "/",
	}
	return u.String()
}

func NewRabbitPublisher(cfg *config.Config) (*RabbitPublisher, error) {
	p := &RabbitPublisher{
		dsn:      DSN(cfg),
		exchange: cfg.Broker.Exchange,
	}

	if err := p.createChannel(); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	go p.reconnectConn()
	logger.WithFields(logrus.Fields{"exchange": p.exchange}).Info("Connected to RabbitMQ")
	return p, nil
}

func (p *RabbitPublisher) createChannel() error {
	conn, err := amqp091.Dial(p.dsn)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return errors.Join(conn.Close(), err)
	}

	err = ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return errors.Join(conn.Close(), err)
	}

	connClose := make(chan *amqp091.Error, 1)
	conn.NotifyClose(connClose)

	p.mu.Lock()
	p.conn = conn
	p.ch = ch
	p.connClose = connClose
	p.mu.Unlock()
	return nil
}

func (p *RabbitPublisher) reconnectConn() {
	for {
		p.mu.RLock()
		connClose := p.connClose
		p.mu.RUnlock()

		<-connClose
		if p.isClosed.Load() {
			return
		}
		logger.Warn("RabbitMQ connection lost")

		p.mu.Lock()
		p.ch = nil
		p.mu.Unlock()

		for {
			if p.isClosed.Load() {
				return
			}
			logger.Info("Trying to reconnect to RabbitMQ")
			if err := p.createChannel(); err != nil {
				time.Sleep(reconnectDelay)
				continue
			}
			logger.Info("Reconnected to RabbitMQ")
			break
		}
	}
}

// Publish sends event to the exchange with the event type as routing key.
func (p *RabbitPublisher) Publish(ctx context.Context, event domain.Event) error {
	msg, err := encodeEvent(event)
	if err != nil {
		return err
	}

	p.mu.RLock()
	ch := p.ch
	p.mu.RUnlock()
	if ch == nil || p.isClosed.Load() {
		return ErrNotConnected
	}

	if err := ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	if p.isClosed.Swap(true) {
		return nil
	}
	defer logger.Info("RabbitMQ publisher closed")

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

func encodeEvent(event domain.Event) (amqp091.Publishing, error) {
	if event.Type == "" {
		return amqp091.Publishing{}, fmt.Errorf("%w: event type is empty", domain.ErrInvalidInput)
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("failed to encode event: %w", err)
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	}, nil
}

// NopPublisher logs events instead of sending them. Used when the broker
// is disabled.
type NopPublisher struct{}

var _ domain.EventPublisher = NopPublisher{}

func (NopPublisher) Publish(_ context.Context, event domain.Event) error {
	logger.WithFields(logrus.Fields{"event": event.Type}).Debug("Broker disabled, event not published")
	return nil
}

func (NopPublisher) Close() error { return nil }
