package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "eventapi.events"

	// how long a publish waits for the broker's confirm
	confirmWait = 150 * time.Millisecond
)

var (
	ErrClosed = errors.New("publisher closed")
	ErrNack   = errors.New("publish nack")
)

type dialFunc func(url string) (*amqp.Connection, error)

// Publisher sends change notifications to a durable topic exchange with
// publisher confirms. A channel lost to a broker restart is reopened on the
// next publish.
type Publisher struct {
	url      string
	exchange string
	dial     dialFunc

	mu     sync.Mutex
	closed bool
	conn   *amqp.Connection
	ch     *amqp.Channel

	confirms <-chan amqp.Confirmation
	returns  <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange, dial: amqp.Dial}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.open(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Exchange() string { return p.exchange }

// open dials, declares the exchange and enables confirms. Caller holds mu.
func (p *Publisher) open() error {
	dial := p.dial
	if dial == nil {
		dial = amqp.Dial
	}
	conn, err := dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbit dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbit channel: %w", err)
	}
	setup := func() error {
		if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
		}
		return ch.Confirm(false)
	}
	if err := setup(); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn, p.ch = conn, ch
	p.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returns = ch.NotifyReturn(make(chan amqp.Return, 1))
	return nil
}

// channel returns a live channel, reopening it when the broker dropped the
// previous one. Caller holds mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.release()
	if err := p.open(); err != nil {
		return nil, err
	}
	return p.ch, nil
}

// release drops the current connection. Caller holds mu.
func (p *Publisher) release() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	p.confirms, p.returns = nil, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.release()
	return nil
}

// PublishEvent publishes a persistent JSON message with mandatory set. An
// unroutable message (no queue bound yet) still counts as published.
func (p *Publisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	if routingKey == "" {
		return errors.New("missing routingKey")
	}
	if strings.TrimSpace(messageID) == "" {
		return errors.New("missing messageID")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(ctx, p.exchange, routingKey, true, false, message(messageID, body)); err != nil {
		return err
	}
	return p.awaitConfirm(ctx)
}

func message(messageID string, body []byte) amqp.Publishing {
	return amqp.Publishing{
		MessageId:    messageID,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
}

// awaitConfirm waits for the broker ack. A return precedes the confirm for
// unroutable messages and is skipped. Caller holds mu.
func (p *Publisher) awaitConfirm(ctx context.Context) error {
	timer := time.NewTimer(confirmWait)
	defer timer.Stop()

	for {
		select {
		case <-p.returns:
		case conf, ok := <-p.confirms:
			if !ok {
				return errors.New("channel closed before confirm")
			}
			if !conf.Ack {
				return ErrNack
			}
			return nil
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
