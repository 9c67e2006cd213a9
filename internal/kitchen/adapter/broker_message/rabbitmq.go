package brokermessage

import (
	"context"
	"fmt"
	"sync"

	"cantina-chat/internal/kitchen/app/core"
	"cantina-chat/internal/xpkg/config"
	xerrors "cantina-chat/internal/xpkg/errors"
	"cantina-chat/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ consumes the kitchen queue bound to the orders exchange.
type RabbitMQ struct {
	cfg      *config.RabbitMQ
	conn     *amqp.Connection
	ch       *amqp.Channel
	mylog    logger.Logger
	mu       *sync.Mutex
	prefetch int
}

// New connects, declares the topology and applies the prefetch limit.
func New(rabbitmqCfg *config.RabbitMQ, mylog logger.Logger, prefetch int) (*RabbitMQ, error) {
	if rabbitmqCfg == nil {
		return nil, fmt.Errorf("rabbitmq config is missing")
	}
	r := &RabbitMQ{
		cfg:      rabbitmqCfg,
		mylog:    mylog,
		mu:       &sync.Mutex{},
		prefetch: prefetch,
	}
	if err := r.connect(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		r.cfg.User,
		r.cfg.Password,
		r.cfg.Host,
		r.cfg.Port,
		r.cfg.VHost,
	))
	if err != nil {
		return fmt.Errorf("%w: %v", xerrors.ErrMBConn, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", xerrors.ErrMBCh, err)
	}

	if err := declare(ch); err != nil {
		conn.Close()
		return err
	}

	if err := ch.Qos(r.prefetch, 0, false); err != nil {
		conn.Close()
		return fmt.Errorf("set prefetch %d: %w", r.prefetch, err)
	}

	r.mu.Lock()
	r.conn = conn
	r.ch = ch
	r.mu.Unlock()
	return nil
}

// declare is idempotent, so the kitchen may start before the chat service.
func declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(core.ExchangeOrders, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", core.ExchangeOrders, err)
	}
	if _, err := ch.QueueDeclare(core.QueueKitchen, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", core.QueueKitchen, err)
	}
	if err := ch.QueueBind(core.QueueKitchen, core.RoutingKeyOrderSent, core.ExchangeOrders, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", core.QueueKitchen, err)
	}
	return nil
}

func (r *RabbitMQ) IsAlive() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return xerrors.ErrMBConn
	}
	if r.ch == nil || r.ch.IsClosed() {
		return xerrors.ErrMBCh
	}
	return nil
}

// Consume starts manual-ack delivery from the kitchen queue.
func (r *RabbitMQ) Consume(ctx context.Context, consumerTag string) (<-chan amqp.Delivery, error) {
	if err := r.IsAlive(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()

	return ch.ConsumeWithContext(ctx, core.QueueKitchen, consumerTag, false, false, false, false, nil)
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %w", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}
