package brokermessage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/dto"
	"cantina-chat/internal/chat/domain/models"
	"cantina-chat/internal/xpkg/config"
	xerrors "cantina-chat/internal/xpkg/errors"
	"cantina-chat/internal/xpkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnInterval = 5 * time.Second

// RabbitMQ publishes finalized orders to the kitchen exchange with publisher confirms.
type RabbitMQ struct {
	ctx          context.Context
	cfg          *config.RabbitMQ
	conn         *amqp.Connection
	ch           *amqp.Channel
	mylog        logger.Logger
	reconnecting bool
	mu           *sync.Mutex
}

// New connects and declares the orders exchange.
func New(ctx context.Context, rabbitmqCfg *config.RabbitMQ, mylog logger.Logger) (*RabbitMQ, error) {
	if rabbitmqCfg == nil {
		return nil, fmt.Errorf("rabbitmq config is missing")
	}
	r := &RabbitMQ{
		ctx:   ctx,
		cfg:   rabbitmqCfg,
		mylog: mylog,
		mu:    &sync.Mutex{},
	}
	if err := r.connect(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(URL(r.cfg))
	if err != nil {
		return fmt.Errorf("%w: %v", xerrors.ErrMBConn, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", xerrors.ErrMBCh, err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return fmt.Errorf("enable confirms: %w", err)
	}
	if err := ch.ExchangeDeclare(core.ExchangeOrders, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declare exchange %s: %w", core.ExchangeOrders, err)
	}

	r.mu.Lock()
	r.conn = conn
	r.ch = ch
	r.mu.Unlock()
	return nil
}

// URL builds the AMQP connection string.
func URL(cfg *config.RabbitMQ) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.VHost)
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

// PublishFinalized sends the order event and waits for the broker to confirm it.
func (r *RabbitMQ) PublishFinalized(ctx context.Context, order models.FinalizedOrder) error {
	mylog := r.mylog.Action("publish_order").With("order_id", order.ID)

	if err := r.IsAlive(); err != nil {
		mylog.Error("rabbitmq connection is closed", err)
		go r.reconnect(r.ctx)
		return fmt.Errorf("rabbitmq: %w", err)
	}

	body, err := json.Marshal(dto.NewOrderEvent(order))
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, core.ExchangeOrders, core.RoutingKeyOrderReady, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    order.ID,
		Timestamp:    order.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish order %s: %w", order.ID, err)
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("confirm order %s: %w", order.ID, err)
	}
	if !acked {
		return fmt.Errorf("order %s was not accepted by the broker", order.ID)
	}
	mylog.Debug("order event published")
	return nil
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

func (r *RabbitMQ) reconnect(ctx context.Context) {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.reconnecting = false
		r.mu.Unlock()
	}()

	t := time.NewTicker(reconnInterval)
	defer t.Stop()
	mylog := r.mylog.Action("rabbitmq_reconnecting")

	for {
		select {
		case <-t.C:
			if err := r.connect(); err != nil {
				mylog.Warn("rabbitmq failed to reconnect", "error", err.Error())
				continue
			}
			mylog.Info("rabbitmq reconnected")
			return
		case <-ctx.Done():
			return
		}
	}
}
