package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
)

type SubscriberParams struct {
	Prefetch int
	Workers  int
}

const (
	// in seconds for db response
	WaitTime = 20

	ExchangeOrders      = "canteen_orders"
	QueueKitchen        = "kitchen_orders"
	RoutingKeyOrderSent = "kitchen.order.received"

	StatusInPreparation = "in-preparation"
)

type IDB interface {
	Close() error
	IsAlive() error
	GetPool() *pgxpool.Pool
}

// IStatusRepo moves finalized orders forward. StartPreparation is a no-op for orders
// that already left the initial status.
type IStatusRepo interface {
	StartPreparation(ctx context.Context, orderID string) (bool, error)
}

type IRabbitMQ interface {
	Consume(ctx context.Context, consumerTag string) (<-chan amqp.Delivery, error)
	Close() error
}
