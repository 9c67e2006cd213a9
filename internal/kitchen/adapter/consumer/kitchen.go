package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	brokermessage "cantina-chat/internal/kitchen/adapter/broker_message"
	"cantina-chat/internal/kitchen/adapter/db"
	"cantina-chat/internal/kitchen/app/core"
	"cantina-chat/internal/kitchen/domain/dto"
	"cantina-chat/internal/xpkg/config"
	"cantina-chat/internal/xpkg/logger"

	xdb "cantina-chat/internal/xpkg/db"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

// Kitchen consumes finalized orders and starts their preparation.
type Kitchen struct {
	cfg    *config.Config
	params *core.SubscriberParams
	mylog  logger.Logger

	db   core.IDB
	repo core.IStatusRepo
	mb   core.IRabbitMQ

	ctx    context.Context
	appCtx context.Context

	mu sync.Mutex
}

func NewKitchen(
	ctx context.Context,
	appCtx context.Context,
	cfg *config.Config,
	params *core.SubscriberParams,
	mylog logger.Logger,
) *Kitchen {
	return &Kitchen{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		params: params,
		mylog:  mylog,
	}
}

// Run connects to postgres and rabbitmq, then consumes until the context is cancelled
// or the broker closes the delivery channel. In-flight orders finish before it returns.
func (k *Kitchen) Run() error {
	mylog := k.mylog.Action("run_kitchen")

	if k.repo == nil {
		if err := k.initializeDatabase(); err != nil {
			mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
			return err
		}
		mylog.Action("db_connected").Info("Successful database connection")
	}

	if k.mb == nil {
		if err := k.initializeRabbitMQ(); err != nil {
			mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
			return err
		}
		mylog.Action("mb_connected").Info("Successful message broker connection")
	}

	hostname, _ := os.Hostname()
	deliveries, err := k.mb.Consume(k.ctx, "kitchen-"+hostname)
	if err != nil {
		return fmt.Errorf("failed to consume from rabbitmq: %w", err)
	}

	mylog.WithGroup("details").With("queue", core.QueueKitchen, "prefetch", k.params.Prefetch, "workers", k.params.Workers).
		Info("kitchen is consuming")
	return k.work(deliveries)
}

func (k *Kitchen) work(deliveries <-chan amqp.Delivery) error {
	g := new(errgroup.Group)
	g.SetLimit(k.params.Workers)

	for {
		select {
		case <-k.ctx.Done():
			k.mylog.Action("work_shutdown").Info("Stopping consumption due to context cancel")
			return g.Wait()

		case msg, ok := <-deliveries:
			if !ok {
				g.Wait()
				if k.ctx.Err() != nil {
					return nil
				}
				return core.ErrDeliveryClosed
			}
			// Go blocks while every worker is busy.
			g.Go(func() error {
				k.handle(msg)
				return nil
			})
		}
	}
}

// handle acks processed orders, drops malformed or unknown ones and requeues on storage failures.
func (k *Kitchen) handle(msg amqp.Delivery) {
	mylog := k.mylog.Action("process_order")

	requeue, err := k.process(msg.Body)
	if err != nil {
		mylog.Error("Failed to process order", err, "requeue", requeue, "delivery_tag", msg.DeliveryTag)
		if err := msg.Nack(false, requeue); err != nil {
			mylog.Error("Failed to nack", err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		mylog.Error("Failed to ack", err)
	}
}

func (k *Kitchen) process(body []byte) (requeue bool, err error) {
	var event dto.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return false, fmt.Errorf("%w: %v", core.ErrInvalidEvent, err)
	}
	if err := event.Validate(); err != nil {
		return false, err
	}

	mylog := k.mylog.Action("order_received").WithGroup("details").With("order_id", event.OrderID, "user_id", event.UserID)
	mylog.Info("Received order", "items", event.Summary(), "total", event.Total)

	// appCtx keeps in-flight updates alive through a shutdown signal.
	ctx, cancel := context.WithTimeout(k.appCtx, core.WaitTime*time.Second)
	defer cancel()

	updated, err := k.repo.StartPreparation(ctx, event.OrderID)
	if err != nil {
		if errors.Is(err, core.ErrOrderNotFound) {
			return false, err
		}
		return true, err
	}
	if updated {
		mylog.Info("Order is in preparation")
	} else {
		mylog.Debug("Order status already advanced, skipping")
	}
	return false, nil
}

// Stop closes the broker and database. Call it after Run returned.
func (k *Kitchen) Stop() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.mylog.Action("graceful_shutdown_started").Info("Shutting down")

	if k.mb != nil {
		if err := k.mb.Close(); err != nil {
			k.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		k.mylog.Action("mb_closed").Info("Message broker closed")
	}

	if k.db != nil {
		if err := k.db.Close(); err != nil {
			k.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		k.mylog.Action("db_closed").Info("Database closed")
	}

	k.mylog.Action("graceful_shutdown_completed").Info("Successfully shut down")
	return nil
}

func (k *Kitchen) initializeDatabase() error {
	d, err := xdb.Start(k.appCtx, k.cfg.DB, k.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	k.db = d
	k.repo = db.NewStatusRepo(d, k.cfg.Chat.InitialStatus, k.mylog)
	return nil
}

func (k *Kitchen) initializeRabbitMQ() error {
	mb, err := brokermessage.New(k.cfg.RMQ, k.mylog, k.params.Prefetch)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	k.mb = mb
	return nil
}
