package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cantina-chat/internal/kitchen/app/core"
	"cantina-chat/internal/xpkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type ackRecord struct {
	tag     uint64
	acked   bool
	requeue bool
}

// fakeAcks records how every delivery was settled.
type fakeAcks struct {
	mu      sync.Mutex
	records []ackRecord
}

func (f *fakeAcks) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, ackRecord{tag: tag, acked: true})
	return nil
}

func (f *fakeAcks) Nack(tag uint64, _ bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, ackRecord{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcks) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func (f *fakeAcks) byTag() map[uint64]ackRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uint64]ackRecord, len(f.records))
	for _, r := range f.records {
		out[r.tag] = r
	}
	return out
}

type fakeRepo struct {
	mu       sync.Mutex
	statuses map[string]string
	fail     error
	started  []string
}

func (f *fakeRepo) StartPreparation(_ context.Context, orderID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return false, f.fail
	}
	status, ok := f.statuses[orderID]
	if !ok {
		return false, core.ErrOrderNotFound
	}
	if status != "received" {
		return false, nil
	}
	f.statuses[orderID] = core.StatusInPreparation
	f.started = append(f.started, orderID)
	return true, nil
}

type fakeMB struct {
	deliveries chan amqp.Delivery
	closed     bool
}

func (f *fakeMB) Consume(context.Context, string) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeMB) Close() error {
	f.closed = true
	return nil
}

func newKitchen(ctx context.Context, repo core.IStatusRepo, mb core.IRabbitMQ) *Kitchen {
	k := NewKitchen(ctx, context.Background(), nil, &core.SubscriberParams{Prefetch: 4, Workers: 2}, logger.NewNop())
	k.repo = repo
	k.mb = mb
	return k
}

const validBody = `{"order_id":"o1","user_id":"u1","items":[{"name":"suco","unit_price":"3.00","quantity":2}],"total":"6.00","status":"received"}`

func delivery(acks *fakeAcks, tag uint64, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: acks, DeliveryTag: tag, Body: []byte(body)}
}

func TestKitchenSettlesDeliveries(t *testing.T) {
	repo := &fakeRepo{statuses: map[string]string{"o1": "received", "o2": core.StatusInPreparation}}
	mb := &fakeMB{deliveries: make(chan amqp.Delivery, 8)}
	acks := &fakeAcks{}

	mb.deliveries <- delivery(acks, 1, validBody)
	mb.deliveries <- delivery(acks, 2, `{"order_id":`)
	mb.deliveries <- delivery(acks, 3, `{"order_id":"o2","items":[{"name":"suco","quantity":1}],"total":"3.00"}`)
	mb.deliveries <- delivery(acks, 4, `{"order_id":"missing","items":[{"name":"suco","quantity":1}],"total":"3.00"}`)
	mb.deliveries <- delivery(acks, 5, `{"order_id":"o3","items":[],"total":"0"}`)
	close(mb.deliveries)

	k := newKitchen(context.Background(), repo, mb)
	err := k.Run()
	assert.ErrorIs(t, err, core.ErrDeliveryClosed)

	got := acks.byTag()
	require.Len(t, got, 5)
	assert.True(t, got[1].acked, "valid order")
	assert.Equal(t, ackRecord{tag: 2}, got[2], "malformed json is dropped")
	assert.True(t, got[3].acked, "redelivery of an advanced order")
	assert.Equal(t, ackRecord{tag: 4}, got[4], "unknown order is dropped")
	assert.Equal(t, ackRecord{tag: 5}, got[5], "empty order is dropped")

	assert.Equal(t, []string{"o1"}, repo.started)
	assert.Equal(t, core.StatusInPreparation, repo.statuses["o1"])

	require.NoError(t, k.Stop())
	assert.True(t, mb.closed)
}

func TestKitchenRequeuesOnStorageFailure(t *testing.T) {
	repo := &fakeRepo{fail: errors.New("connection reset")}
	mb := &fakeMB{deliveries: make(chan amqp.Delivery, 1)}
	acks := &fakeAcks{}

	mb.deliveries <- delivery(acks, 7, validBody)
	close(mb.deliveries)

	k := newKitchen(context.Background(), repo, mb)
	assert.ErrorIs(t, k.Run(), core.ErrDeliveryClosed)
	assert.Equal(t, ackRecord{tag: 7, requeue: true}, acks.byTag()[7])
}

func TestKitchenStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mb := &fakeMB{deliveries: make(chan amqp.Delivery)}
	k := newKitchen(ctx, &fakeRepo{}, mb)

	done := make(chan error, 1)
	go func() { done <- k.Run() }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("kitchen did not stop after cancel")
	}
}

func TestKitchenWorkerLimit(t *testing.T) {
	release := make(chan struct{})
	var (
		mu      sync.Mutex
		running int
		peak    int
	)
	repo := blockingRepo(func() {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()
		<-release
		mu.Lock()
		running--
		mu.Unlock()
	})

	mb := &fakeMB{deliveries: make(chan amqp.Delivery, 6)}
	acks := &fakeAcks{}
	for i := uint64(1); i <= 6; i++ {
		mb.deliveries <- delivery(acks, i, validBody)
	}
	close(mb.deliveries)

	k := newKitchen(context.Background(), repo, mb)
	done := make(chan error, 1)
	go func() { done <- k.Run() }()

	time.Sleep(50 * time.Millisecond)
	close(release)
	assert.ErrorIs(t, <-done, core.ErrDeliveryClosed)

	assert.LessOrEqual(t, peak, 2)
	assert.Len(t, acks.byTag(), 6)
}

type blockingRepo func()

func (b blockingRepo) StartPreparation(context.Context, string) (bool, error) {
	b()
	return true, nil
}
