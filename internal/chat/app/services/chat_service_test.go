package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"
)

func TestChatServiceOrderScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.service.HandleMessage(ctx, "aluno-1", "quero 2 sucos e um sanduiche")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(core.ReplyItemsAdded, "2x suco, 1x sanduiche"), reply)

	open := f.openOrder(t, "aluno-1")
	require.NotNil(t, open)
	want := []models.LineItem{
		{Name: "suco", UnitPrice: price("3.00"), Quantity: 2},
		{Name: "sanduiche", UnitPrice: price("8.00"), Quantity: 1},
	}
	if diff := cmp.Diff(want, open.Items, decimalEqual); diff != "" {
		t.Errorf("open order items mismatch (-want +got):\n%s", diff)
	}

	reply, err = f.service.HandleMessage(ctx, "aluno-1", "só isso")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(core.ReplyFinalized, "2x suco, 1x sanduiche", "R$14.00"), reply)
	assert.Nil(t, f.openOrder(t, "aluno-1"))

	orders, err := f.service.Orders(ctx, "aluno-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "14.00", orders[0].Total.StringFixed(2))
	assert.Equal(t, 1, f.publisher.count())

	reply, err = f.service.HandleMessage(ctx, "aluno-1", "meus pedidos")
	require.NoError(t, err)
	assert.Contains(t, reply, "2x suco, 1x sanduiche — R$14.00 (Status: recebido)")
}

func TestChatServiceMultiplicationForm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.service.HandleMessage(ctx, "u1", "quero 2x suco")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(core.ReplyItemsAdded, "2x suco"), reply)

	reply, err = f.service.HandleMessage(ctx, "u1", "sanduiche x3")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(core.ReplyItemsAdded, "3x sanduiche"), reply)
}

func TestChatServiceFailedFinalizeIsRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.HandleMessage(ctx, "u1", "quero 2 sucos e um sanduiche")
	require.NoError(t, err)

	f.engine.finalRepo = &failingFinalized{FinalizedOrders: f.finalized}
	reply, err := f.service.HandleMessage(ctx, "u1", "só isso")
	require.NoError(t, err)
	assert.Equal(t, core.ReplyFinalizeFailed, reply)

	f.engine.finalRepo = f.finalized
	reply, err = f.service.HandleMessage(ctx, "u1", "só isso")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(core.ReplyFinalized, "2x suco, 1x sanduiche", "R$14.00"), reply)

	reply, err = f.service.HandleMessage(ctx, "u1", "só isso")
	require.NoError(t, err)
	assert.Equal(t, core.ReplyNothingToFinish, reply)

	orders, err := f.service.Orders(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestChatServiceRecordsTranscript(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.HandleMessage(ctx, "u1", "  oi  ")
	require.NoError(t, err)

	msgs, err := f.service.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "oi", msgs[0].Text)
	assert.Equal(t, models.OriginUser, msgs[0].Origin)
	assert.Equal(t, core.ReplyGreeting, msgs[1].Text)
	assert.Equal(t, models.OriginBot, msgs[1].Origin)

	deleted, err := f.service.ClearHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	msgs, err = f.service.History(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestChatServiceHistoryLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.service.HandleMessage(ctx, "u1", "oi")
		require.NoError(t, err)
	}

	msgs, err := f.service.History(ctx, "u1", 4)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)

	msgs, err = f.service.History(ctx, "u1", 1000)
	require.NoError(t, err)
	assert.Len(t, msgs, 6, "limit above the maximum falls back to the configured limit")
}

func TestChatServiceValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		text   string
		err    error
	}{
		{"empty user", " ", "oi", core.ErrFieldIsEmpty},
		{"empty text", "u1", "   ", core.ErrFieldIsEmpty},
		{"long user", strings.Repeat("u", core.MaxUserIDLen+1), "oi", core.ErrFieldTooLong},
		{"long text", "u1", strings.Repeat("a", core.MaxMessageLen+1), core.ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.HandleMessage(ctx, tt.userID, tt.text)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := f.service.History(ctx, "", 10)
	assert.ErrorIs(t, err, core.ErrFieldIsEmpty)
	_, err = f.service.ClearHistory(ctx, "")
	assert.ErrorIs(t, err, core.ErrFieldIsEmpty)
	_, err = f.service.Orders(ctx, "")
	assert.ErrorIs(t, err, core.ErrFieldIsEmpty)
}

func TestChatServiceContextLoadFailure(t *testing.T) {
	f := newFixture(t)
	f.open.failFind = true

	reply, err := f.service.HandleMessage(context.Background(), "u1", "quero 2 sucos")

	require.NoError(t, err)
	assert.Equal(t, core.ReplyRetry, reply)

	msgs, _ := f.service.History(context.Background(), "u1", 0)
	assert.Len(t, msgs, 2, "failed turns are still recorded")
}

func TestChatServiceMenu(t *testing.T) {
	f := newFixture(t)

	items, err := f.service.Menu(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "bebidas", items[0].Category)
}

func TestChatServiceSerialisesSameUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.HandleMessage(ctx, "u1", "quero 1 suco")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	open := f.openOrder(t, "u1")
	require.NotNil(t, open)
	require.Len(t, open.Items, 1)
	assert.Equal(t, 20, open.Items[0].Quantity, "no lost update between concurrent messages")
	assert.Zero(t, f.service.locks.size())
}

func TestUserLocksReleaseEntries(t *testing.T) {
	l := newUserLocks()

	unlockA := l.Lock("a")
	unlockB := l.Lock("b")
	assert.Equal(t, 2, l.size())

	unlockA()
	unlockB()
	assert.Zero(t, l.size())
}
