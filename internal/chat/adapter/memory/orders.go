package memory

import (
	"context"
	"sort"
	"sync"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"

	"github.com/google/uuid"
)

// OpenOrders keeps at most one open order per user.
type OpenOrders struct {
	mu     sync.Mutex
	byUser map[string]models.OpenOrder
}

func NewOpenOrders() *OpenOrders {
	return &OpenOrders{byUser: make(map[string]models.OpenOrder)}
}

func (o *OpenOrders) FindByUser(_ context.Context, userID string) (*models.OpenOrder, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	order, ok := o.byUser[userID]
	if !ok {
		return nil, nil
	}
	order.Items = cloneItems(order.Items)
	return &order, nil
}

func (o *OpenOrders) Insert(_ context.Context, order models.OpenOrder) (models.OpenOrder, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.byUser[order.UserID]; ok {
		return models.OpenOrder{}, core.ErrOrderExists
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	stored := order
	stored.Items = cloneItems(order.Items)
	o.byUser[order.UserID] = stored
	return order, nil
}

func (o *OpenOrders) UpdateItems(_ context.Context, order models.OpenOrder) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	userID, ok := o.userOf(order.ID)
	if !ok {
		return core.ErrOrderNotFound
	}
	stored := o.byUser[userID]
	stored.Items = cloneItems(order.Items)
	stored.UpdatedAt = order.UpdatedAt
	o.byUser[userID] = stored
	return nil
}

func (o *OpenOrders) Delete(_ context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	userID, ok := o.userOf(id)
	if !ok {
		return core.ErrOrderNotFound
	}
	delete(o.byUser, userID)
	return nil
}

func (o *OpenOrders) userOf(id string) (string, bool) {
	for userID, order := range o.byUser {
		if order.ID == id {
			return userID, true
		}
	}
	return "", false
}

// FinalizedOrders is an append-only list of committed orders. Orders come in only through
// Commit, which takes them out of the open store they were built in.
type FinalizedOrders struct {
	mu     sync.RWMutex
	orders []models.FinalizedOrder
	open   *OpenOrders
}

func NewFinalizedOrders(open *OpenOrders) *FinalizedOrders {
	return &FinalizedOrders{open: open}
}

// FindByUser returns the user's orders newest first.
func (f *FinalizedOrders) FindByUser(_ context.Context, userID string) ([]models.FinalizedOrder, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []models.FinalizedOrder
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			order := f.orders[i]
			order.Items = cloneItems(order.Items)
			out = append(out, order)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Commit appends order and removes the open order openID under both locks. When the open order
// is already gone nothing is written and ErrOrderNotFound is returned.
func (f *FinalizedOrders) Commit(_ context.Context, openID string, order models.FinalizedOrder) (models.FinalizedOrder, error) {
	f.open.mu.Lock()
	defer f.open.mu.Unlock()
	f.mu.Lock()
	defer f.mu.Unlock()

	userID, ok := f.open.userOf(openID)
	if !ok {
		return models.FinalizedOrder{}, core.ErrOrderNotFound
	}
	delete(f.open.byUser, userID)

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	stored := order
	stored.Items = cloneItems(order.Items)
	f.orders = append(f.orders, stored)
	return order, nil
}

func cloneItems(items []models.LineItem) []models.LineItem {
	if items == nil {
		return nil
	}
	out := make([]models.LineItem, len(items))
	copy(out, items)
	return out
}
