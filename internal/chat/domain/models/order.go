package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusReceived      = "received"
	StatusInPreparation = "in-preparation"
	StatusReady         = "ready"
	StatusDelivered     = "delivered"
)

// LineItem is one catalog item and a quantity inside an order.
// UnitPrice is the catalog price at the moment the item was added.
type LineItem struct {
	Name      string          `json:"nome"`
	UnitPrice decimal.Decimal `json:"preco"`
	Quantity  int             `json:"quantidade"`
}

// Key is the merge identity of a line item.
func (li LineItem) Key() string {
	return strings.ToLower(strings.TrimSpace(li.Name))
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// OpenOrder is the single in-progress order of a user. Its existence is the "order open" state.
type OpenOrder struct {
	ID        string     `json:"_id"`
	UserID    string     `json:"usuario_id"`
	Items     []LineItem `json:"itens"`
	StartedAt time.Time  `json:"data_inicio"`
	UpdatedAt time.Time  `json:"data_atualizacao"`
}

// FinalizedOrder is an immutable committed order. Total is computed once at finalize time.
type FinalizedOrder struct {
	ID        string          `json:"_id"`
	UserID    string          `json:"usuario_id"`
	Items     []LineItem      `json:"itens"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"data"`
}

// Total sums unit price times quantity over items.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
