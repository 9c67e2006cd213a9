package dto

import (
	"fmt"
	"strings"
	"time"

	"cantina-chat/internal/kitchen/app/core"

	"github.com/shopspring/decimal"
)

// OrderEvent is what the chat service publishes for every finalized order.
type OrderEvent struct {
	OrderID   string           `json:"order_id"`
	UserID    string           `json:"user_id"`
	Items     []OrderEventItem `json:"items"`
	Total     string           `json:"total"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

type OrderEventItem struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Validate rejects events the kitchen cannot act on.
func (e OrderEvent) Validate() error {
	if strings.TrimSpace(e.OrderID) == "" {
		return fmt.Errorf("%w: order_id is empty", core.ErrInvalidEvent)
	}
	if len(e.Items) == 0 {
		return fmt.Errorf("%w: order %s has no items", core.ErrInvalidEvent, e.OrderID)
	}
	if _, err := decimal.NewFromString(e.Total); err != nil {
		return fmt.Errorf("%w: order %s total %q", core.ErrInvalidEvent, e.OrderID, e.Total)
	}
	for _, item := range e.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: order %s item %q quantity %d", core.ErrInvalidEvent, e.OrderID, item.Name, item.Quantity)
		}
	}
	return nil
}

// Summary renders the ticket line the kitchen logs, e.g. "2x suco, 1x sanduiche".
func (e OrderEvent) Summary() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}
