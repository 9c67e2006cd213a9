package dto

import (
	"time"

	"cantina-chat/internal/chat/domain/models"
)

// Prices and totals travel as fixed two-decimal strings.

type MenuItemResponse struct {
	ID          string `json:"_id"`
	Name        string `json:"nome"`
	Price       string `json:"preco"`
	Category    string `json:"categoria"`
	Description string `json:"descricao,omitempty"`
}

type LineItemResponse struct {
	Name      string `json:"nome"`
	UnitPrice string `json:"preco"`
	Quantity  int    `json:"quantidade"`
}

type OrderResponse struct {
	ID        string             `json:"_id"`
	Items     []LineItemResponse `json:"itens"`
	Total     string             `json:"total"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"data"`
}

// OrderEvent is the message published to the kitchen when an order is finalized.
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

func NewMenuItemResponses(items []models.CatalogItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, MenuItemResponse{
			ID:          item.ID,
			Name:        item.Name,
			Price:       item.Price.StringFixed(2),
			Category:    item.Category,
			Description: item.Description,
		})
	}
	return out
}

func NewOrderResponses(orders []models.FinalizedOrder) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		items := make([]LineItemResponse, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, LineItemResponse{
				Name:      item.Name,
				UnitPrice: item.UnitPrice.StringFixed(2),
				Quantity:  item.Quantity,
			})
		}
		out = append(out, OrderResponse{
			ID:        o.ID,
			Items:     items,
			Total:     o.Total.StringFixed(2),
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
		})
	}
	return out
}

func NewOrderEvent(o models.FinalizedOrder) OrderEvent {
	items := make([]OrderEventItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderEventItem{
			Name:      item.Name,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
		})
	}
	return OrderEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total.StringFixed(2),
		Status:    o.Status,
		CreatedAt: o.CreatedAt.UTC(),
	}
}
