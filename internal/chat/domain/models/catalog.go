package models

import "github.com/shopspring/decimal"

type CatalogItem struct {
	ID          string          `json:"_id"`
	Name        string          `json:"nome"`
	Price       decimal.Decimal `json:"preco"`
	Category    string          `json:"categoria"`
	Description string          `json:"descricao,omitempty"`
	Available   bool            `json:"disponibilidade"`
}
