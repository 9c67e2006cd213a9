package services

import (
	"fmt"
	"strings"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"

	"github.com/shopspring/decimal"
)

// formatItems renders "2x suco, 1x sanduiche". Lines without a name or with a non-positive
// quantity are shown as a placeholder.
func formatItems(items []models.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Quantity <= 0 {
			parts = append(parts, core.UnknownItemLabel)
			continue
		}
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, name))
	}
	return strings.Join(parts, ", ")
}

func formatPrice(d decimal.Decimal) string {
	return core.CurrencySymbol + d.StringFixed(2)
}
