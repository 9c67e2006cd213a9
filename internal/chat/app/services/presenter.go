package services

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"
)

const historyTimeLayout = "02/01/2006 15:04:05"

var statusLabels = map[string]string{
	models.StatusReceived:      "recebido",
	models.StatusInPreparation: "em preparo",
	models.StatusReady:         "pronto",
	models.StatusDelivered:     "entregue",
}

// Presenter turns catalog and history records into chat text.
type Presenter struct {
	loc *time.Location
}

// NewPresenter renders timestamps in loc, or UTC when loc is nil.
func NewPresenter(loc *time.Location) *Presenter {
	if loc == nil {
		loc = time.UTC
	}
	return &Presenter{loc: loc}
}

// Menu groups the available items by category, keeping the order in which each category is
// first seen and the item order of the catalog query.
func (p *Presenter) Menu(catalog []models.CatalogItem) string {
	var categories []string
	lines := make(map[string][]string)
	for _, item := range catalog {
		if !item.Available || strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Category) == "" {
			continue
		}
		category := capitalize(item.Category)
		if _, ok := lines[category]; !ok {
			categories = append(categories, category)
		}
		lines[category] = append(lines[category], fmt.Sprintf("- %s (%s)", item.Name, formatPrice(item.Price)))
	}
	if len(categories) == 0 {
		return core.ReplyEmptyMenu
	}

	var b strings.Builder
	b.WriteString(core.ReplyMenuHeader)
	for _, category := range categories {
		fmt.Fprintf(&b, "\n\n📌 *%s*\n", category)
		b.WriteString(strings.Join(lines[category], "\n"))
	}
	return b.String()
}

// History renders one line per finalized order in the order given (newest first from the store).
func (p *Presenter) History(orders []models.FinalizedOrder) string {
	if len(orders) == 0 {
		return core.ReplyNoHistory
	}

	var b strings.Builder
	b.WriteString(core.ReplyHistoryHeader)
	b.WriteString("\n")
	for _, order := range orders {
		fmt.Fprintf(&b, "\n📅 %s: %s — %s (Status: %s)",
			order.CreatedAt.In(p.loc).Format(historyTimeLayout),
			formatItems(order.Items),
			formatPrice(order.Total),
			statusLabel(order.Status),
		)
	}
	return b.String()
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	if status == "" {
		return core.UnknownStatusLabel
	}
	return status
}

// capitalize upper-cases the first letter and lower-cases the rest: "BEBIDAS" -> "Bebidas".
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
