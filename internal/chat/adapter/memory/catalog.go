package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"cantina-chat/internal/chat/domain/models"
	"cantina-chat/internal/xpkg/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog is a fixed menu held in memory.
type Catalog struct {
	mu    sync.RWMutex
	items []models.CatalogItem
}

func NewCatalog(items []models.CatalogItem) *Catalog {
	c := &Catalog{}
	c.Replace(items)
	return c
}

// CatalogFromConfig builds the menu from the config seed.
func CatalogFromConfig(menu []config.MenuItem) (*Catalog, error) {
	items, err := ItemsFromConfig(menu)
	if err != nil {
		return nil, err
	}
	return NewCatalog(items), nil
}

// ItemsFromConfig validates the config seed. Items without an explicit availability
// flag are available.
func ItemsFromConfig(menu []config.MenuItem) ([]models.CatalogItem, error) {
	items := make([]models.CatalogItem, 0, len(menu))
	for i, m := range menu {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("menu item %d: name is empty", i+1)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(m.Price))
		if err != nil {
			return nil, fmt.Errorf("menu item %q: invalid price %q: %w", m.Name, m.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("menu item %q: negative price", m.Name)
		}
		available := true
		if m.Available != nil {
			available = *m.Available
		}
		items = append(items, models.CatalogItem{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(m.Name),
			Price:       price,
			Category:    strings.TrimSpace(m.Category),
			Description: m.Description,
			Available:   available,
		})
	}
	return items, nil
}

// Replace swaps the whole menu.
func (c *Catalog) Replace(items []models.CatalogItem) {
	sorted := make([]models.CatalogItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Category != sorted[j].Category {
			return sorted[i].Category < sorted[j].Category
		}
		return sorted[i].Name < sorted[j].Name
	})

	c.mu.Lock()
	c.items = sorted
	c.mu.Unlock()
}

// Available returns the available items sorted by category and name.
func (c *Catalog) Available(_ context.Context) ([]models.CatalogItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.CatalogItem, 0, len(c.items))
	for _, item := range c.items {
		if item.Available {
			out = append(out, item)
		}
	}
	return out, nil
}
