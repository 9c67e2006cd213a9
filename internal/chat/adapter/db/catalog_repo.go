package db

import (
	"context"
	"fmt"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogRepo struct {
	db core.IDB
}

func NewCatalogRepo(db core.IDB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Available returns the available items sorted by category and name.
func (cr *CatalogRepo) Available(ctx context.Context) ([]models.CatalogItem, error) {
	if err := cr.db.IsAlive(); err != nil {
		return nil, core.ErrDBConn
	}

	q := `
		SELECT id, name, price::text, category, description, available
		FROM catalog_items
		WHERE available
		ORDER BY category, name`
	rows, err := cr.db.GetPool().Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		var (
			item  models.CatalogItem
			price string
		)
		if err := rows.Scan(&item.ID, &item.Name, &price, &item.Category, &item.Description, &item.Available); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("catalog item %q price %q: %w", item.Name, price, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return items, nil
}

// Seed inserts the given items, leaving existing names untouched.
func (cr *CatalogRepo) Seed(ctx context.Context, items []models.CatalogItem) (int64, error) {
	if err := cr.db.IsAlive(); err != nil {
		return 0, core.ErrDBConn
	}

	tx, err := cr.db.GetPool().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback(ctx)

	q := `
		INSERT INTO catalog_items (id, name, price, category, description, available)
		VALUES ($1, $2, $3::text::numeric, $4, $5, $6)
		ON CONFLICT DO NOTHING`
	var inserted int64
	for _, item := range items {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		tag, err := tx.Exec(ctx, q, id, item.Name, item.Price.String(), item.Category, item.Description, item.Available)
		if err != nil {
			return 0, fmt.Errorf("insert catalog item %q: %w", item.Name, err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return inserted, nil
}
