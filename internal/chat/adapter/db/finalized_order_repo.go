package db

import (
	"context"
	"encoding/json"
	"fmt"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type FinalizedOrderRepo struct {
	db core.IDB
}

func NewFinalizedOrderRepo(db core.IDB) *FinalizedOrderRepo {
	return &FinalizedOrderRepo{db: db}
}

// FindByUser returns the user's orders newest first.
func (fr *FinalizedOrderRepo) FindByUser(ctx context.Context, userID string) ([]models.FinalizedOrder, error) {
	if err := fr.db.IsAlive(); err != nil {
		return nil, core.ErrDBConn
	}

	q := `
		SELECT id, user_id, items, total::text, status, created_at
		FROM finalized_orders
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := fr.db.GetPool().Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query finalized orders: %w", err)
	}
	defer rows.Close()

	var orders []models.FinalizedOrder
	for rows.Next() {
		var (
			order models.FinalizedOrder
			items []byte
			total string
		)
		if err := rows.Scan(&order.ID, &order.UserID, &items, &total, &order.Status, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan finalized order: %w", err)
		}
		if order.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("finalized order %s total %q: %w", order.ID, total, err)
		}
		// Broken item payloads are shown as placeholders by the history view.
		if err := json.Unmarshal(items, &order.Items); err != nil {
			order.Items = []models.LineItem{{}}
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read finalized orders: %w", err)
	}
	return orders, nil
}

// Commit deletes the open order and inserts the finalized one in a single transaction.
func (fr *FinalizedOrderRepo) Commit(ctx context.Context, openID string, order models.FinalizedOrder) (_ models.FinalizedOrder, err error) {
	if err := fr.db.IsAlive(); err != nil {
		return models.FinalizedOrder{}, core.ErrDBConn
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	items, err := encodeItems(order.Items)
	if err != nil {
		return models.FinalizedOrder{}, err
	}

	tx, err := fr.db.GetPool().BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.FinalizedOrder{}, fmt.Errorf("begin commit: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM open_orders WHERE id = $1`, openID)
	if err != nil {
		return models.FinalizedOrder{}, fmt.Errorf("delete open order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.FinalizedOrder{}, core.ErrOrderNotFound
	}

	q := `
		INSERT INTO finalized_orders (id, user_id, items, total, status, created_at)
		VALUES ($1, $2, $3::text::jsonb, $4::text::numeric, $5, $6)`
	if _, err = tx.Exec(ctx, q, order.ID, order.UserID, items, order.Total.String(), order.Status, order.CreatedAt); err != nil {
		return models.FinalizedOrder{}, fmt.Errorf("insert finalized order: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return models.FinalizedOrder{}, fmt.Errorf("commit: %w", err)
	}
	return order, nil
}
