package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type OpenOrderRepo struct {
	db core.IDB
}

func NewOpenOrderRepo(db core.IDB) *OpenOrderRepo {
	return &OpenOrderRepo{db: db}
}

func (or *OpenOrderRepo) FindByUser(ctx context.Context, userID string) (*models.OpenOrder, error) {
	if err := or.db.IsAlive(); err != nil {
		return nil, core.ErrDBConn
	}

	q := `SELECT id, user_id, items, started_at, updated_at FROM open_orders WHERE user_id = $1`
	var (
		order models.OpenOrder
		items []byte
	)
	err := or.db.GetPool().QueryRow(ctx, q, userID).Scan(&order.ID, &order.UserID, &items, &order.StartedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open order: %w", err)
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("decode open order %s items: %w", order.ID, err)
	}
	return &order, nil
}

func (or *OpenOrderRepo) Insert(ctx context.Context, order models.OpenOrder) (models.OpenOrder, error) {
	if err := or.db.IsAlive(); err != nil {
		return models.OpenOrder{}, core.ErrDBConn
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	items, err := encodeItems(order.Items)
	if err != nil {
		return models.OpenOrder{}, err
	}

	q := `
		INSERT INTO open_orders (id, user_id, items, started_at, updated_at)
		VALUES ($1, $2, $3::text::jsonb, $4, $5)`
	if _, err := or.db.GetPool().Exec(ctx, q, order.ID, order.UserID, items, order.StartedAt, order.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.OpenOrder{}, core.ErrOrderExists
		}
		return models.OpenOrder{}, fmt.Errorf("insert open order: %w", err)
	}
	return order, nil
}

func (or *OpenOrderRepo) UpdateItems(ctx context.Context, order models.OpenOrder) error {
	if err := or.db.IsAlive(); err != nil {
		return core.ErrDBConn
	}
	items, err := encodeItems(order.Items)
	if err != nil {
		return err
	}

	q := `UPDATE open_orders SET items = $1::text::jsonb, updated_at = $2 WHERE id = $3`
	tag, err := or.db.GetPool().Exec(ctx, q, items, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("update open order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrOrderNotFound
	}
	return nil
}

func (or *OpenOrderRepo) Delete(ctx context.Context, id string) error {
	if err := or.db.IsAlive(); err != nil {
		return core.ErrDBConn
	}

	tag, err := or.db.GetPool().Exec(ctx, `DELETE FROM open_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete open order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrOrderNotFound
	}
	return nil
}

func encodeItems(items []models.LineItem) (string, error) {
	if items == nil {
		items = []models.LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	return string(b), nil
}
