package db

import (
	"context"
	"errors"
	"fmt"

	"cantina-chat/internal/kitchen/app/core"
	xerrors "cantina-chat/internal/xpkg/errors"
	"cantina-chat/internal/xpkg/logger"

	"github.com/jackc/pgx/v5"
)

type StatusRepo struct {
	db         core.IDB
	fromStatus string
	mylog      logger.Logger
}

// NewStatusRepo moves orders out of fromStatus, the status the chat service finalizes with.
func NewStatusRepo(db core.IDB, fromStatus string, mylog logger.Logger) *StatusRepo {
	return &StatusRepo{
		db:         db,
		fromStatus: fromStatus,
		mylog:      mylog,
	}
}

// StartPreparation sets the order to in-preparation. It reports false when the order
// was already past the initial status, which makes redeliveries harmless.
func (sr *StatusRepo) StartPreparation(ctx context.Context, orderID string) (updated bool, err error) {
	mylog := sr.mylog.Action("start_preparation").With("order_id", orderID)

	if err := sr.db.IsAlive(); err != nil {
		return false, fmt.Errorf("%w: %v", xerrors.ErrDBConn, err)
	}

	tx, err := sr.db.GetPool().BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM finalized_orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, core.ErrOrderNotFound
	}
	if err != nil {
		return false, fmt.Errorf("get order status: %w", err)
	}

	if status != sr.fromStatus {
		mylog.Debug("order already advanced", "status", status)
		err = tx.Commit(ctx)
		return false, err
	}

	if _, err = tx.Exec(ctx, `UPDATE finalized_orders SET status = $1 WHERE id = $2`, core.StatusInPreparation, orderID); err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
