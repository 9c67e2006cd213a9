package db

import (
	"context"
	"fmt"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MessageRepo struct {
	db core.IDB
}

func NewMessageRepo(db core.IDB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Append writes all messages in one batch, in order.
func (mr *MessageRepo) Append(ctx context.Context, msgs ...models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := mr.db.IsAlive(); err != nil {
		return core.ErrDBConn
	}

	q := `INSERT INTO chat_messages (id, user_id, text, origin, created_at) VALUES ($1, $2, $3, $4, $5)`
	batch := &pgx.Batch{}
	for _, msg := range msgs {
		id := msg.ID
		if id == "" {
			id = uuid.NewString()
		}
		batch.Queue(q, id, msg.UserID, msg.Text, msg.Origin, msg.CreatedAt)
	}
	if err := mr.db.GetPool().SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert chat messages: %w", err)
	}
	return nil
}

// Recent returns the last n messages of the user, oldest first.
func (mr *MessageRepo) Recent(ctx context.Context, userID string, n int) ([]models.Message, error) {
	if n <= 0 {
		return nil, nil
	}
	if err := mr.db.IsAlive(); err != nil {
		return nil, core.ErrDBConn
	}

	q := `
		SELECT id, user_id, text, origin, created_at FROM (
			SELECT seq, id, user_id, text, origin, created_at
			FROM chat_messages
			WHERE user_id = $1
			ORDER BY seq DESC
			LIMIT $2
		) recent
		ORDER BY seq`
	rows, err := mr.db.GetPool().Query(ctx, q, userID, n)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	msgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Message, error) {
		var m models.Message
		err := row.Scan(&m.ID, &m.UserID, &m.Text, &m.Origin, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("read chat messages: %w", err)
	}
	return msgs, nil
}

func (mr *MessageRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if err := mr.db.IsAlive(); err != nil {
		return 0, core.ErrDBConn
	}

	tag, err := mr.db.GetPool().Exec(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete chat messages: %w", err)
	}
	return tag.RowsAffected(), nil
}
