package core

import (
	"context"

	"cantina-chat/internal/chat/domain/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IDB interface {
	Close() error
	IsAlive() error
	GetPool() *pgxpool.Pool
}

// ICatalog is the read-only menu query.
type ICatalog interface {
	Available(ctx context.Context) ([]models.CatalogItem, error)
}

// IOpenOrderRepo holds at most one open order per user. FindByUser returns nil, nil when
// the user has no open order.
type IOpenOrderRepo interface {
	FindByUser(ctx context.Context, userID string) (*models.OpenOrder, error)
	Insert(ctx context.Context, order models.OpenOrder) (models.OpenOrder, error)
	UpdateItems(ctx context.Context, order models.OpenOrder) error
	Delete(ctx context.Context, id string) error
}

// IFinalizedOrderRepo is append-only from the chat's point of view.
// FindByUser returns the newest orders first. Commit stores order and deletes the open order
// openID as one unit; it returns ErrOrderNotFound and writes nothing when that open order is gone.
type IFinalizedOrderRepo interface {
	FindByUser(ctx context.Context, userID string) ([]models.FinalizedOrder, error)
	Commit(ctx context.Context, openID string, order models.FinalizedOrder) (models.FinalizedOrder, error)
}

// IMessageRepo stores the chat transcript. Recent returns the last n turns oldest first.
type IMessageRepo interface {
	Append(ctx context.Context, msgs ...models.Message) error
	Recent(ctx context.Context, userID string, n int) ([]models.Message, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// IOrderPublisher announces committed orders to the kitchen.
type IOrderPublisher interface {
	PublishFinalized(ctx context.Context, order models.FinalizedOrder) error
	Close() error
}

// IGenerator writes a free-form reply when no intent matches.
type IGenerator interface {
	Generate(ctx context.Context, systemPrompt string, recent []models.Message, text string) (string, error)
}
