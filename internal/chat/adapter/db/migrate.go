package db

import (
	"context"
	_ "embed"
	"fmt"

	"cantina-chat/internal/chat/app/core"
)

//go:embed schema.sql
var schema string

// Migrate creates the chat tables when they do not exist yet.
func Migrate(ctx context.Context, db core.IDB) error {
	if err := db.IsAlive(); err != nil {
		return core.ErrDBConn
	}
	if _, err := db.GetPool().Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
