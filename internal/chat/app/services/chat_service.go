package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/domain/models"
	"cantina-chat/internal/xpkg/logger"

	"golang.org/x/sync/errgroup"
)

// Repositories groups the stores the chat service reads and writes.
type Repositories struct {
	Catalog   core.ICatalog
	Open      core.IOpenOrderRepo
	Finalized core.IFinalizedOrderRepo
	Messages  core.IMessageRepo
}

type ChatService struct {
	repos        Repositories
	assistant    *Assistant
	locks        *userLocks
	recentTurns  int
	historyLimit int
	now          func() time.Time
	mylog        logger.Logger
}

func NewChatService(repos Repositories, assistant *Assistant, recentTurns, historyLimit int, mylog logger.Logger) *ChatService {
	return &ChatService{
		repos:        repos,
		assistant:    assistant,
		locks:        newUserLocks(),
		recentTurns:  recentTurns,
		historyLimit: historyLimit,
		now:          time.Now,
		mylog:        mylog,
	}
}

// HandleMessage answers one user message and records both turns in the transcript.
// Only invalid input is returned as an error; failures past validation end up in the reply.
func (cs *ChatService) HandleMessage(ctx context.Context, userID, text string) (string, error) {
	userID = strings.TrimSpace(userID)
	text = strings.TrimSpace(text)
	if err := validateMessage(userID, text); err != nil {
		return "", err
	}
	mylog := cs.mylog.Action("handle_message").With("user_id", userID)

	unlock := cs.locks.Lock(userID)
	defer unlock()

	received := cs.now().UTC()
	in, err := cs.loadContext(ctx, userID, text)
	var reply string
	if err != nil {
		mylog.Error("Failed to load chat context", err)
		reply = core.ReplyRetry
	} else {
		reply = cs.assistant.Handle(ctx, in)
	}

	err = cs.repos.Messages.Append(ctx,
		models.Message{UserID: userID, Text: text, Origin: models.OriginUser, CreatedAt: received},
		models.Message{UserID: userID, Text: reply, Origin: models.OriginBot, CreatedAt: cs.now().UTC()},
	)
	if err != nil {
		mylog.Error("Failed to save transcript", err)
	}
	return reply, nil
}

// loadContext reads the open order, the order history, the catalog and the transcript tail
// concurrently.
func (cs *ChatService) loadContext(ctx context.Context, userID, text string) (Inbound, error) {
	in := Inbound{UserID: userID, Text: text}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		open, err := cs.repos.Open.FindByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("open order: %w", err)
		}
		in.OpenOrder = open
		return nil
	})
	g.Go(func() error {
		history, err := cs.repos.Finalized.FindByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("order history: %w", err)
		}
		in.History = history
		return nil
	})
	g.Go(func() error {
		catalog, err := cs.repos.Catalog.Available(gctx)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		in.Catalog = catalog
		return nil
	})
	g.Go(func() error {
		recent, err := cs.repos.Messages.Recent(gctx, userID, cs.recentTurns)
		if err != nil {
			return fmt.Errorf("transcript: %w", err)
		}
		in.Recent = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return Inbound{}, err
	}
	return in, nil
}

// History returns the last limit transcript turns, oldest first. A non-positive limit uses the
// configured default.
func (cs *ChatService) History(ctx context.Context, userID string, limit int) ([]models.Message, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("usuario_id: %w", core.ErrFieldIsEmpty)
	}
	if limit <= 0 || limit > cs.historyLimit {
		limit = cs.historyLimit
	}
	msgs, err := cs.repos.Messages.Recent(ctx, userID, limit)
	if err != nil {
		cs.mylog.Action("chat_history").Error("Failed to read transcript", err, "user_id", userID)
		return nil, err
	}
	return msgs, nil
}

func (cs *ChatService) ClearHistory(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("usuario_id: %w", core.ErrFieldIsEmpty)
	}
	mylog := cs.mylog.Action("clear_history").With("user_id", userID)

	deleted, err := cs.repos.Messages.DeleteByUser(ctx, userID)
	if err != nil {
		mylog.Error("Failed to delete transcript", err)
		return 0, err
	}
	mylog.Info("transcript deleted", "deleted", deleted)
	return deleted, nil
}

// Menu returns the available catalog items, sorted by category and name by the store.
func (cs *ChatService) Menu(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := cs.repos.Catalog.Available(ctx)
	if err != nil {
		cs.mylog.Action("menu").Error("Failed to read catalog", err)
		return nil, err
	}
	return items, nil
}

// Orders returns the finalized orders of a user, newest first, with the totals frozen at
// finalize time.
func (cs *ChatService) Orders(ctx context.Context, userID string) ([]models.FinalizedOrder, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("usuario_id: %w", core.ErrFieldIsEmpty)
	}
	orders, err := cs.repos.Finalized.FindByUser(ctx, userID)
	if err != nil {
		cs.mylog.Action("order_history").Error("Failed to read orders", err, "user_id", userID)
		return nil, err
	}
	return orders, nil
}

func validateMessage(userID, text string) error {
	if userID == "" {
		return fmt.Errorf("usuario_id: %w", core.ErrFieldIsEmpty)
	}
	if text == "" {
		return fmt.Errorf("mensagem: %w", core.ErrFieldIsEmpty)
	}
	if utf8.RuneCountInString(userID) > core.MaxUserIDLen {
		return fmt.Errorf("usuario_id must be at most %d characters: %w", core.MaxUserIDLen, core.ErrFieldTooLong)
	}
	if utf8.RuneCountInString(text) > core.MaxMessageLen {
		return fmt.Errorf("mensagem must be at most %d characters: %w", core.MaxMessageLen, core.ErrFieldTooLong)
	}
	return nil
}
