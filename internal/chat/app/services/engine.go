package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/app/extract"
	"cantina-chat/internal/chat/domain/models"
	"cantina-chat/internal/xpkg/logger"
)

// OrderEngine applies order transitions for one user. The caller passes the open order it loaded
// (nil when the user has none); the engine writes the result through the repositories and
// answers with the text shown to the user. Storage failures are logged and turned into a retry
// message, never returned.
type OrderEngine struct {
	openRepo      core.IOpenOrderRepo
	finalRepo     core.IFinalizedOrderRepo
	publisher     core.IOrderPublisher
	initialStatus string
	now           func() time.Time
	mylog         logger.Logger
}

// NewOrderEngine builds the engine. publisher may be nil when no kitchen is listening.
func NewOrderEngine(
	openRepo core.IOpenOrderRepo,
	finalRepo core.IFinalizedOrderRepo,
	publisher core.IOrderPublisher,
	initialStatus string,
	mylog logger.Logger,
) *OrderEngine {
	if initialStatus == "" {
		initialStatus = models.StatusReceived
	}
	return &OrderEngine{
		openRepo:      openRepo,
		finalRepo:     finalRepo,
		publisher:     publisher,
		initialStatus: initialStatus,
		now:           time.Now,
		mylog:         mylog,
	}
}

// AddItems opens an order with the extracted items or merges them into the open one.
// Items already present (same lower-case name) get their quantity increased and keep the unit
// price they were first added with. The reply lists only what was just added.
func (e *OrderEngine) AddItems(ctx context.Context, userID string, open *models.OpenOrder, found []extract.Extracted) string {
	mylog := e.mylog.Action("add_items").With("user_id", userID)
	if len(found) == 0 {
		mylog.Debug("no catalog item recognised")
		return core.ReplyNoItemsFound
	}

	added := make([]models.LineItem, 0, len(found))
	for _, f := range found {
		if f.Quantity <= 0 {
			continue
		}
		added = append(added, models.LineItem{
			Name:      f.Item.Name,
			UnitPrice: f.Item.Price,
			Quantity:  f.Quantity,
		})
	}
	if len(added) == 0 {
		return core.ReplyNoItemsFound
	}

	now := e.now().UTC()
	if open == nil {
		order := models.OpenOrder{
			UserID:    userID,
			Items:     added,
			StartedAt: now,
			UpdatedAt: now,
		}
		if _, err := e.openRepo.Insert(ctx, order); err != nil {
			mylog.Error("Failed to open order", err)
			return core.ReplyAddFailed
		}
		mylog.Info("order opened", "items", len(added))
		return fmt.Sprintf(core.ReplyItemsAdded, formatItems(added))
	}

	updated := *open
	updated.Items = MergeItems(open.Items, added)
	updated.UpdatedAt = now
	if err := e.openRepo.UpdateItems(ctx, updated); err != nil {
		mylog.Error("Failed to update open order", err, "order_id", open.ID)
		return core.ReplyAddFailed
	}
	mylog.Info("order updated", "order_id", open.ID, "items", len(updated.Items))
	return fmt.Sprintf(core.ReplyItemsAdded, formatItems(added))
}

// MergeItems returns a new slice with added folded into current by item key.
func MergeItems(current, added []models.LineItem) []models.LineItem {
	merged := make([]models.LineItem, len(current), len(current)+len(added))
	copy(merged, current)

	index := make(map[string]int, len(merged))
	for i, item := range merged {
		index[item.Key()] = i
	}
	for _, item := range added {
		if i, ok := index[item.Key()]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.Key()] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func (e *OrderEngine) Status(open *models.OpenOrder) string {
	if open == nil || len(open.Items) == 0 {
		return core.ReplyNoOrder
	}
	return fmt.Sprintf(core.ReplyOpenStatus, formatItems(open.Items))
}

// Finalize commits the open order: the finalized record, with its total frozen, is written in
// the same store operation that removes the open order, then the kitchen is notified. A failed
// commit leaves the open order in place; a failed publish is only logged.
func (e *OrderEngine) Finalize(ctx context.Context, userID string, open *models.OpenOrder) string {
	mylog := e.mylog.Action("finalize_order").With("user_id", userID)
	if open == nil || len(open.Items) == 0 {
		return core.ReplyNothingToFinish
	}

	items := make([]models.LineItem, len(open.Items))
	copy(items, open.Items)

	order, err := e.finalRepo.Commit(ctx, open.ID, models.FinalizedOrder{
		UserID:    userID,
		Items:     items,
		Total:     models.Total(items),
		Status:    e.initialStatus,
		CreatedAt: e.now().UTC(),
	})
	switch {
	case errors.Is(err, core.ErrOrderNotFound):
		mylog.Warn("open order already gone", "order_id", open.ID)
		return core.ReplyNothingToFinish
	case err != nil:
		mylog.Error("Failed to commit finalized order", err, "order_id", open.ID)
		return core.ReplyFinalizeFailed
	}

	if e.publisher != nil {
		if err := e.publisher.PublishFinalized(ctx, order); err != nil {
			mylog.Error("Failed to publish finalized order", err, "order_id", order.ID)
		}
	}

	mylog.Info("order finalized", "order_id", order.ID, "total", order.Total.StringFixed(2))
	return fmt.Sprintf(core.ReplyFinalized, formatItems(order.Items), formatPrice(order.Total))
}

func (e *OrderEngine) Cancel(ctx context.Context, userID string, open *models.OpenOrder) string {
	mylog := e.mylog.Action("cancel_order").With("user_id", userID)
	if open == nil {
		return core.ReplyNothingToCancel
	}
	if err := e.openRepo.Delete(ctx, open.ID); err != nil {
		mylog.Error("Failed to delete open order", err, "order_id", open.ID)
		return core.ReplyCancelFailed
	}
	mylog.Info("order cancelled", "order_id", open.ID)
	return core.ReplyCancelled
}
