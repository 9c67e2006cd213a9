package services

import (
	"context"
	"strings"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/app/extract"
	"cantina-chat/internal/chat/app/intent"
	"cantina-chat/internal/chat/domain/models"
	"cantina-chat/internal/xpkg/logger"
)

// Inbound is everything the assistant needs to answer one message. The open order is nil when
// the user has none; History is newest first and Recent is the transcript tail, oldest first.
type Inbound struct {
	UserID    string
	Text      string
	OpenOrder *models.OpenOrder
	History   []models.FinalizedOrder
	Catalog   []models.CatalogItem
	Recent    []models.Message
}

type handler func(ctx context.Context, in Inbound) string

// Assistant classifies a message and hands it to the matching handler.
type Assistant struct {
	classifier   *intent.Classifier
	engine       *OrderEngine
	presenter    *Presenter
	generator    core.IGenerator
	systemPrompt string
	handlers     map[intent.Intent]handler
	mylog        logger.Logger
}

// NewAssistant wires the handlers. generator may be nil, in which case unmatched messages get
// the static fallback reply.
func NewAssistant(
	classifier *intent.Classifier,
	engine *OrderEngine,
	presenter *Presenter,
	generator core.IGenerator,
	systemPrompt string,
	mylog logger.Logger,
) *Assistant {
	a := &Assistant{
		classifier:   classifier,
		engine:       engine,
		presenter:    presenter,
		generator:    generator,
		systemPrompt: systemPrompt,
		mylog:        mylog,
	}
	a.handlers = map[intent.Intent]handler{
		intent.History:     a.history,
		intent.Cancel:      a.cancel,
		intent.OrderStatus: a.status,
		intent.Finalize:    a.finalize,
		intent.OrderItems:  a.addItems,
		intent.Greeting:    func(context.Context, Inbound) string { return core.ReplyGreeting },
		intent.Thanks:      func(context.Context, Inbound) string { return core.ReplyThanks },
		intent.Menu:        a.menu,
		intent.Fallback:    a.fallback,
	}
	return a
}

// Handle answers one message. It never fails: every error path has a reply text.
func (a *Assistant) Handle(ctx context.Context, in Inbound) string {
	in.Catalog = availableOnly(in.Catalog)

	it := a.classifier.Classify(in.Text, in.Catalog)
	a.mylog.Action("intent_classified").Debug("message classified", "user_id", in.UserID, "intent", string(it))

	h, ok := a.handlers[it]
	if !ok {
		h = a.fallback
	}
	return h(ctx, in)
}

func (a *Assistant) history(_ context.Context, in Inbound) string {
	return a.presenter.History(in.History)
}

func (a *Assistant) cancel(ctx context.Context, in Inbound) string {
	return a.engine.Cancel(ctx, in.UserID, in.OpenOrder)
}

func (a *Assistant) status(_ context.Context, in Inbound) string {
	return a.engine.Status(in.OpenOrder)
}

func (a *Assistant) finalize(ctx context.Context, in Inbound) string {
	return a.engine.Finalize(ctx, in.UserID, in.OpenOrder)
}

func (a *Assistant) addItems(ctx context.Context, in Inbound) string {
	return a.engine.AddItems(ctx, in.UserID, in.OpenOrder, extract.Extract(in.Text, in.Catalog))
}

func (a *Assistant) menu(_ context.Context, in Inbound) string {
	return a.presenter.Menu(in.Catalog)
}

func (a *Assistant) fallback(ctx context.Context, in Inbound) string {
	if a.generator == nil {
		return core.ReplyFallback
	}
	mylog := a.mylog.Action("generate_reply").With("user_id", in.UserID)

	reply, err := a.generator.Generate(ctx, a.systemPrompt, in.Recent, in.Text)
	if err != nil {
		mylog.Error("Failed to generate reply", err)
		return core.ReplyFallback
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		mylog.Warn("generator returned an empty reply")
		return core.ReplyFallback
	}
	return reply
}

func availableOnly(catalog []models.CatalogItem) []models.CatalogItem {
	out := make([]models.CatalogItem, 0, len(catalog))
	for _, item := range catalog {
		if item.Available {
			out = append(out, item)
		}
	}
	return out
}
