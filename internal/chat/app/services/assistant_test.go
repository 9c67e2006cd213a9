package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/app/intent"
	"cantina-chat/internal/chat/domain/models"
	"cantina-chat/internal/xpkg/logger"
)

func newAssistant(f *fixture, gen core.IGenerator) *Assistant {
	return NewAssistant(
		intent.NewClassifier(intent.DefaultRules()),
		f.engine,
		NewPresenter(time.UTC),
		gen,
		"prompt",
		logger.NewNop(),
	)
}

func TestAssistantStaticReplies(t *testing.T) {
	a := newAssistant(newFixture(t), nil)
	ctx := context.Background()
	in := Inbound{UserID: "u1", Catalog: canteenMenu()}

	tests := []struct {
		text     string
		expected string
	}{
		{"oi", core.ReplyGreeting},
		{"obrigado", core.ReplyThanks},
		{"blablabla", core.ReplyFallback},
		{"meus pedidos", core.ReplyNoHistory},
		{"qual meu pedido", core.ReplyNoOrder},
		{"cancelar pedido", core.ReplyNothingToCancel},
		{"só isso", core.ReplyNothingToFinish},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			in.Text = tt.text
			assert.Equal(t, tt.expected, a.Handle(ctx, in))
		})
	}
}

func TestAssistantMenuUsesAvailableItemsOnly(t *testing.T) {
	a := newAssistant(newFixture(t), nil)
	catalog := append(canteenMenu(), models.CatalogItem{Name: "bolo", Price: price("6"), Category: "doces"})

	reply := a.Handle(context.Background(), Inbound{UserID: "u1", Text: "cardápio", Catalog: catalog})

	assert.Contains(t, reply, "- suco (R$3.00)")
	assert.NotContains(t, reply, "bolo")
}

func TestAssistantItemMentionWithoutRecognisedItem(t *testing.T) {
	f := newFixture(t)
	a := newAssistant(f, nil)

	reply := a.Handle(context.Background(), Inbound{UserID: "u1", Text: "quero pedir", Catalog: canteenMenu()})

	assert.Equal(t, core.ReplyNoItemsFound, reply)
	assert.Nil(t, f.openOrder(t, "u1"))
}

func TestAssistantGeneratorFallback(t *testing.T) {
	gen := &stubGenerator{reply: "  Temos bolo amanhã!  "}
	a := newAssistant(newFixture(t), gen)
	recent := []models.Message{{Text: "oi", Origin: models.OriginUser}}

	reply := a.Handle(context.Background(), Inbound{UserID: "u1", Text: "qual a capital da frança", Recent: recent})

	assert.Equal(t, "Temos bolo amanhã!", reply)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "prompt", gen.prompt)
	assert.Equal(t, recent, gen.recent)
}

func TestAssistantGeneratorFailure(t *testing.T) {
	for _, gen := range []*stubGenerator{{err: errStore}, {reply: "   "}} {
		a := newAssistant(newFixture(t), gen)

		reply := a.Handle(context.Background(), Inbound{UserID: "u1", Text: "asdf"})

		assert.Equal(t, core.ReplyFallback, reply)
	}
}

func TestAssistantGeneratorNotUsedForMatchedIntent(t *testing.T) {
	gen := &stubGenerator{reply: "x"}
	a := newAssistant(newFixture(t), gen)

	a.Handle(context.Background(), Inbound{UserID: "u1", Text: "oi"})

	assert.Zero(t, gen.calls)
}
