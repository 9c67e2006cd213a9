package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cantina-chat/internal/chat/adapter/memory"
	"cantina-chat/internal/chat/app/intent"
	"cantina-chat/internal/chat/app/services"
	"cantina-chat/internal/chat/domain/dto"
	"cantina-chat/internal/chat/domain/models"
	"cantina-chat/internal/xpkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mylog := logger.NewNop()
	open := memory.NewOpenOrders()
	finalized := memory.NewFinalizedOrders(open)
	catalog := memory.NewCatalog([]models.CatalogItem{
		{ID: "1", Name: "suco", Price: decimal.RequireFromString("3"), Category: "bebidas", Available: true},
		{ID: "2", Name: "sanduiche", Price: decimal.RequireFromString("8"), Category: "lanches", Available: true},
	})

	engine := services.NewOrderEngine(open, finalized, nil, models.StatusReceived, mylog)
	assistant := services.NewAssistant(intent.NewClassifier(intent.DefaultRules()), engine, services.NewPresenter(time.UTC), nil, "", mylog)
	chatService := services.NewChatService(services.Repositories{
		Catalog:   catalog,
		Open:      open,
		Finalized: finalized,
		Messages:  memory.NewMessages(),
	}, assistant, 10, 100, mylog)

	chatHandler := NewChatHandler(chatService, mylog)
	orderHandler := NewOrderHandler(chatService, mylog)

	mux := http.NewServeMux()
	mux.Handle("POST /chat", chatHandler.Send())
	mux.Handle("GET /chat/history", chatHandler.History())
	mux.Handle("DELETE /chat/history", chatHandler.ClearHistory())
	mux.Handle("GET /menu", orderHandler.Menu())
	mux.Handle("GET /orders/history", orderHandler.History())
	return mux
}

func do(t *testing.T, mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestChatFlow(t *testing.T) {
	mux := newMux(t)

	rec := do(t, mux, http.MethodPost, "/chat", `{"usuario_id":"u1","mensagem":"quero 2 sucos e um sanduiche"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, decode[dto.ChatResponse](t, rec).Reply, "2x suco, 1x sanduiche")

	rec = do(t, mux, http.MethodPost, "/chat", `{"usuario_id":"u1","mensagem":"só isso"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[dto.ChatResponse](t, rec).Reply, "R$14.00")

	rec = do(t, mux, http.MethodGet, "/orders/history?usuario_id=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]dto.OrderResponse](t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, "14.00", orders[0].Total)
	assert.Equal(t, models.StatusReceived, orders[0].Status)

	rec = do(t, mux, http.MethodGet, "/chat/history?usuario_id=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decode[[]dto.MessageResponse](t, rec)
	require.Len(t, msgs, 4)
	assert.Equal(t, models.OriginUser, msgs[0].Origin)

	rec = do(t, mux, http.MethodGet, "/chat/history?usuario_id=u1&limite=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]dto.MessageResponse](t, rec), 1)

	rec = do(t, mux, http.MethodDelete, "/chat/history?usuario_id=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), decode[dto.ClearHistoryResponse](t, rec).Deleted)
}

func TestChatBadRequests(t *testing.T) {
	mux := newMux(t)

	tests := []struct {
		name, method, target, body string
	}{
		{"invalid json", http.MethodPost, "/chat", `{"usuario_id":`},
		{"missing user", http.MethodPost, "/chat", `{"mensagem":"oi"}`},
		{"missing message", http.MethodPost, "/chat", `{"usuario_id":"u1"}`},
		{"history without user", http.MethodGet, "/chat/history", ""},
		{"history bad limit", http.MethodGet, "/chat/history?usuario_id=u1&limite=x", ""},
		{"clear without user", http.MethodDelete, "/chat/history", ""},
		{"orders without user", http.MethodGet, "/orders/history", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[dto.ErrorResponse](t, rec).Error)
		})
	}
}

func TestMenu(t *testing.T) {
	rec := do(t, newMux(t), http.MethodGet, "/menu", "")

	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]dto.MenuItemResponse](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "suco", items[0].Name)
	assert.Equal(t, "3.00", items[0].Price)
}

func TestHealth(t *testing.T) {
	rec := do(t, Health("memory", nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, Health("postgres", func() error { return errors.New("down") }), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decode[map[string]string](t, rec)["status"])
}
