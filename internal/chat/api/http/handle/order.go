package handle

import (
	"errors"
	"net/http"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/app/services"
	"cantina-chat/internal/chat/domain/dto"
	"cantina-chat/internal/xpkg/logger"
)

type OrderHandler struct {
	chatService *services.ChatService
	mylog       logger.Logger
}

func NewOrderHandler(chatService *services.ChatService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{
		chatService: chatService,
		mylog:       mylog,
	}
}

// Menu handles GET /menu.
func (oh *OrderHandler) Menu() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := oh.chatService.Menu(r.Context())
		if err != nil {
			jsonError(w, http.StatusInternalServerError, errors.New("erro interno ao buscar cardápio"))
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewMenuItemResponses(items))
	}
}

// History handles GET /orders/history?usuario_id=. Totals are the ones frozen at finalize time.
func (oh *OrderHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := oh.chatService.Orders(r.Context(), r.URL.Query().Get("usuario_id"))
		if err != nil {
			if errors.Is(err, core.ErrFieldIsEmpty) {
				jsonError(w, http.StatusBadRequest, err)
				return
			}
			jsonError(w, http.StatusInternalServerError, errors.New("erro ao buscar pedidos"))
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewOrderResponses(orders))
	}
}

// Health handles GET /health. alive is nil when there is nothing to check.
func Health(store string, alive func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if alive != nil {
			if err := alive(); err != nil {
				jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "store": store})
				return
			}
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "store": store})
	}
}
