package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"cantina-chat/internal/chat/app/core"
	"cantina-chat/internal/chat/app/services"
	"cantina-chat/internal/chat/domain/dto"
	"cantina-chat/internal/xpkg/logger"
)

const maxBodyBytes = 16 << 10

type ChatHandler struct {
	chatService *services.ChatService
	mylog       logger.Logger
}

func NewChatHandler(chatService *services.ChatService, mylog logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		mylog:       mylog,
	}
}

// Send handles POST /chat.
func (ch *ChatHandler) Send() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ChatRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			ch.mylog.Action("parse_failed").Error("Failed to parse chat request", err)
			jsonError(w, http.StatusBadRequest, errors.New("JSON inválido"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		reply, err := ch.chatService.HandleMessage(ctx, req.UserID, req.Message)
		if err != nil {
			if errors.Is(err, core.ErrFieldIsEmpty) || errors.Is(err, core.ErrFieldTooLong) {
				jsonError(w, http.StatusBadRequest, err)
				return
			}
			ch.mylog.Action("chat_failed").Error("Failed to handle message", err)
			jsonError(w, http.StatusInternalServerError, errors.New("erro interno ao processar a mensagem"))
			return
		}
		jsonResponse(w, http.StatusOK, dto.ChatResponse{Reply: reply})
	}
}

// History handles GET /chat/history?usuario_id=&limite=.
func (ch *ChatHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limite"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				jsonError(w, http.StatusBadRequest, errors.New("limite deve ser um inteiro positivo"))
				return
			}
			limit = n
		}

		msgs, err := ch.chatService.History(r.Context(), r.URL.Query().Get("usuario_id"), limit)
		if err != nil {
			if errors.Is(err, core.ErrFieldIsEmpty) {
				jsonError(w, http.StatusBadRequest, err)
				return
			}
			jsonError(w, http.StatusInternalServerError, errors.New("erro ao buscar histórico"))
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewMessageResponses(msgs))
	}
}

// ClearHistory handles DELETE /chat/history?usuario_id=.
func (ch *ChatHandler) ClearHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := ch.chatService.ClearHistory(r.Context(), r.URL.Query().Get("usuario_id"))
		if err != nil {
			if errors.Is(err, core.ErrFieldIsEmpty) {
				jsonError(w, http.StatusBadRequest, err)
				return
			}
			jsonError(w, http.StatusInternalServerError, errors.New("erro ao apagar histórico"))
			return
		}
		jsonResponse(w, http.StatusOK, dto.ClearHistoryResponse{
			Message: "Histórico apagado com sucesso",
			Deleted: deleted,
		})
	}
}
