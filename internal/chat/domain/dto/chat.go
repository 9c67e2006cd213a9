package dto

import (
	"time"

	"cantina-chat/internal/chat/domain/models"
)

type ChatRequest struct {
	UserID  string `json:"usuario_id"`
	Message string `json:"mensagem"`
}

type ChatResponse struct {
	Reply string `json:"resposta"`
}

type MessageResponse struct {
	Text      string    `json:"mensagem"`
	Origin    string    `json:"origem"`
	CreatedAt time.Time `json:"data"`
}

type ClearHistoryResponse struct {
	Message string `json:"mensagem"`
	Deleted int64  `json:"deletados"`
}

type ErrorResponse struct {
	Error string `json:"erro"`
}

func NewMessageResponses(msgs []models.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageResponse{Text: m.Text, Origin: m.Origin, CreatedAt: m.CreatedAt})
	}
	return out
}
