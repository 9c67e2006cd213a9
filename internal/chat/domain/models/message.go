package models

import "time"

const (
	OriginUser = "usuario"
	OriginBot  = "bot"
)

// Message is one transcript turn.
type Message struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"usuario_id"`
	Text      string    `json:"mensagem"`
	Origin    string    `json:"origem"`
	CreatedAt time.Time `json:"data"`
}
