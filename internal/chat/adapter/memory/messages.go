package memory

import (
	"context"
	"sync"

	"cantina-chat/internal/chat/domain/models"

	"github.com/google/uuid"
)

// Messages is the transcript store, kept in append order.
type Messages struct {
	mu   sync.RWMutex
	msgs []models.Message
}

func NewMessages() *Messages {
	return &Messages{}
}

func (m *Messages) Append(_ context.Context, msgs ...models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, msg := range msgs {
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		m.msgs = append(m.msgs, msg)
	}
	return nil
}

// Recent returns the last n messages of the user, oldest first.
func (m *Messages) Recent(_ context.Context, userID string, n int) ([]models.Message, error) {
	if n <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Message
	for i := len(m.msgs) - 1; i >= 0 && len(out) < n; i-- {
		if m.msgs[i].UserID == userID {
			out = append(out, m.msgs[i])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *Messages) DeleteByUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.msgs[:0]
	var deleted int64
	for _, msg := range m.msgs {
		if msg.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, msg)
	}
	m.msgs = kept
	return deleted, nil
}
