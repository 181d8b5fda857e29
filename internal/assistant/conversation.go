package assistant

import (
	"context"
	"sync"

	"github.com/sells-group/prospector-cli/internal/monitoring"
	"github.com/sells-group/prospector-cli/pkg/anthropic"
)

// maxHistory bounds the turns replayed to the model per request.
const maxHistory = 20

// Conversation is a chat with the strategy assistant. The backend keeps its
// own history so each call only needs the new user text.
type Conversation struct {
	a *Assistant

	mu      sync.Mutex
	history []anthropic.Message
}

// NewConversation starts an empty conversation.
func (a *Assistant) NewConversation() *Conversation {
	return &Conversation{a: a}
}

// ChatWithAI sends text and returns the assistant's reply. Failed turns are
// not kept in the history.
func (c *Conversation) ChatWithAI(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	msgs := append(c.recentLocked(), anthropic.Message{Role: "user", Content: text})
	c.mu.Unlock()

	reply, err := c.a.complete(ctx, monitoring.OpChat, c.a.cfg.ChatModel, chatSystem, msgs)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.history = append(c.history,
		anthropic.Message{Role: "user", Content: text},
		anthropic.Message{Role: "assistant", Content: reply},
	)
	c.mu.Unlock()
	return reply, nil
}

func (c *Conversation) recentLocked() []anthropic.Message {
	h := c.history
	if len(h) > maxHistory {
		h = h[len(h)-maxHistory:]
	}
	out := make([]anthropic.Message, len(h), len(h)+1)
	copy(out, h)
	return out
}
