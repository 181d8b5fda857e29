// Package chat runs a strategy conversation with the AI backend, one turn at
// a time.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/internal/monitoring"
)

const (
	// Greeting opens every conversation.
	Greeting = "Hello! I'm your LeadGen Strategy partner. Need help crafting a pitch, " +
		"researching a market, or choosing a tech stack? Ask me anything."
	// ApologyText replaces a reply the backend failed to produce.
	ApologyText = "Sorry, I encountered an error. Please try again."
)

var (
	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = eris.New("chat: empty message")
	// ErrTurnPending is returned while a previous turn awaits its reply.
	ErrTurnPending = eris.New("chat: a reply is still pending")

	errNoResponder = eris.New("chat: no backend configured")
)

// Responder answers a single user message.
type Responder interface {
	ChatWithAI(ctx context.Context, text string) (string, error)
}

// TurnState is the conversation's turn machine.
type TurnState int

const (
	Idle TurnState = iota
	AwaitingResponse
)

func (s TurnState) String() string {
	if s == AwaitingResponse {
		return "awaiting_response"
	}
	return "idle"
}

// MarshalText renders the state name in JSON.
func (s TurnState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is an in-memory transcript. It is never persisted.
type Session struct {
	mu        sync.Mutex
	responder Responder
	messages  []model.ChatMessage
	state     TurnState
}

// NewSession starts a conversation with the greeting.
func NewSession(r Responder) *Session {
	return &Session{
		responder: r,
		messages:  []model.ChatMessage{{Role: model.ChatRoleModel, Text: Greeting}},
	}
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatMessage(nil), s.messages...)
}

// State returns the current turn state.
func (s *Session) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Send appends text as a user message, asks the backend, and appends its
// reply. While the reply is pending the transcript ends with a thinking
// placeholder and further sends fail with ErrTurnPending. A backend failure
// becomes ApologyText; only validation errors are returned.
func (s *Session) Send(ctx context.Context, text string) (model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return model.ChatMessage{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state == AwaitingResponse {
		s.mu.Unlock()
		return model.ChatMessage{}, ErrTurnPending
	}
	s.state = AwaitingResponse
	s.messages = append(s.messages,
		model.ChatMessage{Role: model.ChatRoleUser, Text: text},
		model.ChatMessage{Role: model.ChatRoleModel, IsThinking: true},
	)
	s.mu.Unlock()

	start := time.Now()
	reply, err := s.ask(ctx, text)
	monitoring.ObserveAI(monitoring.OpChat, start, err)
	if err != nil {
		zap.L().Warn("chat: reply failed", zap.Error(eris.Wrap(err, "chat: send")))
		reply = ApologyText
	}

	msg := model.ChatMessage{Role: model.ChatRoleModel, Text: reply}
	s.mu.Lock()
	s.messages[len(s.messages)-1] = msg
	s.state = Idle
	s.mu.Unlock()
	return msg, nil
}

func (s *Session) ask(ctx context.Context, text string) (string, error) {
	if s.responder == nil {
		return "", errNoResponder
	}
	return s.responder.ChatWithAI(ctx, text)
}
