// Package chat orchestrates a single chat turn: load history, call the
// completion gateway, append the new turn pair, persist. All durable state
// lives in the conversation store; the service itself is stateless.
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/usetwin/twin/internal/ai"
	twinerrors "github.com/usetwin/twin/internal/errors"
	"github.com/usetwin/twin/internal/memory"
)

// Result is the outcome of a successful chat turn.
type Result struct {
	Response  string
	SessionID string
}

// Service coordinates the conversation store and the completion gateway.
type Service struct {
	store  memory.ConversationStore
	llm    ai.LLMService
	logger *slog.Logger

	// now is injectable for deterministic timestamp tests.
	now func() time.Time
}

// NewService creates a chat service.
func NewService(store memory.ConversationStore, llm ai.LLMService, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		llm:    llm,
		logger: logger,
		now:    time.Now,
	}
}

// Chat runs one turn. The session id is caller-supplied or freshly generated.
// On gateway failure nothing is saved, so the persisted history is left
// exactly as it was before the turn. Concurrent turns against the same
// session are not serialized; the last save wins.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (*Result, error) {
	if message == "" {
		return nil, twinerrors.InvalidInput("Message is required")
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	reply, err := s.llm.Complete(ctx, history, message)
	if err != nil {
		return nil, err
	}

	// User and assistant messages share one timestamp for the turn.
	timestamp := s.now().UTC().Format(time.RFC3339)
	history = append(history,
		memory.Message{Role: memory.RoleUser, Content: message, Timestamp: timestamp},
		memory.Message{Role: memory.RoleAssistant, Content: reply, Timestamp: timestamp},
	)

	if err := s.store.Save(ctx, sessionID, history); err != nil {
		return nil, err
	}

	s.logger.Info("chat turn completed",
		"session_id", sessionID,
		"history_length", len(history),
	)
	return &Result{Response: reply, SessionID: sessionID}, nil
}

// Conversation returns the persisted history for a session. A session that
// was never written yields an empty list.
func (s *Service) Conversation(ctx context.Context, sessionID string) ([]memory.Message, error) {
	if sessionID == "" {
		return nil, twinerrors.InvalidInput("Session ID is required")
	}
	return s.store.Load(ctx, sessionID)
}
