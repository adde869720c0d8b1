package chat

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	twinerrors "github.com/usetwin/twin/internal/errors"
	"github.com/usetwin/twin/internal/memory"
)

// stubLLM implements ai.LLMService.
type stubLLM struct {
	reply      string
	err        error
	gotHistory []memory.Message
	gotText    string
}

func (s *stubLLM) Complete(_ context.Context, history []memory.Message, userText string) (string, error) {
	s.gotHistory = history
	s.gotText = userText
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(store memory.ConversationStore, llm *stubLLM) *Service {
	svc := NewService(store, llm, testLogger())
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestChat_AppendsTurnPair(t *testing.T) {
	store := memory.NewMockStore()
	prior := []memory.Message{
		{Role: memory.RoleUser, Content: "earlier", Timestamp: "2025-06-01T09:00:00Z"},
		{Role: memory.RoleAssistant, Content: "earlier reply", Timestamp: "2025-06-01T09:00:00Z"},
	}
	store.Seed("session-1", prior)

	llm := &stubLLM{reply: "the reply"}
	svc := newTestService(store, llm)

	result, err := svc.Chat(context.Background(), "session-1", "a question")
	require.NoError(t, err)
	assert.Equal(t, "the reply", result.Response)
	assert.Equal(t, "session-1", result.SessionID)

	// Gateway saw the pre-turn history and the raw user text.
	assert.Equal(t, prior, llm.gotHistory)
	assert.Equal(t, "a question", llm.gotText)

	saved := store.Stored("session-1")
	require.Len(t, saved, 4)
	assert.Equal(t, prior, saved[:2])

	userMsg, assistantMsg := saved[2], saved[3]
	assert.Equal(t, memory.RoleUser, userMsg.Role)
	assert.Equal(t, "a question", userMsg.Content)
	assert.Equal(t, memory.RoleAssistant, assistantMsg.Role)
	assert.Equal(t, "the reply", assistantMsg.Content)

	// Both halves of the turn share one timestamp.
	assert.Equal(t, "2025-06-01T10:30:00Z", userMsg.Timestamp)
	assert.Equal(t, userMsg.Timestamp, assistantMsg.Timestamp)
}

func TestChat_EmptyMessageIsInvalidInput(t *testing.T) {
	store := memory.NewMockStore()
	svc := newTestService(store, &stubLLM{reply: "never"})

	_, err := svc.Chat(context.Background(), "session-1", "")
	require.Error(t, err)
	assert.True(t, twinerrors.IsCode(err, twinerrors.ErrCodeInvalidInput))
	assert.Equal(t, 0, store.SaveCalls)
}

func TestChat_GeneratesSessionID(t *testing.T) {
	store := memory.NewMockStore()
	svc := newTestService(store, &stubLLM{reply: "hi"})
	ctx := context.Background()

	first, err := svc.Chat(ctx, "", "hello")
	require.NoError(t, err)
	second, err := svc.Chat(ctx, "", "hello again")
	require.NoError(t, err)

	require.NotEmpty(t, first.SessionID)
	require.NotEmpty(t, second.SessionID)
	assert.NotEqual(t, first.SessionID, second.SessionID)

	// Generated ids are UUID-shaped.
	_, err = uuid.Parse(first.SessionID)
	assert.NoError(t, err)
}

func TestChat_GatewayFailureLeavesStoreUntouched(t *testing.T) {
	store := memory.NewMockStore()
	prior := []memory.Message{
		{Role: memory.RoleUser, Content: "earlier", Timestamp: "2025-06-01T09:00:00Z"},
	}
	store.Seed("session-1", prior)

	llm := &stubLLM{err: twinerrors.Unauthorized("Invalid OpenAI API key")}
	svc := newTestService(store, llm)

	_, err := svc.Chat(context.Background(), "session-1", "a question")
	require.Error(t, err)
	// Gateway failures propagate unchanged.
	assert.True(t, twinerrors.IsCode(err, twinerrors.ErrCodeUnauthorized))

	assert.Equal(t, 0, store.SaveCalls)
	assert.Equal(t, prior, store.Stored("session-1"))
}

func TestChat_StoreFailuresPropagate(t *testing.T) {
	t.Run("load failure", func(t *testing.T) {
		store := memory.NewMockStore()
		store.LoadErr = twinerrors.StoreFailure("read failed", nil)
		svc := newTestService(store, &stubLLM{reply: "hi"})

		_, err := svc.Chat(context.Background(), "session-1", "q")
		require.Error(t, err)
		assert.True(t, twinerrors.IsCode(err, twinerrors.ErrCodeStoreFailure))
		assert.Equal(t, 0, store.SaveCalls)
	})

	t.Run("save failure", func(t *testing.T) {
		store := memory.NewMockStore()
		store.SaveErr = twinerrors.StoreFailure("write failed", nil)
		svc := newTestService(store, &stubLLM{reply: "hi"})

		_, err := svc.Chat(context.Background(), "session-1", "q")
		require.Error(t, err)
		assert.True(t, twinerrors.IsCode(err, twinerrors.ErrCodeStoreFailure))
	})
}

func TestConversation(t *testing.T) {
	store := memory.NewMockStore()
	store.Seed("session-1", []memory.Message{
		{Role: memory.RoleUser, Content: "hi", Timestamp: "2025-06-01T09:00:00Z"},
	})
	svc := newTestService(store, &stubLLM{})

	t.Run("existing session", func(t *testing.T) {
		messages, err := svc.Conversation(context.Background(), "session-1")
		require.NoError(t, err)
		assert.Len(t, messages, 1)
	})

	t.Run("unknown session is empty, not an error", func(t *testing.T) {
		messages, err := svc.Conversation(context.Background(), "unknown")
		require.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		_, err := svc.Conversation(context.Background(), "")
		require.Error(t, err)
		assert.True(t, twinerrors.IsCode(err, twinerrors.ErrCodeInvalidInput))
	})
}
