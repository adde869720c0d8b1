package memory

import (
	"context"
	"sync"
)

// MockStore is an in-memory implementation of ConversationStore for testing.
type MockStore struct {
	mu            sync.RWMutex
	conversations map[string][]Message

	// LoadErr and SaveErr, when set, are returned by the corresponding call.
	LoadErr error
	SaveErr error

	// SaveCalls counts successful and failed Save invocations.
	SaveCalls int
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		conversations: make(map[string][]Message),
	}
}

func (m *MockStore) Load(_ context.Context, sessionID string) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.LoadErr != nil {
		return nil, m.LoadErr
	}

	stored, ok := m.conversations[sessionID]
	if !ok {
		return []Message{}, nil
	}
	messages := make([]Message, len(stored))
	copy(messages, stored)
	return messages, nil
}

func (m *MockStore) Save(_ context.Context, sessionID string, messages []Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}

	stored := make([]Message, len(messages))
	copy(stored, messages)
	m.conversations[sessionID] = stored
	return nil
}

// Seed stores a conversation directly, bypassing error injection.
func (m *MockStore) Seed(sessionID string, messages []Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]Message, len(messages))
	copy(stored, messages)
	m.conversations[sessionID] = stored
}

// Stored returns the persisted messages for a session, or nil if absent.
func (m *MockStore) Stored(sessionID string) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.conversations[sessionID]
	if !ok {
		return nil
	}
	messages := make([]Message, len(stored))
	copy(messages, stored)
	return messages
}
