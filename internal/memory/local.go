package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	twinerrors "github.com/usetwin/twin/internal/errors"
)

// localStore keeps one JSON file per session under a single directory.
type localStore struct {
	dir string
}

// NewLocalStore creates a filesystem-backed conversation store. The directory
// is created lazily on first write.
func NewLocalStore(dir string) ConversationStore {
	return &localStore{dir: dir}
}

func (s *localStore) Load(_ context.Context, sessionID string) ([]Message, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, objectKey(sessionID)))
	if err != nil {
		if os.IsNotExist(err) {
			return []Message{}, nil
		}
		return nil, twinerrors.StoreFailure("failed to read conversation", errors.Wrapf(err, "session %s", sessionID))
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, twinerrors.StoreFailure("failed to decode conversation", errors.Wrapf(err, "session %s", sessionID))
	}
	return messages, nil
}

func (s *localStore) Save(_ context.Context, sessionID string, messages []Message) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return twinerrors.StoreFailure("failed to create memory directory", errors.Wrap(err, s.dir))
	}

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return twinerrors.StoreFailure("failed to encode conversation", errors.Wrapf(err, "session %s", sessionID))
	}

	path := filepath.Join(s.dir, objectKey(sessionID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return twinerrors.StoreFailure("failed to write conversation", errors.Wrapf(err, "session %s", sessionID))
	}
	return nil
}
