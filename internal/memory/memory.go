// Package memory persists per-session conversation transcripts. A session is
// stored as one JSON document holding the ordered message list; the backend is
// either a local directory or an S3 bucket, selected once at startup.
package memory

import (
	"context"

	"github.com/usetwin/twin/internal/profile"
)

// Message roles. The store round-trips any sequence faithfully; the alternation
// of user and assistant turns is a property of how the orchestrator appends,
// not something the store enforces.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single persisted conversation turn half.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ConversationStore is the persistence contract for conversation transcripts.
//
// Load returns the persisted message list for a session, or an empty list if
// the session has never been written; "not found" is a normal outcome and is
// never surfaced as an error. Save overwrites the full persisted sequence for
// the session (last writer wins; there is no per-session locking).
type ConversationStore interface {
	Load(ctx context.Context, sessionID string) ([]Message, error)
	Save(ctx context.Context, sessionID string, messages []Message) error
}

// NewStoreFromProfile selects and constructs the conversation backend.
func NewStoreFromProfile(ctx context.Context, p *profile.Profile) (ConversationStore, error) {
	if p.UseS3 {
		return NewS3Store(ctx, p.AWSRegion, p.S3Bucket)
	}
	return NewLocalStore(p.MemoryDir), nil
}

// objectKey derives the storage path/key for a session. The same derivation is
// used by both backends so records stay addressable across a backend swap.
func objectKey(sessionID string) string {
	return sessionID + ".json"
}
