// Package store persists conversations and durable memories.
//
// The engine consumes the two narrow interfaces below; the SQLite
// implementation lives alongside them. Messages are append-only: a persisted
// message is never mutated, only removed by an explicit session clear.
package store

import (
	"context"
	"errors"
	"time"
)

// Role identifies the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one persisted conversation entry.
// ToolName is set if and only if Role == RoleTool.
type Message struct {
	ID        int64
	SessionID string
	Role      Role
	Content   string
	ToolName  string
	CreatedAt time.Time
}

// Memory is one durable fact, keyed by a unique string, independent of any
// session.
type Memory struct {
	ID        int64
	Key       string
	Value     string
	Category  string
	UpdatedAt time.Time
}

// ErrInvalidMessage is returned by Append for messages violating the
// role/toolName invariant or missing a session.
var ErrInvalidMessage = errors.New("store: invalid message")

// ConversationStore is the append-only ordered message log per session.
type ConversationStore interface {
	// Append persists m and returns its assigned id. A zero CreatedAt is
	// stamped with the current time.
	Append(ctx context.Context, m Message) (int64, error)
	// Recent returns up to limit of the newest messages for the session, in
	// chronological order.
	Recent(ctx context.Context, sessionID string, limit int) ([]Message, error)
	// Clear removes every message for the session.
	Clear(ctx context.Context, sessionID string) error
	// SessionIDs lists all session ids, most recently active first.
	SessionIDs(ctx context.Context) ([]string, error)
	// Previews returns the first user message of each session, newest
	// session first. Used for the session history list.
	Previews(ctx context.Context) ([]Message, error)
}

// MemoryStore holds key/value/category facts across sessions.
type MemoryStore interface {
	// Upsert inserts or replaces the fact for key, refreshing its timestamp.
	Upsert(ctx context.Context, key, value, category string) (int64, error)
	// All returns every memory ordered by recency (newest first).
	All(ctx context.Context) ([]Memory, error)
	// ByCategory returns memories in the category, newest first.
	ByCategory(ctx context.Context, category string) ([]Memory, error)
	// Get returns the memory for key, or ok=false when absent.
	Get(ctx context.Context, key string) (Memory, bool, error)
	// DeleteByKey removes the fact for key. Removing an absent key is not an
	// error.
	DeleteByKey(ctx context.Context, key string) error
	// Clear removes every memory.
	Clear(ctx context.Context) error
}
