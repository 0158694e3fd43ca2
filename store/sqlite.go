package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite owns a local database file and hands out the conversation and
// memory stores backed by it. One connection pool serves both; WAL mode
// keeps readers unblocked during writes.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and
// initialises the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: busy_timeout: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		tool_name TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at);

	CREATE TABLE IF NOT EXISTS memories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL UNIQUE,
		value TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'general',
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_category ON memories(category, updated_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

// Conversations returns the conversation store backed by this database.
func (s *SQLite) Conversations() ConversationStore {
	return &conversationSQL{db: s.db}
}

// Memories returns the memory store backed by this database.
func (s *SQLite) Memories() MemoryStore {
	return &memorySQL{db: s.db}
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type conversationSQL struct {
	db *sql.DB
}

func (c *conversationSQL) Append(ctx context.Context, m Message) (int64, error) {
	if m.SessionID == "" {
		return 0, fmt.Errorf("%w: empty session id", ErrInvalidMessage)
	}
	switch m.Role {
	case RoleUser, RoleAssistant:
		if m.ToolName != "" {
			return 0, fmt.Errorf("%w: tool name on role %q", ErrInvalidMessage, m.Role)
		}
	case RoleTool:
		if m.ToolName == "" {
			return 0, fmt.Errorf("%w: tool role without tool name", ErrInvalidMessage)
		}
	default:
		return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidMessage, m.Role)
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	var id int64
	err := c.db.QueryRowContext(ctx,
		`INSERT INTO messages (session_id, role, content, tool_name, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		m.SessionID, string(m.Role), m.Content, m.ToolName, m.CreatedAt.UnixMilli(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: append message: %w", err)
	}
	return id, nil
}

func (c *conversationSQL) Recent(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		return nil, nil
	}
	// Newest N selected descending, then returned in chronological order.
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, tool_name, created_at
		 FROM (
			SELECT id, session_id, role, content, tool_name, created_at
			FROM messages WHERE session_id = ?
			ORDER BY created_at DESC, id DESC LIMIT ?
		 ) ORDER BY created_at ASC, id ASC`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (c *conversationSQL) Clear(ctx context.Context, sessionID string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("store: clear session: %w", err)
	}
	return nil
}

func (c *conversationSQL) SessionIDs(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT session_id FROM messages GROUP BY session_id ORDER BY MAX(created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: session ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: session ids: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (c *conversationSQL) Previews(ctx context.Context) ([]Message, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT m.id, m.session_id, m.role, m.content, m.tool_name, m.created_at
		 FROM messages m
		 INNER JOIN (
			SELECT session_id, MIN(id) AS min_id
			FROM messages WHERE role = 'user'
			GROUP BY session_id
		 ) t ON m.id = t.min_id
		 ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: previews: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	var msgs []Message
	for rows.Next() {
		var (
			m  Message
			ts int64
		)
		if err := rows.Scan(&m.ID, &m.SessionID, (*string)(&m.Role), &m.Content, &m.ToolName, &ts); err != nil {
			return nil, fmt.Errorf("store: scan message: %w", err)
		}
		m.CreatedAt = time.UnixMilli(ts)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

type memorySQL struct {
	db *sql.DB
}

func (m *memorySQL) Upsert(ctx context.Context, key, value, category string) (int64, error) {
	if key == "" {
		return 0, fmt.Errorf("store: empty memory key")
	}
	if category == "" {
		category = "general"
	}

	var id int64
	err := m.db.QueryRowContext(ctx,
		`INSERT INTO memories (key, value, category, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			category = excluded.category,
			updated_at = excluded.updated_at
		 RETURNING id`,
		key, value, category, time.Now().UnixMilli(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: upsert memory: %w", err)
	}
	return id, nil
}

func (m *memorySQL) All(ctx context.Context) ([]Memory, error) {
	return m.query(ctx,
		`SELECT id, key, value, category, updated_at FROM memories ORDER BY updated_at DESC, id DESC`)
}

func (m *memorySQL) ByCategory(ctx context.Context, category string) ([]Memory, error) {
	return m.query(ctx,
		`SELECT id, key, value, category, updated_at FROM memories
		 WHERE category = ? ORDER BY updated_at DESC, id DESC`, category)
}

func (m *memorySQL) Get(ctx context.Context, key string) (Memory, bool, error) {
	var (
		mem Memory
		ts  int64
	)
	err := m.db.QueryRowContext(ctx,
		`SELECT id, key, value, category, updated_at FROM memories WHERE key = ?`, key,
	).Scan(&mem.ID, &mem.Key, &mem.Value, &mem.Category, &ts)
	if err == sql.ErrNoRows {
		return Memory{}, false, nil
	}
	if err != nil {
		return Memory{}, false, fmt.Errorf("store: get memory: %w", err)
	}
	mem.UpdatedAt = time.UnixMilli(ts)
	return mem, true, nil
}

func (m *memorySQL) DeleteByKey(ctx context.Context, key string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM memories WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: delete memory: %w", err)
	}
	return nil
}

func (m *memorySQL) Clear(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM memories`); err != nil {
		return fmt.Errorf("store: clear memories: %w", err)
	}
	return nil
}

func (m *memorySQL) query(ctx context.Context, query string, args ...any) ([]Memory, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query memories: %w", err)
	}
	defer rows.Close()

	var out []Memory
	for rows.Next() {
		var (
			mem Memory
			ts  int64
		)
		if err := rows.Scan(&mem.ID, &mem.Key, &mem.Value, &mem.Category, &ts); err != nil {
			return nil, fmt.Errorf("store: scan memory: %w", err)
		}
		mem.UpdatedAt = time.UnixMilli(ts)
		out = append(out, mem)
	}
	return out, rows.Err()
}
