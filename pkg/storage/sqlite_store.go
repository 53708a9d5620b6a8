package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps an embedded SQLite database holding the interaction
// audit trail: every routed button tap, keyed by chat/menu/token.
// It uses modernc.org/sqlite for CGO-less builds. This is
// observability only; menus and render sessions are never persisted.
type Store struct {
	dbPath string
	db     *sql.DB
}

// NewStore creates a Store pointing to dbPath. Call Init() before use.
func NewStore(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

// Init opens the database, configures pragmas, and ensures the schema.
func (s *Store) Init() error {
	if s.db != nil {
		return nil
	}
	if s.dbPath == "" {
		return fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	// Pragmas for durability and concurrency
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return fmt.Errorf("set WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=5000;`); err != nil {
		_ = db.Close()
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec(`PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return fmt.Errorf("set synchronous: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS interactions (
            id         INTEGER PRIMARY KEY AUTOINCREMENT,
            chat_id    TEXT NOT NULL,
            menu_id    TEXT NOT NULL,
            token      TEXT NOT NULL,
            user_id    TEXT NOT NULL,
            routed     INTEGER NOT NULL DEFAULT 1,
            created_at TIMESTAMP NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_interactions_chat
            ON interactions (chat_id, created_at DESC);
        CREATE INDEX IF NOT EXISTS idx_interactions_menu
            ON interactions (menu_id);
    `)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// InteractionRecord is one routed (or unroutable) button tap.
type InteractionRecord struct {
	ChatID    string
	MenuID    string
	Token     string
	UserID    string
	Routed    bool
	CreatedAt time.Time
}

// RecordInteraction appends one tap to the audit trail.
func (s *Store) RecordInteraction(rec InteractionRecord) error {
	if s.db == nil {
		return fmt.Errorf("store not initialized")
	}
	ts := rec.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO interactions (chat_id, menu_id, token, user_id, routed, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ChatID, rec.MenuID, rec.Token, rec.UserID, boolToInt(rec.Routed), ts.UTC(),
	)
	return err
}

// RecentInteractions returns up to limit taps for a chat, newest first.
func (s *Store) RecentInteractions(chatID string, limit int) ([]InteractionRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT chat_id, menu_id, token, user_id, routed, created_at
         FROM interactions
         WHERE chat_id = ?
         ORDER BY created_at DESC, id DESC
         LIMIT ?`,
		chatID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InteractionRecord
	for rows.Next() {
		var rec InteractionRecord
		var routed int
		if err := rows.Scan(&rec.ChatID, &rec.MenuID, &rec.Token, &rec.UserID, &routed, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Routed = routed != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountByMenu returns how many taps a menu's elements have received.
func (s *Store) CountByMenu(menuID string) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("store not initialized")
	}
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM interactions WHERE menu_id = ?`, menuID).Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
