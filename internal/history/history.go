package history

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"quotelens/internal/config"
)

// Store persists analyzed turns to a local sqlite database.
type Store struct {
	db *sql.DB
}

// Turn is one recorded quote/analysis pair.
type Turn struct {
	ID          int64
	CreatedAt   time.Time
	Mode        string
	Model       string
	Quote       string
	Analysis    string
	TotalTokens int
}

// Open creates or opens the history database under the config directory.
func Open() (*Store, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history db: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		mode TEXT NOT NULL,
		model TEXT NOT NULL,
		quote TEXT NOT NULL,
		analysis TEXT NOT NULL,
		total_tokens INTEGER NOT NULL DEFAULT 0
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record stores one completed turn.
func (s *Store) Record(t Turn) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO turns (created_at, mode, model, quote, analysis, total_tokens) VALUES (?, ?, ?, ?, ?, ?)`,
		createdAt.Unix(), t.Mode, t.Model, t.Quote, t.Analysis, t.TotalTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to record turn: %w", err)
	}
	return nil
}

// Recent returns the latest n turns, newest first.
func (s *Store) Recent(n int) ([]Turn, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, mode, model, quote, analysis, total_tokens FROM turns ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var createdAt int64
		if err := rows.Scan(&t.ID, &createdAt, &t.Mode, &t.Model, &t.Quote, &t.Analysis, &t.TotalTokens); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.CreatedAt = time.Unix(createdAt, 0)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
