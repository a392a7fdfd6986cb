// Package history keeps download records and application logs in a local
// SQLite database. A single mutex serializes access; the desktop app never
// has concurrent writers beyond the UI thread and the supervisor.
package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// maxLogRows caps the logs table; older rows are pruned on insert.
const maxLogRows = 500

// Entry is one completed (or attempted) download.
type Entry struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Format    string `json:"format"`
	Quality   string `json:"quality"`
	Status    string `json:"status"`
	FilePath  string `json:"filePath"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"createdAt"`
}

// LogEntry is one diagnostic log line surfaced to the UI.
type LogEntry struct {
	ID        string `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// Store wraps the SQLite database holding history and logs.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates (or opens) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			format TEXT NOT NULL DEFAULT '',
			quality TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			file_path TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at)`,
		`CREATE TABLE IF NOT EXISTS logs (
			id TEXT PRIMARY KEY,
			level TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Older databases predate the summary column.
	_, _ = s.db.Exec(`ALTER TABLE history ADD COLUMN summary TEXT NOT NULL DEFAULT ''`)

	return nil
}

// Add records a download in the history table and returns its id.
func (s *Store) Add(entry Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt == "" {
		entry.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := s.db.Exec(
		`INSERT INTO history (id, url, title, format, quality, status, file_path, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.URL, entry.Title, entry.Format, entry.Quality,
		entry.Status, entry.FilePath, entry.Summary, entry.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert history: %w", err)
	}

	return entry.ID, nil
}

// List returns all history entries, newest first.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, url, title, format, quality, status, file_path, summary, created_at
		 FROM history ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.URL, &e.Title, &e.Format, &e.Quality,
			&e.Status, &e.FilePath, &e.Summary, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Delete removes a single history entry.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM history WHERE id = ?`, id)

	return err
}

// UpdateSummary attaches an AI summary to an existing history entry.
func (s *Store) UpdateSummary(id, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE history SET summary = ? WHERE id = ?`, summary, id)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("history entry %s not found", id)
	}

	return nil
}

// AddLog appends a log line, pruning the oldest rows past the cap.
func (s *Store) AddLog(level, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO logs (id, level, message, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), level, message, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}

	_, err = s.db.Exec(
		`DELETE FROM logs WHERE id NOT IN (
			SELECT id FROM logs ORDER BY rowid DESC LIMIT ?
		)`, maxLogRows,
	)

	return err
}

// RecentLogs returns up to limit log lines, newest first.
func (s *Store) RecentLogs(limit int) ([]LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > maxLogRows {
		limit = maxLogRows
	}

	rows, err := s.db.Query(
		`SELECT id, level, message, created_at FROM logs
		 ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	logs := []LogEntry{}
	for rows.Next() {
		var l LogEntry
		if err := rows.Scan(&l.ID, &l.Level, &l.Message, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// ClearLogs removes every log line.
func (s *Store) ClearLogs() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM logs`)

	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
