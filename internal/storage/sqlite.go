// Package storage provides SQLite-based persistence for study sessions,
// adventure scores and credit wallets.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/stubro-ai/stubro/internal/games/adventure"
)

// DefaultInitialCredits is the balance a new wallet starts with.
const DefaultInitialCredits = 100

var (
	// ErrNotFound means the requested session does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrInsufficientCredits is returned by Debit when the wallet cannot pay.
	ErrInsufficientCredits = adventure.ErrInsufficientCredits
)

// Store manages the SQLite database connection.
type Store struct {
	db             *sql.DB
	initialCredits int
}

// Session is a saved piece of study content.
type Session struct {
	ID        string
	Title     string
	Source    string // Chapter ID, file path or "stdin"
	Content   string
	CreatedAt time.Time
}

// ScoreEntry represents a single finished adventure run.
type ScoreEntry struct {
	ID        int64
	SessionID string
	GameID    string
	Score     int
	CreatedAt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithInitialCredits sets the balance new wallets are seeded with.
func WithInitialCredits(n int) Option {
	return func(s *Store) {
		s.initialCredits = n
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string, opts ...Option) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer keeps wallet updates serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, initialCredits: DefaultInitialCredits}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL DEFAULT '',
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_session ON scores(session_id, score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS wallets (
			user TEXT PRIMARY KEY,
			balance INTEGER NOT NULL CHECK (balance >= 0),
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSession stores study content and returns the new session.
func (s *Store) CreateSession(title, source, content string) (*Session, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("storage: session content is empty")
	}
	sess := &Session{
		ID:        uuid.NewString(),
		Title:     title,
		Source:    source,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	_, err := s.db.Exec(
		"INSERT INTO sessions (id, title, source, content, created_at) VALUES (?, ?, ?, ?, ?)",
		sess.ID, sess.Title, sess.Source, sess.Content, sess.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot create session: %w", err)
	}
	return sess, nil
}

// GetSession returns the session with the given ID, or a unique ID prefix.
func (s *Store) GetSession(id string) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty session id", ErrNotFound)
	}
	rows, err := s.db.Query(
		`SELECT id, title, source, content, created_at
		 FROM sessions
		 WHERE id = ? OR id LIKE ? || '%'
		 LIMIT 2`,
		id, id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	defer rows.Close()

	var found []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		if sess.ID == id {
			return sess, nil
		}
		found = append(found, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: session %q", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("storage: session prefix %q is ambiguous", id)
	}
}

// ListSessions returns sessions newest first. The content is omitted.
func (s *Store) ListSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, title, source, '', created_at
		 FROM sessions
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteSession removes a session and its scores.
func (s *Store) DeleteSession(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: session %q", ErrNotFound, id)
	}
	if _, err := tx.Exec("DELETE FROM scores WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete session scores: %w", err)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var sess Session
	var createdAt any
	if err := row.Scan(&sess.ID, &sess.Title, &sess.Source, &sess.Content, &createdAt); err != nil {
		return nil, fmt.Errorf("storage: cannot scan session: %w", err)
	}
	sess.CreatedAt = parseTime(createdAt)
	return &sess, nil
}

// SaveScore records a finished run for the given session and game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(sessionID, gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (session_id, game_id, score, created_at) VALUES (?, ?, ?, ?)",
		sessionID, gameID, score, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N runs for a session. An empty session ID
// returns the top runs across all sessions.
// Results are ordered by score descending, then oldest first.
func (s *Store) TopScores(sessionID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, game_id, score, created_at
		 FROM scores
		 WHERE ? = '' OR session_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best run for a session, or 0 if it has none.
func (s *Store) HighScore(sessionID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE session_id = ?",
		sessionID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// SessionStats contains aggregated statistics for a session.
type SessionStats struct {
	SessionID  string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetStats retrieves aggregated statistics for a session.
func (s *Store) GetStats(sessionID string) (*SessionStats, error) {
	stats := &SessionStats{SessionID: sessionID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)
		 FROM scores WHERE session_id = ?`,
		sessionID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllStats retrieves statistics for every session that has been played.
func (s *Store) GetAllStats() (map[string]*SessionStats, error) {
	rows, err := s.db.Query(
		`SELECT session_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores
		 GROUP BY session_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all session stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*SessionStats)
	for rows.Next() {
		var st SessionStats
		var lastPlayed any
		if err := rows.Scan(&st.SessionID, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.SessionID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

const timeLayout = "2006-01-02 15:04:05"

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
