// Package storage provides SQLite-based persistence for high scores and
// agent episode records.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-invaders/internal/env"
)

// DefaultPath is the database location used when none is configured.
const DefaultPath = "~/.invaders/scores.db"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Player    string // Local user or SSH user; empty for anonymous
	Score     int
	Level     int
	CreatedAt time.Time
}

// EpisodeRecord is a stored agent episode.
type EpisodeRecord struct {
	ID         uuid.UUID
	RunID      uuid.UUID
	Agent      string
	Episode    int
	Seed       int64
	Steps      int
	Reward     float64
	Score      int
	Level      int
	Terminated bool
	Truncated  bool
	Duration   time.Duration
	CreatedAt  time.Time
}

// AgentStats aggregates the stored episodes of one agent.
type AgentStats struct {
	Agent      string
	Episodes   int
	MeanReward float64
	BestScore  int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
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

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			agent TEXT NOT NULL,
			episode INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			reward REAL NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL,
			terminated INTEGER NOT NULL,
			truncated INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_run ON episodes(run_id, episode);
		CREATE INDEX IF NOT EXISTS idx_episodes_agent ON episodes(agent);
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

// SaveScore records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score, level int, player string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, player, score, level) VALUES (?, ?, ?, ?)",
		gameID, player, score, level,
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

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending; ties keep insertion order.
// A zero limit means 10 and a negative limit returns all rows.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit == 0 {
		limit = 10
	}

	// A negative LIMIT returns every row in SQLite.
	rows, err := s.db.Query(
		`SELECT id, game_id, player, score, level, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.Score, &e.Level, &createdAt); err != nil {
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

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Record stores a finished agent episode. It satisfies env.Recorder.
func (s *Store) Record(ctx context.Context, res env.EpisodeResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes
		 (id, run_id, agent, episode, seed, steps, reward, score, level, terminated, truncated, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID.String(),
		res.RunID.String(),
		res.Agent,
		res.Episode,
		res.Seed,
		res.Steps,
		res.Reward,
		res.Score,
		res.Level,
		res.Terminated,
		res.Truncated,
		res.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save episode: %w", err)
	}
	return nil
}

// RecentEpisodes retrieves the most recently stored episodes, newest first.
func (s *Store) RecentEpisodes(ctx context.Context, limit int) ([]EpisodeRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, agent, episode, seed, steps, reward, score, level,
		        terminated, truncated, duration_ms, created_at
		 FROM episodes
		 ORDER BY rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var records []EpisodeRecord
	for rows.Next() {
		var r EpisodeRecord
		var id, runID string
		var durationMS int64
		var createdAt any

		if err := rows.Scan(
			&id,
			&runID,
			&r.Agent,
			&r.Episode,
			&r.Seed,
			&r.Steps,
			&r.Reward,
			&r.Score,
			&r.Level,
			&r.Terminated,
			&r.Truncated,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("storage: bad episode id %q: %w", id, err)
		}
		if r.RunID, err = uuid.Parse(runID); err != nil {
			return nil, fmt.Errorf("storage: bad run id %q: %w", runID, err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// AgentStats aggregates stored episodes per agent, sorted by agent name.
func (s *Store) AgentStats(ctx context.Context) ([]AgentStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT agent, COUNT(*), AVG(reward), MAX(score)
		 FROM episodes
		 GROUP BY agent
		 ORDER BY agent`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query agent stats: %w", err)
	}
	defer rows.Close()

	var stats []AgentStats
	for rows.Next() {
		var st AgentStats
		if err := rows.Scan(&st.Agent, &st.Episodes, &st.MeanReward, &st.BestScore); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
