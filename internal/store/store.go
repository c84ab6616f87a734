package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pavelanni/wordgen/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		job_title TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		generated_on TEXT NOT NULL,
		words TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (user_id, generated_on),
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_generations_user ON generations(user_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveGeneration stores a day's vocabulary for a user. When the user
// already has a generation for that day the existing one is kept and
// returned, so concurrent requests agree on a single result.
func (s *Store) SaveGeneration(g model.Generation) (*model.Generation, error) {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO generations (user_id, generated_on, words, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, generated_on) DO NOTHING`,
		g.UserID, g.GeneratedOn, string(g.Words), g.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert generation: %w", err)
	}
	saved, err := s.GetGeneration(g.UserID, g.GeneratedOn)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("generation for %s on %s vanished after insert", g.UserID, g.GeneratedOn)
	}
	return saved, nil
}

// GetGeneration returns the user's generation for the given day
// (DD-MM-YYYY), or nil if there is none.
func (s *Store) GetGeneration(userID, day string) (*model.Generation, error) {
	var (
		g     model.Generation
		words string
	)
	err := s.db.QueryRow(
		`SELECT id, user_id, generated_on, words, created_at
		 FROM generations WHERE user_id = ? AND generated_on = ?`, userID, day,
	).Scan(&g.ID, &g.UserID, &g.GeneratedOn, &words, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g.Words = []byte(words)
	return &g, nil
}

// ListGenerations returns all of a user's generations, newest first.
func (s *Store) ListGenerations(userID string) ([]model.Generation, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, generated_on, words, created_at
		 FROM generations WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var gens []model.Generation
	for rows.Next() {
		var (
			g     model.Generation
			words string
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.GeneratedOn, &words, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Words = []byte(words)
		gens = append(gens, g)
	}
	return gens, rows.Err()
}

// GenerationCount returns the total number of stored generations.
func (s *Store) GenerationCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM generations`).Scan(&count)
	return count, err
}
