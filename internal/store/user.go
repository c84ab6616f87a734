package store

import (
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/wordgen/internal/model"
)

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a new user and returns its ID. An ID is generated when
// u.ID is empty.
func (s *Store) CreateUser(u model.User) (string, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = NormalizeEmail(u.Email)
	_, err := s.db.Exec(
		`INSERT INTO users (id, email, password_hash, job_title, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.JobTitle, time.Now(),
	)
	if err != nil {
		slog.Error("failed to create user", "email", u.Email, "error", err)
		return "", err
	}
	slog.Info("created user", "id", u.ID, "email", u.Email, "job_title", u.JobTitle)
	return u.ID, nil
}

// GetUserByEmail returns a user by email, or nil if not found.
func (s *Store) GetUserByEmail(email string) (*model.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, password_hash, job_title, created_at
		 FROM users WHERE email = ?`, NormalizeEmail(email),
	))
}

// GetUserByID returns a user by ID, or nil if not found.
func (s *Store) GetUserByID(id string) (*model.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, password_hash, job_title, created_at
		 FROM users WHERE id = ?`, id,
	))
}

func (s *Store) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.JobTitle, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users in signup order.
func (s *Store) ListUsers() ([]model.User, error) {
	rows, err := s.db.Query(
		`SELECT id, email, password_hash, job_title, created_at
		 FROM users ORDER BY created_at, email`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.JobTitle, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserCount returns the total number of users.
func (s *Store) UserCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
