package model

import (
	"context"
	"encoding/json"
	"time"
)

// DateLayout is the day-first layout the backend uses for generation dates.
const DateLayout = "02-01-2006"

// User represents a registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	JobTitle     string
	CreatedAt    time.Time
}

// Generation is one day's worth of generated vocabulary for a user.
// Words holds the generated records as a JSON array, exactly as stored.
type Generation struct {
	ID          int64
	UserID      string
	GeneratedOn string
	Words       json.RawMessage
	CreatedAt   time.Time
}

// CurrentUser is the identity extracted from a bearer token.
type CurrentUser struct {
	UserID   string
	Email    string
	JobTitle string
}

type userCtxKey struct{}

// ContextWithUser stores the authenticated user in the request context.
func ContextWithUser(ctx context.Context, u *CurrentUser) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *CurrentUser {
	u, _ := ctx.Value(userCtxKey{}).(*CurrentUser)
	return u
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	JobTitle string `json:"job_title"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by POST /login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse is a plain success body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body for every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HistoryRecord is one element of GET /get-history.
type HistoryRecord struct {
	WordObject       json.RawMessage `json:"word_object"`
	UserID           string          `json:"user_id"`
	WordsGeneratedOn string          `json:"words_generated_on"`
}

// QuizItem is one question as exchanged on the wire.
type QuizItem struct {
	Question string   `json:"Question"`
	Type     string   `json:"Type"`
	Options  []string `json:"Options,omitempty"`
	Answer   string   `json:"Answer"`
}

// ServerConfig holds runtime backend parameters set via CLI flags.
type ServerConfig struct {
	JWTSecret  []byte
	TokenTTL   time.Duration // 0 means tokens never expire
	CORSOrigin string        // empty disables CORS headers
	Location   *time.Location
}
