// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/wordgen/internal/model"
)

// ErrInvalidToken is returned for tokens that fail verification or lack
// required claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user's email as the subject plus the user ID and job
// title, so handlers need no lookup to tailor generation.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	JobTitle string `json:"job_title"`
}

// GenerateToken signs an HS256 token for u. A zero ttl issues a token
// without expiry.
func GenerateToken(u model.CurrentUser, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.Email,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID:   u.UserID,
		JobTitle: u.JobTitle,
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// ParseToken verifies tokenString and returns the identity it carries.
func ParseToken(tokenString string, secretKey []byte) (*model.CurrentUser, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &model.CurrentUser{
		UserID:   claims.UserID,
		Email:    claims.Subject,
		JobTitle: claims.JobTitle,
	}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
