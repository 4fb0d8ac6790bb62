package auth

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims is what a verified session token resolves to
type TokenClaims struct {
	UserID    string    `json:"id"` // UUID stored as string in token
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService issues and verifies session tokens.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(userID uuid.UUID, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}
