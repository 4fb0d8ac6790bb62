package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	now          func() time.Time
}

func NewPasetoService(symmetricKey []byte) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{symmetricKey: key, now: time.Now}, nil
}

func (s *PasetoService) CreateToken(userID uuid.UUID, duration time.Duration) (string, error) {
	now := s.now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(duration))
	token.SetString("id", userID.String())

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken decrypts a v4.local token. Expiry is checked against the
// service clock rather than the parser's so it can be driven in tests.
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := token.GetString("id")
	if err != nil || userID == "" {
		return nil, ErrInvalidToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !s.now().Before(expiresAt) {
		return nil, ErrExpiredToken
	}

	return &TokenClaims{
		UserID:    userID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
