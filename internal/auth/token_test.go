package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, h.Verify("password123", hash))
	assert.False(t, h.Verify("password124", hash))
	assert.False(t, h.Verify("", hash))
	assert.False(t, h.Verify("password123", "not-a-bcrypt-hash"))

	again, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salt must differ")
}

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
}

func newTestPaseto(t *testing.T, clk *clock) *PasetoService {
	t.Helper()
	s, err := NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	s.now = clk.Now
	return s
}

func newTestJWT(t *testing.T, clk *clock) *JWTService {
	t.Helper()
	s, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)
	s.now = clk.Now
	return s
}

func TestTokenServices_Lifetime(t *testing.T) {
	services := map[string]func(t *testing.T, clk *clock) TokenService{
		"jwt":    func(t *testing.T, clk *clock) TokenService { return newTestJWT(t, clk) },
		"paseto": func(t *testing.T, clk *clock) TokenService { return newTestPaseto(t, clk) },
	}

	for name, build := range services {
		t.Run(name, func(t *testing.T) {
			clk := newClock()
			s := build(t, clk)
			userID := uuid.New()

			token, err := s.CreateToken(userID, 24*time.Hour)
			require.NoError(t, err)

			claims, err := s.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, userID.String(), claims.UserID)
			assert.True(t, claims.ExpiresAt.Equal(clk.Now().Add(24*time.Hour)))

			clk.Advance(24*time.Hour - time.Second)
			_, err = s.VerifyToken(token)
			require.NoError(t, err)

			clk.Advance(time.Second)
			_, err = s.VerifyToken(token)
			assert.ErrorIs(t, err, ErrExpiredToken)
		})
	}
}

func TestTokenServices_RejectTampered(t *testing.T) {
	clk := newClock()

	jwtSvc := newTestJWT(t, clk)
	token, err := jwtSvc.CreateToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = jwtSvc.VerifyToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewJWTService([]byte("other-secret"))
	require.NoError(t, err)
	other.now = clk.Now
	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = jwtSvc.VerifyToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	pasetoSvc := newTestPaseto(t, clk)
	ptoken, err := pasetoSvc.CreateToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	tampered := ptoken[:len(ptoken)-2] + strings.Repeat("A", 2)
	if tampered == ptoken {
		tampered = ptoken[:len(ptoken)-2] + "BB"
	}
	_, err = pasetoSvc.VerifyToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// a JWT is not a PASETO
	_, err = pasetoSvc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	clk := newClock()
	s := newTestJWT(t, clk)

	// {"alg":"none","typ":"JWT"}.{"id":"x","exp":<far future>}.
	token := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJpZCI6IngiLCJleHAiOjQxMDI0NDQ4MDB9."
	_, err := s.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenServices_KeyChecks(t *testing.T) {
	_, err := NewJWTService(nil)
	assert.Error(t, err)

	_, err = NewPasetoService([]byte("short"))
	assert.Error(t, err)
}
