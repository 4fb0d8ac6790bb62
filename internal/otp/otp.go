// Package otp issues and checks the six digit one-time codes used for
// email verification and password reset.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redmonkez12/projectshelf-api/internal/user"
)

const (
	minCode = 100000
	maxCode = 999999
)

var (
	ErrExpired  = errors.New("otp has expired")
	ErrMismatch = errors.New("invalid otp")
)

// Purpose selects which stored code a flow uses and how long it lives
type Purpose int

const (
	Verification Purpose = iota
	Reset
)

// TTL returns how long a code issued for p stays valid
func (p Purpose) TTL() time.Duration {
	switch p {
	case Reset:
		return 15 * time.Minute
	default:
		return 24 * time.Hour
	}
}

func (p Purpose) String() string {
	switch p {
	case Reset:
		return "reset"
	default:
		return "verification"
	}
}

// Generate returns a code drawn uniformly from [100000, 999999]
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+minCode), nil
}

// Issue generates a code for p that expires TTL after now
func Issue(p Purpose, now time.Time) (user.OTP, error) {
	code, err := Generate()
	if err != nil {
		return user.OTP{}, err
	}
	return user.OTP{Code: code, ExpiresAt: now.Add(p.TTL())}, nil
}

// Stored returns the code u holds for p
func Stored(u *user.User, p Purpose) user.OTP {
	if p == Reset {
		return u.ResetOTP
	}
	return u.VerifyOTP
}

// Validate checks submitted against stored. The comparison is exact; the
// expiry must be strictly after now.
func Validate(stored user.OTP, submitted string, now time.Time) error {
	if !stored.IsSet() || stored.Code != submitted {
		return ErrMismatch
	}
	if !now.Before(stored.ExpiresAt) {
		return ErrExpired
	}
	return nil
}
