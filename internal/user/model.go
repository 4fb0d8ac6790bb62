package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile defaults applied on registration
const (
	DefaultImage  = "data:image/webp;base64,UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="
	DefaultGender = "Not Selected"
	DefaultDOB    = "Not Selected"
	DefaultPhone  = "+8801......"
)

type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// OTP is a one-time code and its expiry. The zero value means unset.
type OTP struct {
	Code      string
	ExpiresAt time.Time
}

// IsSet reports whether a code has been issued and not yet cleared
func (o OTP) IsSet() bool {
	return o.Code != ""
}

// IsActive reports whether the code is set and now is strictly before its expiry
func (o OTP) IsActive(now time.Time) bool {
	return o.IsSet() && now.Before(o.ExpiresAt)
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Image        string    `json:"image"`
	Address      Address   `json:"address"`
	Gender       string    `json:"gender"`
	DOB          string    `json:"dob"`
	Phone        string    `json:"phone"`
	IsVerified   bool      `json:"isVerified"`
	VerifyOTP    OTP       `json:"-"`
	ResetOTP     OTP       `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Changes is a partial update. Nil fields are left untouched.
// VerifyOTP and ResetOTP write the code and its expiry together; a zero OTP clears both.
type Changes struct {
	Name         *string
	Phone        *string
	DOB          *string
	Gender       *string
	Image        *string
	Address      *Address
	PasswordHash *string
	IsVerified   *bool
	VerifyOTP    *OTP
	ResetOTP     *OTP
}

// IsEmpty reports whether the update would change nothing
func (c Changes) IsEmpty() bool {
	return c.Name == nil && c.Phone == nil && c.DOB == nil && c.Gender == nil &&
		c.Image == nil && c.Address == nil && c.PasswordHash == nil &&
		c.IsVerified == nil && c.VerifyOTP == nil && c.ResetOTP == nil
}

// Apply copies the non-nil fields of c onto u
func (c Changes) Apply(u *User) {
	if c.Name != nil {
		u.Name = *c.Name
	}
	if c.Phone != nil {
		u.Phone = *c.Phone
	}
	if c.DOB != nil {
		u.DOB = *c.DOB
	}
	if c.Gender != nil {
		u.Gender = *c.Gender
	}
	if c.Image != nil {
		u.Image = *c.Image
	}
	if c.Address != nil {
		u.Address = *c.Address
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	if c.IsVerified != nil {
		u.IsVerified = *c.IsVerified
	}
	if c.VerifyOTP != nil {
		u.VerifyOTP = *c.VerifyOTP
	}
	if c.ResetOTP != nil {
		u.ResetOTP = *c.ResetOTP
	}
}

// NormalizeEmail trims and lowercases an address so uniqueness is case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
