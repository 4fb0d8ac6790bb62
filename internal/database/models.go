package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Address is stored as jsonb
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// User is the row model for the users table
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                 uuid.UUID `bun:"id,pk,type:uuid"`
	Name               string    `bun:"name,notnull"`
	Email              string    `bun:"email,notnull,unique"`
	PasswordHash       string    `bun:"password_hash,notnull"`
	Image              string    `bun:"image,notnull"`
	Address            Address   `bun:"address,type:jsonb,notnull"`
	Gender             string    `bun:"gender,notnull"`
	DOB                string    `bun:"dob,notnull"`
	Phone              string    `bun:"phone,notnull"`
	IsVerified         bool      `bun:"is_verified,notnull"`
	VerifyOTP          string    `bun:"verify_otp,notnull"`
	VerifyOTPExpiresAt time.Time `bun:"verify_otp_expires_at,nullzero"`
	ResetOTP           string    `bun:"reset_otp,notnull"`
	ResetOTPExpiresAt  time.Time `bun:"reset_otp_expires_at,nullzero"`
	CreatedAt          time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Student is one entry of a project's students jsonb array
type Student struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is the row model for the projects table
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	Students   []Student `bun:"students,type:jsonb,notnull"`
	Batch      string    `bun:"batch,notnull"`
	Title      string    `bun:"title,notnull"`
	Supervisor string    `bun:"supervisor,notnull"`
	Year       string    `bun:"year,notnull"`
	Link       string    `bun:"link,nullzero"`
	Keywords   []string  `bun:"keywords,array,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
