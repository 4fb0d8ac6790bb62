package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/projectshelf-api/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const uniqueViolation = "23505"

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. Missing profile fields get their defaults.
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	applyDefaults(u)

	dbUser := mapModelToDBUser(u)

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by normalized email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", NormalizeEmail(email)).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// Update applies changes in a single UPDATE statement and returns the stored user
func (r *Repository) Update(ctx context.Context, id uuid.UUID, changes Changes) (*User, error) {
	if changes.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	q := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Where("id = ?", id)

	if changes.Name != nil {
		q = q.Set("name = ?", *changes.Name)
	}
	if changes.Phone != nil {
		q = q.Set("phone = ?", *changes.Phone)
	}
	if changes.DOB != nil {
		q = q.Set("dob = ?", *changes.DOB)
	}
	if changes.Gender != nil {
		q = q.Set("gender = ?", *changes.Gender)
	}
	if changes.Image != nil {
		q = q.Set("image = ?", *changes.Image)
	}
	if changes.Address != nil {
		addr, err := json.Marshal(database.Address(*changes.Address))
		if err != nil {
			return nil, fmt.Errorf("failed to encode address: %w", err)
		}
		q = q.Set("address = ?::jsonb", string(addr))
	}
	if changes.PasswordHash != nil {
		q = q.Set("password_hash = ?", *changes.PasswordHash)
	}
	if changes.IsVerified != nil {
		q = q.Set("is_verified = ?", *changes.IsVerified)
	}
	if changes.VerifyOTP != nil {
		q = q.Set("verify_otp = ?", changes.VerifyOTP.Code).
			Set("verify_otp_expires_at = ?", nullTime(changes.VerifyOTP.ExpiresAt))
	}
	if changes.ResetOTP != nil {
		q = q.Set("reset_otp = ?", changes.ResetOTP.Code).
			Set("reset_otp_expires_at = ?", nullTime(changes.ResetOTP.ExpiresAt))
	}

	result, err := q.Set("updated_at = NOW()").Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func applyDefaults(u *User) {
	if u.Image == "" {
		u.Image = DefaultImage
	}
	if u.Gender == "" {
		u.Gender = DefaultGender
	}
	if u.DOB == "" {
		u.DOB = DefaultDOB
	}
	if u.Phone == "" {
		u.Phone = DefaultPhone
	}
	u.Email = NormalizeEmail(u.Email)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func mapModelToDBUser(u *User) *database.User {
	return &database.User{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		Image:              u.Image,
		Address:            database.Address(u.Address),
		Gender:             u.Gender,
		DOB:                u.DOB,
		Phone:              u.Phone,
		IsVerified:         u.IsVerified,
		VerifyOTP:          u.VerifyOTP.Code,
		VerifyOTPExpiresAt: u.VerifyOTP.ExpiresAt,
		ResetOTP:           u.ResetOTP.Code,
		ResetOTPExpiresAt:  u.ResetOTP.ExpiresAt,
	}
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:           dbu.ID,
		Name:         dbu.Name,
		Email:        dbu.Email,
		PasswordHash: dbu.PasswordHash,
		Image:        dbu.Image,
		Address:      Address(dbu.Address),
		Gender:       dbu.Gender,
		DOB:          dbu.DOB,
		Phone:        dbu.Phone,
		IsVerified:   dbu.IsVerified,
		VerifyOTP:    OTP{Code: dbu.VerifyOTP, ExpiresAt: dbu.VerifyOTPExpiresAt},
		ResetOTP:     OTP{Code: dbu.ResetOTP, ExpiresAt: dbu.ResetOTPExpiresAt},
		CreatedAt:    dbu.CreatedAt,
		UpdatedAt:    dbu.UpdatedAt,
	}
}
