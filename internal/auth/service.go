package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/redmonkez12/projectshelf-api/internal/logging"
	"github.com/redmonkez12/projectshelf-api/internal/otp"
	"github.com/redmonkez12/projectshelf-api/internal/user"
)

const (
	minNameLength     = 3
	minPasswordLength = 8
	// bcrypt rejects longer input
	maxPasswordBytes = 72
)

// UserStore persists user records
type UserStore interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Update(ctx context.Context, id uuid.UUID, changes user.Changes) (*user.User, error)
}

// Notifier delivers account emails
type Notifier interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
	SendVerificationOTP(ctx context.Context, toEmail, code string) error
	SendPasswordResetOTP(ctx context.Context, toEmail, code string) error
}

// ImageStore uploads profile images and returns their public URL
type ImageStore interface {
	UploadProfileImage(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.ReadSeeker) (string, error)
}

// ProfileUpdate carries the fields of an update-profile request.
// Address is the raw JSON sent by the client.
type ProfileUpdate struct {
	Name    string
	Phone   string
	Address string
	DOB     string
	Gender  string
	Image   *ImageUpload
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.ReadSeeker
}

// Service handles authentication business logic
type Service struct {
	users           UserStore
	hasher          PasswordHasher
	tokens          TokenService
	notifier        Notifier
	images          ImageStore
	logger          *logging.Logger
	sessionDuration time.Duration
	now             func() time.Time

	// in-flight notification sends
	wg sync.WaitGroup
}

func NewService(
	users UserStore,
	hasher PasswordHasher,
	tokens TokenService,
	notifier Notifier,
	images ImageStore,
	logger *logging.Logger,
	sessionDuration time.Duration,
) *Service {
	return &Service{
		users:           users,
		hasher:          hasher,
		tokens:          tokens,
		notifier:        notifier,
		images:          images,
		logger:          logger,
		sessionDuration: sessionDuration,
		now:             time.Now,
	}
}

// SessionDuration is the lifetime of issued session tokens
func (s *Service) SessionDuration() time.Duration {
	return s.sessionDuration
}

// Wait blocks until every queued notification has been attempted
func (s *Service) Wait() {
	s.wg.Wait()
}

// Register creates an unverified account and returns a session token for it.
// The welcome email is sent in the background; a failed send is only logged.
func (s *Service) Register(ctx context.Context, name, email, password string) (*user.User, string, error) {
	name = strings.TrimSpace(name)
	email = user.NormalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, "", ErrMissingDetails
	}
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, "", ErrNameTooShort
	}
	if !isValidEmail(email) {
		return nil, "", ErrInvalidEmailFormat
	}
	if len(password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return nil, "", ErrPasswordTooLong
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	u, err := s.users.Create(ctx, &user.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.CreateToken(u.ID, s.sessionDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	s.notify(ctx, "welcome", u.Email, func(ctx context.Context) error {
		return s.notifier.SendWelcomeEmail(ctx, u.Email, u.Name)
	})

	return u, token, nil
}

// Login checks credentials and returns a fresh session token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}

	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return "", ErrInvalidPassword
	}

	token, err := s.tokens.CreateToken(u.ID, s.sessionDuration)
	if err != nil {
		return "", fmt.Errorf("failed to create session token: %w", err)
	}

	return token, nil
}

// GetProfile returns the user the session belongs to
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.findByID(ctx, userID)
}

// UpdateProfile replaces the editable profile fields. When an image is given
// it is uploaded and its URL saved in a second write after the fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (*user.User, error) {
	if in.Name == "" || in.Phone == "" || in.Address == "" || in.DOB == "" || in.Gender == "" {
		return nil, ErrMissingFields
	}

	address, err := parseAddress(in.Address)
	if err != nil {
		return nil, err
	}

	updated, err := s.update(ctx, userID, user.Changes{
		Name:    &in.Name,
		Phone:   &in.Phone,
		Address: &address,
		DOB:     &in.DOB,
		Gender:  &in.Gender,
	})
	if err != nil {
		return nil, err
	}

	if in.Image == nil {
		return updated, nil
	}

	url, err := s.images.UploadProfileImage(ctx, userID, in.Image.Filename, in.Image.ContentType, in.Image.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload profile image: %w", err)
	}

	return s.update(ctx, userID, user.Changes{Image: &url})
}

// SendVerifyOTP issues a new verification code, replacing any earlier one
func (s *Service) SendVerifyOTP(ctx context.Context, userID uuid.UUID) error {
	u, err := s.findByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := otp.Issue(otp.Verification, s.now())
	if err != nil {
		return err
	}

	if _, err := s.update(ctx, u.ID, user.Changes{VerifyOTP: &code}); err != nil {
		return err
	}

	s.notify(ctx, "verification otp", u.Email, func(ctx context.Context) error {
		return s.notifier.SendVerificationOTP(ctx, u.Email, code.Code)
	})

	return nil
}

// VerifyEmail marks the account verified when otpCode matches the stored,
// unexpired verification code. The code is cleared in the same write.
func (s *Service) VerifyEmail(ctx context.Context, userID uuid.UUID, otpCode string) error {
	if userID == uuid.Nil || otpCode == "" {
		return ErrMissingDetails
	}

	u, err := s.findByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}

	if err := checkOTP(otp.Stored(u, otp.Verification), otpCode, s.now()); err != nil {
		return err
	}

	verified := true
	_, err = s.update(ctx, u.ID, user.Changes{
		IsVerified: &verified,
		VerifyOTP:  &user.OTP{},
	})
	return err
}

// SendResetOTP issues a password reset code for the account behind email
func (s *Service) SendResetOTP(ctx context.Context, email string) error {
	email = user.NormalizeEmail(email)
	if email == "" {
		return ErrMissingEmail
	}

	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := otp.Issue(otp.Reset, s.now())
	if err != nil {
		return err
	}

	if _, err := s.update(ctx, u.ID, user.Changes{ResetOTP: &code}); err != nil {
		return err
	}

	s.notify(ctx, "password reset otp", u.Email, func(ctx context.Context) error {
		return s.notifier.SendPasswordResetOTP(ctx, u.Email, code.Code)
	})

	return nil
}

// ResetPassword sets a new password when otpCode matches the stored,
// unexpired reset code. The code is cleared in the same write.
func (s *Service) ResetPassword(ctx context.Context, email, otpCode, newPassword string) error {
	email = user.NormalizeEmail(email)
	if email == "" || otpCode == "" || newPassword == "" {
		return ErrMissingDetails
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(newPassword) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := checkOTP(otp.Stored(u, otp.Reset), otpCode, s.now()); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	_, err = s.update(ctx, u.ID, user.Changes{
		PasswordHash: &hash,
		ResetOTP:     &user.OTP{},
	})
	return err
}

func (s *Service) findByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (s *Service) findByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

func (s *Service) update(ctx context.Context, id uuid.UUID, changes user.Changes) (*user.User, error) {
	u, err := s.users.Update(ctx, id, changes)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// notify runs send in the background, detached from the request's cancellation
func (s *Service) notify(ctx context.Context, kind, email string, send func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := send(ctx); err != nil {
			s.logger.Warn("failed to send email", "kind", kind, "email", email, "error", err.Error())
		}
	}()
}

func checkOTP(stored user.OTP, submitted string, now time.Time) error {
	switch err := otp.Validate(stored, submitted, now); {
	case err == nil:
		return nil
	case errors.Is(err, otp.ErrExpired):
		return ErrOTPExpired
	default:
		return ErrOTPMismatch
	}
}

// parseAddress accepts a single JSON object holding line1, line2 or both
// and nothing else.
func parseAddress(raw string) (user.Address, error) {
	var fields struct {
		Line1 *string `json:"line1"`
		Line2 *string `json:"line2"`
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fields); err != nil {
		return user.Address{}, ErrMalformedAddress
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return user.Address{}, ErrMalformedAddress
	}
	// null decodes without error and sets neither field
	if fields.Line1 == nil && fields.Line2 == nil {
		return user.Address{}, ErrMalformedAddress
	}

	var address user.Address
	if fields.Line1 != nil {
		address.Line1 = *fields.Line1
	}
	if fields.Line2 != nil {
		address.Line2 = *fields.Line2
	}
	return address, nil
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// reject display-name forms such as "Alice <a@b.c>"
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}
