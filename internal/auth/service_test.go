package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/projectshelf-api/internal/user"
)

func TestRegister_Success(t *testing.T) {
	env := newTestEnv()

	u, token, err := env.service.Register(context.Background(), "Alice Smith", "Alice@Example.com", "password123")
	require.NoError(t, err)
	env.service.Wait()

	assert.Equal(t, "alice@example.com", u.Email)
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "password123", u.PasswordHash)

	claims, err := env.tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)

	sent, ok := env.notifier.last("welcome")
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", sent.to)
	assert.Equal(t, "Alice Smith", sent.arg)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv()
	env.register()

	_, _, err := env.service.Register(context.Background(), "Alice Again", "  ALICE@example.com ", "password456")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, KindConflict, classify(err).Kind)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		want     *Error
	}{
		{name: "missing fields", userName: "", email: "a@b.com", password: "password123", want: ErrMissingDetails},
		{name: "short name", userName: "Al", email: "alice@example.com", password: "password123", want: ErrNameTooShort},
		{name: "bad email", userName: "Alice", email: "not-an-email", password: "password123", want: ErrInvalidEmailFormat},
		{name: "display name email", userName: "Alice", email: "Alice <alice@example.com>", password: "password123", want: ErrInvalidEmailFormat},
		{name: "short password", userName: "Alice", email: "alice@example.com", password: "short", want: ErrPasswordTooShort},
		{name: "password over bcrypt limit", userName: "Alice", email: "alice@example.com", password: strings.Repeat("a", 80), want: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			_, _, err := env.service.Register(context.Background(), tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, env.store.users)
		})
	}
}

func TestRegister_WelcomeEmailFailureIsNotFatal(t *testing.T) {
	env := newTestEnv()
	env.notifier.err = errBoom

	_, token, err := env.service.Register(context.Background(), "Alice Smith", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	env.service.Wait()
	assert.Len(t, env.store.users, 1)
}

func TestRegister_StoreFailureIsInternal(t *testing.T) {
	env := newTestEnv()
	env.store.err = errBoom

	_, _, err := env.service.Register(context.Background(), "Alice Smith", "alice@example.com", "password123")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, ErrInternal, classify(err))
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	u := env.register()

	tests := []struct {
		name     string
		email    string
		password string
		want     *Error
	}{
		{name: "missing password", email: "alice@example.com", password: "", want: ErrMissingCredentials},
		{name: "missing email", email: " ", password: "password123", want: ErrMissingCredentials},
		{name: "unknown user", email: "bob@example.com", password: "password123", want: ErrUserNotFound},
		{name: "wrong password", email: "alice@example.com", password: "password124", want: ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Login(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("success with mixed case email", func(t *testing.T) {
		token, err := env.service.Login(context.Background(), "ALICE@example.com", "password123")
		require.NoError(t, err)

		claims, err := env.tokens.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), claims.UserID)
	})
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv()
	u := env.register()

	got, err := env.service.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.Name)

	_, err = env.service.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	valid := func() ProfileUpdate {
		return ProfileUpdate{
			Name:    "Alice B. Smith",
			Phone:   "+8801700000000",
			Address: `{"line1":"12 Road","line2":"Dhaka"}`,
			DOB:     "2000-01-01",
			Gender:  "Female",
		}
	}

	t.Run("missing fields", func(t *testing.T) {
		env := newTestEnv()
		u := env.register()

		in := valid()
		in.Gender = ""
		_, err := env.service.UpdateProfile(context.Background(), u.ID, in)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	for _, address := range []string{
		"12 Road, Dhaka",
		"null",
		`{"foo":1}`,
		`{"line1":"12 Road","city":"Dhaka"}`,
		`["12 Road","Dhaka"]`,
		`{"line1":"12 Road"}{"line2":"Dhaka"}`,
	} {
		t.Run("malformed address "+address, func(t *testing.T) {
			env := newTestEnv()
			u := env.register()

			in := valid()
			in.Address = address
			_, err := env.service.UpdateProfile(context.Background(), u.ID, in)
			assert.ErrorIs(t, err, ErrMalformedAddress)
			assert.Equal(t, "Alice Smith", env.store.get(u.ID).Name)
		})
	}

	t.Run("single address line", func(t *testing.T) {
		env := newTestEnv()
		u := env.register()

		in := valid()
		in.Address = `{"line1":"12 Road"}`
		got, err := env.service.UpdateProfile(context.Background(), u.ID, in)
		require.NoError(t, err)
		assert.Equal(t, user.Address{Line1: "12 Road"}, got.Address)
	})

	t.Run("fields only", func(t *testing.T) {
		env := newTestEnv()
		u := env.register()

		got, err := env.service.UpdateProfile(context.Background(), u.ID, valid())
		require.NoError(t, err)
		assert.Equal(t, "Alice B. Smith", got.Name)
		assert.Equal(t, user.Address{Line1: "12 Road", Line2: "Dhaka"}, got.Address)
		assert.Empty(t, env.images.uploads)
	})

	t.Run("with image", func(t *testing.T) {
		env := newTestEnv()
		u := env.register()

		in := valid()
		in.Image = &ImageUpload{Filename: "me.png", ContentType: "image/png", Body: strings.NewReader("png-bytes")}

		got, err := env.service.UpdateProfile(context.Background(), u.ID, in)
		require.NoError(t, err)
		assert.Equal(t, []string{"png-bytes"}, env.images.uploads)
		assert.Equal(t, "https://cdn.example.com/users/"+u.ID.String()+"/me.png", got.Image)
	})

	t.Run("failed upload keeps field update", func(t *testing.T) {
		env := newTestEnv()
		u := env.register()
		env.images.err = errBoom

		in := valid()
		in.Image = &ImageUpload{Filename: "me.png", ContentType: "image/png", Body: strings.NewReader("png-bytes")}

		_, err := env.service.UpdateProfile(context.Background(), u.ID, in)
		require.ErrorIs(t, err, errBoom)

		stored := env.store.get(u.ID)
		assert.Equal(t, "Alice B. Smith", stored.Name)
		assert.Empty(t, stored.Image)
	})
}

func TestVerifyEmailFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	u := env.register()

	err := env.service.VerifyEmail(ctx, u.ID, "")
	assert.ErrorIs(t, err, ErrMissingDetails)

	// nothing issued yet
	err = env.service.VerifyEmail(ctx, u.ID, "123456")
	assert.ErrorIs(t, err, ErrOTPMismatch)

	require.NoError(t, env.service.SendVerifyOTP(ctx, u.ID))
	env.service.Wait()

	sent, ok := env.notifier.last("verify")
	require.True(t, ok)
	code := sent.arg

	stored := env.store.get(u.ID)
	assert.Equal(t, code, stored.VerifyOTP.Code)
	assert.Equal(t, env.clock.Now().Add(24*time.Hour), stored.VerifyOTP.ExpiresAt)
	assert.Equal(t, user.StateVerificationPending, stored.State(env.clock.Now()))

	err = env.service.VerifyEmail(ctx, u.ID, wrongCode(code))
	assert.ErrorIs(t, err, ErrOTPMismatch)

	require.NoError(t, env.service.VerifyEmail(ctx, u.ID, code))

	stored = env.store.get(u.ID)
	assert.True(t, stored.IsVerified)
	assert.False(t, stored.VerifyOTP.IsSet())
	assert.True(t, stored.VerifyOTP.ExpiresAt.IsZero())

	err = env.service.VerifyEmail(ctx, u.ID, code)
	assert.ErrorIs(t, err, ErrAlreadyVerified)

	err = env.service.SendVerifyOTP(ctx, u.ID)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyEmail_Expired(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	u := env.register()

	require.NoError(t, env.service.SendVerifyOTP(ctx, u.ID))
	env.service.Wait()
	sent, _ := env.notifier.last("verify")

	env.clock.Advance(24 * time.Hour)

	err := env.service.VerifyEmail(ctx, u.ID, sent.arg)
	assert.ErrorIs(t, err, ErrOTPExpired)

	stored := env.store.get(u.ID)
	assert.False(t, stored.IsVerified)
	assert.Equal(t, sent.arg, stored.VerifyOTP.Code)
}

func TestSendResetOTP(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	u := env.register()

	assert.ErrorIs(t, env.service.SendResetOTP(ctx, ""), ErrMissingEmail)
	assert.ErrorIs(t, env.service.SendResetOTP(ctx, "bob@example.com"), ErrUserNotFound)

	require.NoError(t, env.service.SendResetOTP(ctx, "Alice@Example.com"))
	env.service.Wait()

	sent, ok := env.notifier.last("reset")
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", sent.to)

	stored := env.store.get(u.ID)
	assert.Equal(t, sent.arg, stored.ResetOTP.Code)
	assert.Equal(t, env.clock.Now().Add(15*time.Minute), stored.ResetOTP.ExpiresAt)
	assert.Equal(t, user.StateResetPending, stored.State(env.clock.Now()))
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	u := env.register()

	require.NoError(t, env.service.SendResetOTP(ctx, "alice@example.com"))
	env.service.Wait()
	sent, _ := env.notifier.last("reset")

	assert.ErrorIs(t, env.service.ResetPassword(ctx, "alice@example.com", "", "newpassword1"), ErrMissingDetails)
	assert.ErrorIs(t, env.service.ResetPassword(ctx, "alice@example.com", sent.arg, "short"), ErrPasswordTooShort)
	assert.ErrorIs(t, env.service.ResetPassword(ctx, "alice@example.com", sent.arg, strings.Repeat("a", 73)), ErrPasswordTooLong)
	assert.ErrorIs(t, env.service.ResetPassword(ctx, "bob@example.com", sent.arg, "newpassword1"), ErrUserNotFound)
	assert.ErrorIs(t, env.service.ResetPassword(ctx, "alice@example.com", wrongCode(sent.arg), "newpassword1"), ErrOTPMismatch)

	require.NoError(t, env.service.ResetPassword(ctx, "alice@example.com", sent.arg, "newpassword1"))

	stored := env.store.get(u.ID)
	assert.False(t, stored.ResetOTP.IsSet())
	assert.True(t, stored.ResetOTP.ExpiresAt.IsZero())

	_, err := env.service.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = env.service.Login(ctx, "alice@example.com", "newpassword1")
	assert.NoError(t, err)

	// the code was consumed
	err = env.service.ResetPassword(ctx, "alice@example.com", sent.arg, "newpassword2")
	assert.ErrorIs(t, err, ErrOTPMismatch)
}

func TestResetPassword_ExpiredAfterSixteenMinutes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	u := env.register()
	before := env.store.get(u.ID).PasswordHash

	require.NoError(t, env.service.SendResetOTP(ctx, "alice@example.com"))
	env.service.Wait()
	sent, _ := env.notifier.last("reset")

	env.clock.Advance(16 * time.Minute)

	err := env.service.ResetPassword(ctx, "alice@example.com", sent.arg, "newpassword1")
	assert.ErrorIs(t, err, ErrOTPExpired)
	assert.Equal(t, before, env.store.get(u.ID).PasswordHash)
}

// Issuing is read-then-write with no lock held, so the last code written wins.
func TestSendResetOTP_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.register()

	require.NoError(t, env.service.SendResetOTP(ctx, "alice@example.com"))
	env.service.Wait()
	first, _ := env.notifier.last("reset")

	require.NoError(t, env.service.SendResetOTP(ctx, "alice@example.com"))
	env.service.Wait()
	second, _ := env.notifier.last("reset")

	if first.arg == second.arg {
		t.Skip("generator repeated a code")
	}

	err := env.service.ResetPassword(ctx, "alice@example.com", first.arg, "newpassword1")
	assert.ErrorIs(t, err, ErrOTPMismatch)

	require.NoError(t, env.service.ResetPassword(ctx, "alice@example.com", second.arg, "newpassword1"))
}

// wrongCode returns a six digit code different from code
func wrongCode(code string) string {
	if code == "100000" {
		return "100001"
	}
	return "100000"
}
