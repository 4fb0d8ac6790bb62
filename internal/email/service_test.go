package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(err error) (*Service, *capturedMail) {
	s := NewService("smtp.example.com", "587", "user", "pass", "noreply@projectshelf.dev")
	captured := &capturedMail{}
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.from = from
		captured.to = to
		captured.msg = string(msg)
		return err
	}
	return s, captured
}

func TestSendVerificationOTP(t *testing.T) {
	s, mail := newTestService(nil)

	require.NoError(t, s.SendVerificationOTP(context.Background(), "alice@example.com", "123456"))

	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, "noreply@projectshelf.dev", mail.from)
	assert.Equal(t, []string{"alice@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Account Verification OTP\r\n")
	assert.Contains(t, mail.msg, "<strong>123456</strong>")
	assert.Contains(t, mail.msg, "24 hours")
}

func TestSendPasswordResetOTP(t *testing.T) {
	s, mail := newTestService(nil)

	require.NoError(t, s.SendPasswordResetOTP(context.Background(), "alice@example.com", "654321"))

	assert.Contains(t, mail.msg, "Subject: Password Reset OTP\r\n")
	assert.Contains(t, mail.msg, "654321")
	assert.Contains(t, mail.msg, "15 minutes")
}

func TestSendWelcomeEmail_EscapesName(t *testing.T) {
	s, mail := newTestService(nil)

	require.NoError(t, s.SendWelcomeEmail(context.Background(), "alice@example.com", "<b>Alice</b>"))

	assert.Contains(t, mail.msg, "Welcome to ProjectShelf, &lt;b&gt;Alice&lt;/b&gt;!")
	assert.Contains(t, mail.msg, "alice@example.com")
	assert.False(t, strings.Contains(mail.msg, "<b>Alice</b>"))
}

func TestSend_Failure(t *testing.T) {
	s, _ := newTestService(errors.New("connection refused"))

	err := s.SendWelcomeEmail(context.Background(), "alice@example.com", "Alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNewService_SenderFallback(t *testing.T) {
	s := NewService("smtp.example.com", "587", "user@example.com", "pass", "")
	assert.Equal(t, "user@example.com", s.fromEmail)
}
