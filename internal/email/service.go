package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/redmonkez12/projectshelf-api/internal/logging"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Service struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromEmail    string
	send         sendFunc
}

// NewService creates the SMTP mailer. Messages are sent from senderEmail,
// falling back to the SMTP user when it is empty.
func NewService(smtpHost, smtpPort, smtpUser, smtpPassword, senderEmail string) *Service {
	from := senderEmail
	if from == "" {
		from = smtpUser
	}

	return &Service{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		fromEmail:    from,
		send:         smtp.SendMail,
	}
}

// SendWelcomeEmail greets a newly registered user
// This method is designed to be called in a goroutine
func (s *Service) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	return s.deliver(ctx, "welcome", toEmail, "Welcome to ProjectShelf", map[string]string{
		"Name":  name,
		"Email": toEmail,
	})
}

// SendVerificationOTP sends the email verification code
// This method is designed to be called in a goroutine
func (s *Service) SendVerificationOTP(ctx context.Context, toEmail, code string) error {
	return s.deliver(ctx, "verification", toEmail, "Account Verification OTP", map[string]string{
		"OTP":   code,
		"Email": toEmail,
	})
}

// SendPasswordResetOTP sends the password reset code
// This method is designed to be called in a goroutine
func (s *Service) SendPasswordResetOTP(ctx context.Context, toEmail, code string) error {
	return s.deliver(ctx, "passwordReset", toEmail, "Password Reset OTP", map[string]string{
		"OTP":   code,
		"Email": toEmail,
	})
}

func (s *Service) deliver(ctx context.Context, name, toEmail, subject string, data map[string]string) error {
	logger := logging.GetLoggerFromContext(ctx)

	body, err := render(name, data)
	if err != nil {
		logger.Error("failed to render email template", "template", name, "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(toEmail, subject, body); err != nil {
		logger.Error("failed to send email", "template", name, "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("email sent", "template", name, "email", toEmail)
	return nil
}

func (s *Service) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		s.fromEmail, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	return s.send(addr, auth, s.fromEmail, []string{to}, msg)
}

var templates = template.Must(template.New("email").Parse(`
{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
{{template "content" .}}
<p style="margin-top: 30px; font-size: 12px; color: #666;">This email was sent to {{.Email}}.</p>
</body>
</html>{{end}}
`))

// message bodies rendered inside the layout
var contents = map[string]string{
	"welcome": `<h2>Welcome to ProjectShelf, {{.Name}}!</h2>
<p>Your account has been created with email id: {{.Email}}</p>`,
	"verification": `<h2>Verify your account</h2>
<p>Your OTP is <strong>{{.OTP}}</strong>. Verify your account using this OTP.</p>
<p>This code expires in 24 hours.</p>`,
	"passwordReset": `<h2>Reset your password</h2>
<p>Your OTP for resetting your password is <strong>{{.OTP}}</strong>. Use this OTP to proceed with resetting your password.</p>
<p>This code expires in 15 minutes. If you did not request a reset you can ignore this email.</p>`,
}

func render(name string, data map[string]string) (string, error) {
	content, ok := contents[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}

	t, err := templates.Clone()
	if err != nil {
		return "", fmt.Errorf("clone template: %w", err)
	}
	if _, err := t.New("content").Parse(content); err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
