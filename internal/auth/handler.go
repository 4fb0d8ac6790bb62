package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/redmonkez12/projectshelf-api/internal/httputil"
	"github.com/redmonkez12/projectshelf-api/internal/logging"
	"github.com/redmonkez12/projectshelf-api/internal/ratelimit"
	"github.com/redmonkez12/projectshelf-api/internal/user"
)

// profile images larger than this are rejected. The whole request body may
// carry one more MiB for the form fields.
const (
	maxUploadSize = 5 << 20
	maxFormSize   = maxUploadSize + 1<<20
)

// RateLimiter throttles abuse-prone endpoints per client IP and per target
type RateLimiter interface {
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
	CheckEmailCooldown(ctx context.Context, purpose, key string) (bool, error)
	SetEmailCooldown(ctx context.Context, purpose, key string) error
}

// Handler contains HTTP handlers for account endpoints
type Handler struct {
	service      *Service
	rateLimiter  RateLimiter
	isProduction bool
}

func NewHandler(service *Service, rateLimiter RateLimiter, isProduction bool) *Handler {
	return &Handler{
		service:      service,
		rateLimiter:  rateLimiter,
		isProduction: isProduction,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest represents the email verification request
type VerifyEmailRequest struct {
	OTP string `json:"otp"`
}

// ResetOTPRequest represents the password reset code request
type ResetOTPRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the password reset confirmation
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// MessageResponse is the success envelope
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TokenResponse is returned by register and login
type TokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
}

// ProfileResponse wraps the current user's profile
type ProfileResponse struct {
	Success  bool       `json:"success"`
	UserData *user.User `json:"userData"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create an account and start a session. A welcome email is sent in the background.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} TokenResponse
// @Failure      400 {object} httputil.Envelope "Validation error"
// @Failure      409 {object} httputil.Envelope "Email already exists"
// @Failure      429 {object} httputil.Envelope "Too many requests"
// @Failure      500 {object} httputil.Envelope "Internal server error"
// @Router       /user/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allowIP(w, r, logger, ratelimit.PurposeRegister) {
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, logger, "registration failed", err)
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	SetSessionCookie(w, token, h.isProduction, h.service.SessionDuration())
	httputil.RespondJSON(w, TokenResponse{
		Success: true,
		Message: "Registration successful",
		Token:   token,
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password. The session token is set as a cookie and returned in the body.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} httputil.Envelope "Missing credentials"
// @Failure      401 {object} httputil.Envelope "Invalid password"
// @Failure      404 {object} httputil.Envelope "User not found"
// @Failure      429 {object} httputil.Envelope "Too many requests"
// @Router       /user/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allowIP(w, r, logger, ratelimit.PurposeLogin) {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, logger, "login failed", err)
		return
	}

	logger.Info("user logged in successfully")

	SetSessionCookie(w, token, h.isProduction, h.service.SessionDuration())
	httputil.RespondJSON(w, TokenResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
	}, http.StatusOK)
}

// Logout clears the session cookie
// @Summary      Logout
// @Description  Clear the session cookie. Succeeds without an active session.
// @Tags         user
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /user/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ClearSessionCookie(w, h.isProduction)
	httputil.RespondJSON(w, MessageResponse{Success: true, Message: "Logged out"}, http.StatusOK)
}

// IsAuthenticated reports that the session is valid
// @Summary      Check session
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MessageResponse
// @Failure      401 {object} httputil.Envelope "Not authenticated"
// @Router       /user/is-auth [get]
func (h *Handler) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, MessageResponse{Success: true}, http.StatusOK)
}

// GetProfile returns the current user's profile
// @Summary      Get profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} httputil.Envelope "Not authenticated"
// @Failure      404 {object} httputil.Envelope "User not found"
// @Router       /user/data [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, ErrUnauthenticated)
		return
	}

	u, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.fail(w, logger.WithFields(map[string]any{"user_id": userID}), "get profile failed", err)
		return
	}

	httputil.RespondJSON(w, ProfileResponse{Success: true, UserData: u}, http.StatusOK)
}

// UpdateProfile replaces the profile fields and optionally the image
// @Summary      Update profile
// @Description  All text fields are required. address is a JSON object {"line1","line2"}.
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name    formData string true  "Name"
// @Param        phone   formData string true  "Phone"
// @Param        address formData string true  "Address JSON"
// @Param        dob     formData string true  "Date of birth"
// @Param        gender  formData string true  "Gender"
// @Param        image   formData file   false "Profile image"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.Envelope "Validation error"
// @Failure      401 {object} httputil.Envelope "Not authenticated"
// @Router       /user/update-profile [post]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, ErrUnauthenticated)
		return
	}
	logger = logger.WithFields(map[string]any{"user_id": userID})

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		logger.Warn("invalid update profile body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	in := ProfileUpdate{
		Name:    r.FormValue("name"),
		Phone:   r.FormValue("phone"),
		Address: r.FormValue("address"),
		DOB:     r.FormValue("dob"),
		Gender:  r.FormValue("gender"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			logger.Warn("rejected non-image upload", "content_type", contentType)
			httputil.RespondErrorWithCode(w, "image must be an image file", httputil.CodeInvalidImage, http.StatusBadRequest)
			return
		}
		if header.Size > maxUploadSize {
			logger.Warn("rejected oversized upload", "size", header.Size)
			httputil.RespondErrorWithCode(w, "image must be at most 5 MB", httputil.CodeInvalidImage, http.StatusBadRequest)
			return
		}
		in.Image = &ImageUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Body:        file,
		}
	case errors.Is(err, http.ErrMissingFile):
		// image is optional
	default:
		logger.Warn("failed to read image upload", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if _, err := h.service.UpdateProfile(r.Context(), userID, in); err != nil {
		h.fail(w, logger, "update profile failed", err)
		return
	}

	logger.Info("profile updated", "with_image", in.Image != nil)
	httputil.RespondJSON(w, MessageResponse{Success: true, Message: "Profile Updated"}, http.StatusOK)
}

// SendVerifyOTP emails a verification code to the current user
// @Summary      Send verification OTP
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.Envelope "Already verified"
// @Failure      429 {object} httputil.Envelope "Cooldown active"
// @Router       /user/verify-otp [post]
func (h *Handler) SendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, ErrUnauthenticated)
		return
	}
	logger = logger.WithFields(map[string]any{"user_id": userID})

	if !h.allowCooldown(w, r, logger, ratelimit.PurposeVerifyOTP, userID.String()) {
		return
	}

	if err := h.service.SendVerifyOTP(r.Context(), userID); err != nil {
		h.fail(w, logger, "send verification otp failed", err)
		return
	}

	h.startCooldown(r, logger, ratelimit.PurposeVerifyOTP, userID.String())

	logger.Info("verification otp issued")
	httputil.RespondJSON(w, MessageResponse{Success: true, Message: "Verification OTP sent on email"}, http.StatusOK)
}

// VerifyEmail checks the verification code and marks the account verified
// @Summary      Verify email
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body VerifyEmailRequest true "Verification code"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.Envelope "Missing details, invalid or expired OTP"
// @Router       /user/verify-email [post]
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, ErrUnauthenticated)
		return
	}
	logger = logger.WithFields(map[string]any{"user_id": userID})

	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid verify email request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.service.VerifyEmail(r.Context(), userID, req.OTP); err != nil {
		h.fail(w, logger, "email verification failed", err)
		return
	}

	logger.Info("email verified")
	httputil.RespondJSON(w, MessageResponse{Success: true, Message: "Email verified successfully"}, http.StatusOK)
}

// SendResetOTP emails a password reset code
// @Summary      Send password reset OTP
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body ResetOTPRequest true "Account email"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.Envelope "Missing email"
// @Failure      404 {object} httputil.Envelope "User not found"
// @Failure      429 {object} httputil.Envelope "Too many requests or cooldown active"
// @Router       /user/reset-otp [post]
func (h *Handler) SendResetOTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if !h.allowIP(w, r, logger, ratelimit.PurposeResetOTP) {
		return
	}

	var req ResetOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reset otp request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	email := user.NormalizeEmail(req.Email)
	logger = logger.WithFields(map[string]any{"email": email})

	if email != "" && !h.allowCooldown(w, r, logger, ratelimit.PurposeResetOTP, email) {
		return
	}

	if err := h.service.SendResetOTP(r.Context(), email); err != nil {
		h.fail(w, logger, "send reset otp failed", err)
		return
	}

	h.startCooldown(r, logger, ratelimit.PurposeResetOTP, email)

	logger.Info("password reset otp issued")
	httputil.RespondJSON(w, MessageResponse{Success: true, Message: "OTP sent to your email"}, http.StatusOK)
}

// ResetPassword sets a new password using the emailed reset code
// @Summary      Reset password
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Email, code and new password"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.Envelope "Missing details, invalid or expired OTP"
// @Failure      404 {object} httputil.Envelope "User not found"
// @Router       /user/reset-pass [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reset password request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.service.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.fail(w, logger, "password reset failed", err)
		return
	}

	logger.Info("password reset")
	httputil.RespondJSON(w, MessageResponse{Success: true, Message: "Password has been reset successfully"}, http.StatusOK)
}

// fail logs err and writes its envelope. Dependency failures are logged at error
// level with full detail; the client only sees the generic message.
func (h *Handler) fail(w http.ResponseWriter, logger *logging.Logger, msg string, err error) {
	e := classify(err)
	if e.Kind == KindDependency {
		logger.Error(msg+": internal error", "error", err.Error())
	} else {
		logger.Warn(msg, "code", e.Code)
	}
	respondError(w, err)
}

// allowIP checks and records the per-IP limit for purpose. Limiter errors never block.
func (h *Handler) allowIP(w http.ResponseWriter, r *http.Request, logger *logging.Logger, purpose string) bool {
	ip := getClientIP(r)

	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.RespondErrorWithCode(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return false
	}

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	return true
}

func (h *Handler) allowCooldown(w http.ResponseWriter, r *http.Request, logger *logging.Logger, purpose, key string) bool {
	onCooldown, err := h.rateLimiter.CheckEmailCooldown(r.Context(), purpose, key)
	if err != nil {
		logger.Error("failed to check email cooldown", "error", err.Error())
		return true
	}
	if onCooldown {
		logger.Warn("email on cooldown", "purpose", purpose)
		httputil.RespondErrorWithCode(w, "please wait before requesting another email", httputil.CodeCooldownActive, http.StatusTooManyRequests)
		return false
	}
	return true
}

func (h *Handler) startCooldown(r *http.Request, logger *logging.Logger, purpose, key string) {
	if err := h.rateLimiter.SetEmailCooldown(r.Context(), purpose, key); err != nil {
		logger.Error("failed to set email cooldown", "error", err.Error())
	}
}

// getClientIP returns the host part of RemoteAddr. The router's RealIP
// middleware has already applied any proxy headers.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
