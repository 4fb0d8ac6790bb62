package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/projectshelf-api/internal/httputil"
	"github.com/redmonkez12/projectshelf-api/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const UserIDContextKey ContextKey = "user_id"

// Middleware guards protected routes with the session token
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// RequireAuth validates the session token and puts the user id in the request context
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		var token string

		// Priority 1: Authorization header
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
				return
			}
			token = parts[1]
		}

		// Priority 2: Cookie
		if token == "" {
			cookieToken, err := GetSessionTokenFromCookie(r)
			if err != nil {
				respondError(w, ErrUnauthenticated)
				return
			}
			token = cookieToken
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			if !errors.Is(err, ErrExpiredToken) && !errors.Is(err, ErrInvalidToken) {
				logger.Error("token verification failed", "error", err.Error())
			}
			respondError(w, err)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid user ID in token", httputil.CodeInvalidTokenUserID, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	return userID, ok
}

// WithUserID returns a copy of ctx carrying userID, as RequireAuth does
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}
