package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "token"

// SetSessionCookie stores the session token in an HTTP-only cookie.
// Production is SameSite=Strict and Secure; dev relaxes to Lax over plain http
// so the frontend can run on another localhost port.
func SetSessionCookie(w http.ResponseWriter, token string, isProduction bool, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: sameSite(isProduction),
	})
}

// ClearSessionCookie expires the session cookie with the same attributes it was set with
func ClearSessionCookie(w http.ResponseWriter, isProduction bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: sameSite(isProduction),
	})
}

// GetSessionTokenFromCookie returns the token cookie value
func GetSessionTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	if cookie.Value == "" {
		return "", http.ErrNoCookie
	}
	return cookie.Value, nil
}

func sameSite(isProduction bool) http.SameSite {
	if isProduction {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}
