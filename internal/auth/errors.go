package auth

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/projectshelf-api/internal/httputil"
)

// Kind classifies a failure by who can fix it
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindNotFound
	KindConflict
	KindDependency
)

// Status returns the HTTP status a failure of this kind is answered with
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a client facing message
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrNameTooShort       = &Error{KindValidation, httputil.CodeNameTooShort, "name must be at least 3 characters"}
	ErrInvalidEmailFormat = &Error{KindValidation, httputil.CodeInvalidEmailFormat, "please enter a valid email"}
	ErrPasswordTooShort   = &Error{KindValidation, httputil.CodePasswordTooShort, "password must be at least 8 characters"}
	ErrPasswordTooLong    = &Error{KindValidation, httputil.CodePasswordTooLong, "password must be at most 72 bytes"}
	ErrMissingCredentials = &Error{KindValidation, httputil.CodeMissingCredentials, "email and password are required"}
	ErrMissingFields      = &Error{KindValidation, httputil.CodeMissingFields, "data missing"}
	ErrMalformedAddress   = &Error{KindValidation, httputil.CodeMalformedAddress, "address must be a JSON object with line1 and line2"}
	ErrMissingDetails     = &Error{KindValidation, httputil.CodeMissingDetails, "missing details"}
	ErrMissingEmail       = &Error{KindValidation, httputil.CodeMissingEmail, "email is required"}
	ErrAlreadyVerified    = &Error{KindValidation, httputil.CodeAlreadyVerified, "account already verified"}
	ErrOTPExpired         = &Error{KindValidation, httputil.CodeOTPExpired, "OTP expired"}
	ErrOTPMismatch        = &Error{KindValidation, httputil.CodeOTPMismatch, "invalid OTP"}

	ErrInvalidPassword = &Error{KindAuth, httputil.CodeInvalidPassword, "invalid password"}
	ErrUnauthenticated = &Error{KindAuth, httputil.CodeMissingAuth, "not authorized, login again"}
	ErrInvalidToken    = &Error{KindAuth, httputil.CodeInvalidToken, "invalid token"}
	ErrExpiredToken    = &Error{KindAuth, httputil.CodeTokenExpired, "token has expired"}

	ErrUserNotFound = &Error{KindNotFound, httputil.CodeUserNotFound, "user not found"}

	ErrDuplicateEmail = &Error{KindConflict, httputil.CodeEmailAlreadyExists, "user already exists"}

	ErrInternal = &Error{KindDependency, httputil.CodeInternalError, "something went wrong, please try again"}
)

// classify returns the Error carried by err, or ErrInternal when err is unclassified
func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal
}

// respondError writes the envelope for err. Unclassified errors get the generic message.
func respondError(w http.ResponseWriter, err error) {
	e := classify(err)
	httputil.RespondErrorWithCode(w, e.Message, e.Code, e.Kind.Status())
}
