package httputil

// Machine-readable error codes returned in the response envelope
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeCooldownActive     = "COOLDOWN_ACTIVE"

	CodeMissingDetails     = "MISSING_DETAILS"
	CodeMissingCredentials = "MISSING_CREDENTIALS"
	CodeMissingEmail       = "MISSING_EMAIL"
	CodeMissingFields      = "MISSING_FIELDS"
	CodeNameTooShort       = "NAME_TOO_SHORT"
	CodeInvalidEmailFormat = "INVALID_EMAIL_FORMAT"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodePasswordTooLong    = "PASSWORD_TOO_LONG"
	CodeMalformedAddress   = "MALFORMED_ADDRESS"
	CodeInvalidImage       = "INVALID_IMAGE"

	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeAlreadyVerified    = "ALREADY_VERIFIED"
	CodeOTPExpired         = "OTP_EXPIRED"
	CodeOTPMismatch        = "OTP_MISMATCH"

	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidTokenUserID = "INVALID_TOKEN_USER_ID"

	CodeProjectNotFound  = "PROJECT_NOT_FOUND"
	CodeInvalidProject   = "INVALID_PROJECT"
	CodeStudentIDInUse   = "STUDENT_ID_IN_USE"
	CodeInvalidProjectID = "INVALID_PROJECT_ID"
)
