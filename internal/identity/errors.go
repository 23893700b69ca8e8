package identity

import (
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Error is a provider failure with a message fit to show to the user.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var codeMessages = map[string]string{
	"EMAIL_NOT_FOUND":             "No account found with this email",
	"INVALID_PASSWORD":            "Incorrect password",
	"INVALID_LOGIN_CREDENTIALS":   "Invalid email or password",
	"USER_DISABLED":               "This account has been disabled",
	"EMAIL_EXISTS":                "An account with this email already exists",
	"WEAK_PASSWORD":               "Password should be at least 6 characters",
	"INVALID_EMAIL":               "Invalid email address",
	"MISSING_PASSWORD":            "Password is required",
	"OPERATION_NOT_ALLOWED":       "This sign in method is disabled",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many attempts, try again later",
	"TOKEN_EXPIRED":               "Session expired, please sign in again",
	"INVALID_REFRESH_TOKEN":       "Session expired, please sign in again",
	"USER_NOT_FOUND":              "Session expired, please sign in again",
	"INVALID_IDP_RESPONSE":        "Google sign-in failed",
}

// normalizeError turns identity toolkit and secure token failures into *Error.
// Anything else (transport errors, context cancellation) passes through.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Message != "" {
		return newError(gErr.Message)
	}

	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(rErr.Body, &body) == nil && body.Error.Message != "" {
			return newError(body.Error.Message)
		}
		if rErr.ErrorCode != "" {
			return newError(strings.ToUpper(rErr.ErrorCode))
		}
	}

	return err
}

// newError parses provider messages such as "WEAK_PASSWORD : Password should be at least 6 characters".
func newError(raw string) *Error {
	code, detail, _ := strings.Cut(raw, ":")
	code = strings.TrimSpace(code)
	detail = strings.TrimSpace(detail)

	if msg, ok := codeMessages[code]; ok {
		return &Error{Code: code, Message: msg}
	}
	if detail != "" {
		return &Error{Code: code, Message: detail}
	}
	return &Error{Code: code, Message: raw}
}
