package auth

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when a request carries no usable session
var ErrAuthRequired = errors.New("authentication required")

// Sign-in error codes shown on /auth/error
const (
	CodeAccessDenied          = "AccessDenied"
	CodeConfiguration         = "Configuration"
	CodeOAuthSignin           = "OAuthSignin"
	CodeOAuthCallback         = "OAuthCallback"
	CodeOAuthCreateAccount    = "OAuthCreateAccount"
	CodeOAuthAccountNotLinked = "OAuthAccountNotLinked"
	CodeEmailCreateAccount    = "EmailCreateAccount"
	CodeCallback              = "Callback"
	CodeEmailSignin           = "EmailSignin"
	CodeCredentialsSignin     = "CredentialsSignin"
	CodeSessionRequired       = "SessionRequired"
)

// ErrorMessage returns the user-facing text for a sign-in error code
func ErrorMessage(code string) string {
	switch code {
	case "":
		return "An unexpected error occurred"
	case CodeAccessDenied:
		return "You do not have permission to sign in."
	case CodeConfiguration:
		return "There is a problem with the server configuration. Please contact support."
	case CodeOAuthSignin, CodeOAuthCallback, CodeOAuthCreateAccount, CodeOAuthAccountNotLinked:
		return "There was a problem with the OAuth authentication. Please try again."
	case CodeEmailCreateAccount, CodeCallback, CodeEmailSignin:
		return "There was a problem with the email authentication. Please try again."
	case CodeCredentialsSignin:
		return "The sign in details you provided were invalid. Please check your credentials and try again."
	case CodeSessionRequired:
		return "Please sign in to access this page."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// SignInError carries the /auth/error code for a failed sign-in
type SignInError struct {
	Code string
	Err  error
}

func (e *SignInError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *SignInError) Unwrap() error {
	return e.Err
}

func signInError(code string, err error) error {
	return &SignInError{Code: code, Err: err}
}

// ErrorCode extracts the sign-in error code from err, defaulting to Callback
func ErrorCode(err error) string {
	var signInErr *SignInError
	if errors.As(err, &signInErr) {
		return signInErr.Code
	}
	return CodeCallback
}
