package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindBusinessRule
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindAuthentication:
		return "authentication_failed"
	case KindAuthorization:
		return "authorization_failed"
	case KindNotFound:
		return "not_found"
	case KindBusinessRule:
		return "business_rule_violation"
	default:
		return "internal_error"
	}
}

// Error is the tagged error returned by services and middleware.
// Message is safe to show to clients; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a ValidationFailed error
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "validation_failed", Message: message}
}

// Unauthenticated builds an AuthenticationFailed error
func Unauthenticated(code, message string) *Error {
	return &Error{Kind: KindAuthentication, Code: code, Message: message}
}

// Forbidden builds an AuthorizationFailed error
func Forbidden(code, message string) *Error {
	return &Error{Kind: KindAuthorization, Code: code, Message: message}
}

// NotFound builds a NotFound error
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Message: message}
}

// BusinessRule builds a BusinessRuleViolation error with a machine-readable code
func BusinessRule(code, message string) *Error {
	return &Error{Kind: KindBusinessRule, Code: code, Message: message}
}

// Internal wraps an unexpected failure
func Internal(code, message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Err: err}
}

// KindOf returns the kind of err, KindInternal for anything untagged
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Auth errors
var (
	ErrInvalidCredentials = Unauthenticated("invalid_credentials", "Invalid email or password.")
	ErrUserInactive       = Unauthenticated("user_inactive", "Your account is inactive. Please contact an administrator.")
	ErrTokenMissing       = Unauthenticated("token_missing", "Access token required.")
	ErrTokenInvalid       = Unauthenticated("token_invalid", "Invalid access token.")
	ErrTokenExpired       = Unauthenticated("token_expired", "Access token expired.")
	ErrRefreshInvalid     = Unauthenticated("refresh_invalid", "Invalid refresh token.")
	ErrRefreshExpired     = Unauthenticated("refresh_expired", "Refresh token expired, please sign in again.")
	ErrRefreshRevoked     = Unauthenticated("refresh_revoked", "Refresh token revoked, please sign in again.")
	ErrUserIDMissing      = Unauthenticated("user_missing", "User ID not found in token.")
)

// Authorization errors
var (
	ErrMissingRole   = Forbidden("missing_role", "You don't have permission to access this resource.")
	ErrMissingTenant = Forbidden("missing_tenant", "Tenant context not found. User may not be a generator owner.")
)

// Lookup errors
var (
	ErrUserNotFound = NotFound("User not found.")
)
