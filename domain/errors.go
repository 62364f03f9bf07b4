package domain

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrValidation         = errors.New("validation failed")
	ErrIdentifierRequired = errors.New("provide either an email address or a phone number")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrInvalidResume      = errors.New("resume must be a pdf document")
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailNotVerified   = errors.New("please verify your email first")
	ErrUnauthenticated    = errors.New("authentication required")
)

// Token and OTP errors
var (
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenMalformed     = errors.New("malformed token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenExpiredOrUsed = errors.New("invalid or expired code")
	ErrOTPResendLimit     = errors.New("otp resend limit exceeded")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Authorization errors
var (
	ErrForbidden        = errors.New("you do not have permission to perform this action")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)

// Catalog and engine errors
var (
	ErrJobNotFound          = errors.New("job not found")
	ErrCompanyNotFound      = errors.New("company profile not found")
	ErrCompanyExists        = errors.New("company profile already exists for this user")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrTagNotFound          = errors.New("tag not found")
	ErrTaxonomyExists       = errors.New("name already taken")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("you have already applied to this job")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Delivery errors. These never reach HTTP callers.
var (
	ErrEmailSkipped = errors.New("email skipped: no deliverable recipient")
	ErrQueueClosed  = errors.New("email queue closed")
)

// ValidationError carries a caller-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is reports ErrValidation as the error's class.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
