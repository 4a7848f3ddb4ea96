package utils

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code       string
	Message    string
	StatusCode int   // HTTP status for SERVER_ERROR, 0 otherwise
	Origin     error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the client
const (
	// Request construction / transport errors
	ErrInvalidURL  = "INVALID_URL"
	ErrServerError = "SERVER_ERROR"

	// Authentication errors
	ErrUnauthorized = "UNAUTHORIZED"

	// Response errors
	ErrDecoding = "DECODING_ERROR"

	// Feed errors
	ErrNotFound       = "NOT_FOUND"
	ErrSuperseded     = "SUPERSEDED"
	ErrAlreadyLoading = "ALREADY_LOADING"

	// Credential store errors
	ErrCredentialStore = "CREDENTIAL_STORE"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NewInvalidURLError(rawURL string, originalErr error) *AppError {
	return &AppError{
		Code:    ErrInvalidURL,
		Message: "invalid endpoint URL: " + rawURL,
		Origin:  originalErr,
	}
}

func NewUnauthorizedError(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized: " + reason,
	}
}

func NewServerError(statusCode int) *AppError {
	return &AppError{
		Code:       ErrServerError,
		Message:    fmt.Sprintf("server responded with status %d", statusCode),
		StatusCode: statusCode,
	}
}

func NewDecodingError(endpoint string, originalErr error) *AppError {
	return &AppError{
		Code:    ErrDecoding,
		Message: "could not decode response from " + endpoint,
		Origin:  originalErr,
	}
}

func NewPostNotFoundError(postID int) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("post %d is not in the feed", postID),
	}
}

func NewSupersededError() *AppError {
	return &AppError{
		Code:    ErrSuperseded,
		Message: "operation superseded by a refresh",
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Helper method to check if an error should force re-authentication
func IsAuthError(err error) bool {
	return IsErrorCode(err, ErrUnauthorized)
}

// HTTPStatusToAppError maps a non-success response status to the client
// error taxonomy. The API returns 400 for requests missing the user secret,
// so it is treated as an auth failure like 401/403.
func HTTPStatusToAppError(statusCode int) *AppError {
	switch statusCode {
	case 400:
		return NewUnauthorizedError("missing or malformed credential")
	case 401, 403:
		return NewUnauthorizedError("invalid credential")
	default:
		return NewServerError(statusCode)
	}
}
