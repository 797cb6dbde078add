package models

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Data-node read errors
	ErrorCodeNoHealthyEndpoint   ErrorCode = "NO_HEALTHY_ENDPOINT"
	ErrorCodeNoReachableEndpoint ErrorCode = "NO_REACHABLE_ENDPOINT"
	ErrorCodePaginationExceeded  ErrorCode = "PAGINATION_EXCEEDED"
	ErrorCodeMalformedAccount    ErrorCode = "MALFORMED_ACCOUNT"

	// Report assembly errors
	ErrorCodeMissingMarket    ErrorCode = "MISSING_MARKET"
	ErrorCodeMissingAsset     ErrorCode = "MISSING_ASSET"
	ErrorCodeUnsupportedAsset ErrorCode = "UNSUPPORTED_ASSET"

	// Ambient errors
	ErrorCodeConfigError       ErrorCode = "CONFIG_ERROR"
	ErrorCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrorCodeInternalError     ErrorCode = "INTERNAL_ERROR"
)

// HTTPStatusCode returns the appropriate HTTP status code for each error type
func (e ErrorCode) HTTPStatusCode() int {
	switch e {
	case ErrorCodeNoHealthyEndpoint, ErrorCodeNoReachableEndpoint:
		return http.StatusBadGateway
	case ErrorCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrorCodeMissingMarket, ErrorCodeMissingAsset, ErrorCodeUnsupportedAsset:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// AppError represents an application error with a code and optional cause
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewAppErrorWithCause creates a new application error with underlying cause
func NewAppErrorWithCause(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// IsCode reports whether err carries the given application error code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	Timestamp time.Time   `json:"timestamp"`
}

// HandleError converts err into the standard error response and writes it.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewAppErrorWithCause(ErrorCodeInternalError, "internal server error", err)
	}

	c.JSON(appErr.Code.HTTPStatusCode(), ErrorResponse{
		Error: ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
		Timestamp: time.Now().UTC(),
	})
}
