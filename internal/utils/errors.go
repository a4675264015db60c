package utils

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrorCodeNoFormat          ErrorCode = "NO_FORMAT"
	ErrorCodeUpstreamFailed    ErrorCode = "UPSTREAM_FAILED"
	ErrorCodeRelayFailed       ErrorCode = "RELAY_FAILED"
	ErrorCodeMergeFailed       ErrorCode = "MERGE_FAILED"
	ErrorCodeStorageFailed     ErrorCode = "STORAGE_FAILED"
	ErrorCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrorCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrorCodeInternalError     ErrorCode = "INTERNAL_ERROR"
)

// AppError is the error shape every handler responds with.
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func NewErrorWithDetails(code ErrorCode, message string, statusCode int, details map[string]interface{}) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

func NewInputError(message string, details map[string]interface{}) *AppError {
	return NewErrorWithDetails(ErrorCodeInvalidInput, message, http.StatusBadRequest, details)
}

func NewMissingURLError() *AppError {
	return NewInputError("Video URL is required", nil)
}

func NewNoFormatError(videoFound, audioFound int) *AppError {
	return NewErrorWithDetails(
		ErrorCodeNoFormat,
		"No suitable video or audio formats found",
		http.StatusNotFound,
		map[string]interface{}{
			"videoFormatsFound": videoFound,
			"audioFormatsFound": audioFound,
		},
	)
}

// NewUpstreamError reports a failure of the extraction tool. The diagnostic
// text is the tool's own output and is passed through as details.
func NewUpstreamError(message string, err error) *AppError {
	return NewErrorWithDetails(
		ErrorCodeUpstreamFailed,
		message,
		http.StatusInternalServerError,
		map[string]interface{}{
			"details": err.Error(),
		},
	)
}

func NewRelayError(message string, err error) *AppError {
	return NewErrorWithDetails(
		ErrorCodeRelayFailed,
		message,
		http.StatusInternalServerError,
		map[string]interface{}{
			"details": err.Error(),
		},
	)
}

func NewMergeError(err error) *AppError {
	return NewErrorWithDetails(
		ErrorCodeMergeFailed,
		"Failed to merge video and audio streams",
		http.StatusInternalServerError,
		map[string]interface{}{
			"details": err.Error(),
		},
	)
}

func NewStorageError(err error) *AppError {
	return NewErrorWithDetails(
		ErrorCodeStorageFailed,
		"Failed to store merged file",
		http.StatusInternalServerError,
		map[string]interface{}{
			"details": err.Error(),
		},
	)
}

func NewUnauthorizedError() *AppError {
	return NewError(
		ErrorCodeUnauthorized,
		"Invalid or missing authentication",
		http.StatusUnauthorized,
	)
}

func NewRateLimitError() *AppError {
	return NewError(
		ErrorCodeRateLimitExceeded,
		"Too many requests",
		http.StatusTooManyRequests,
	)
}

func NewInternalError() *AppError {
	return NewError(
		ErrorCodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)
}
