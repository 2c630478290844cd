// Package errors provides standardized error handling for the publishing
// pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeNoAssets        ErrorCode = "NO_ASSETS"
	ErrCodeRenderFailed    ErrorCode = "RENDER_FAILED"
	ErrCodeUploadFailed    ErrorCode = "UPLOAD_FAILED"
	ErrCodeContainerFailed ErrorCode = "CONTAINER_CREATE_FAILED"
	ErrCodePublishFailed   ErrorCode = "PUBLISH_FAILED"
	ErrCodeGraphAPIError   ErrorCode = "GRAPH_API_ERROR"
	ErrCodeAccountInvalid  ErrorCode = "ACCOUNT_INVALID"
	ErrCodeRunInProgress   ErrorCode = "RUN_IN_PROGRESS"
	ErrCodeRequestInvalid  ErrorCode = "REQUEST_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewNoAssetsError marks a publish run started with an empty asset list.
func NewNoAssetsError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoAssets,
		Message:   "No slides to publish",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRenderFailedError marks a slide the renderer produced no image for.
// A missing render aborts the run rather than silently shifting the
// remaining slides into its position.
func NewRenderFailedError(ordinal int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderFailed,
		Message:   fmt.Sprintf("Failed to render slide %d", ordinal+1),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadFailedError creates a retryable hosting error (the caller retries
// by starting a fresh run).
func NewUploadFailedError(ordinal int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadFailed,
		Message:   fmt.Sprintf("Failed to upload slide %d", ordinal+1),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewContainerFailedError wraps a media container creation failure. The
// remote message is carried verbatim in Details.
func NewContainerFailedError(role string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContainerFailed,
		Message:   fmt.Sprintf("Failed to create %s container", role),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPublishFailedError wraps a failed finalize call.
func NewPublishFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePublishFailed,
		Message:   "Failed to publish media container",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGraphAPIError surfaces a structured Graph API error payload.
func NewGraphAPIError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGraphAPIError,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAccountInvalidError marks a request with no usable target account.
func NewAccountInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAccountInvalid,
		Message:   "No authenticated account for publishing",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRunInProgressError rejects a publish while another run is outstanding.
func NewRunInProgressError() *StandardError {
	return &StandardError{
		Code:      ErrCodeRunInProgress,
		Message:   "A publish run is already in progress",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestInvalidError marks a request body that failed schema validation.
func NewRequestInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestInvalid,
		Message:   "Invalid publish request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
