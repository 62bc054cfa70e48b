// Package errors provides standardized error handling for the poster workflow integration.
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
	// Branding / profile errors
	ErrCodeProfileIncomplete  ErrorCode = "PROFILE_INCOMPLETE"
	ErrCodeProfileStoreFailed ErrorCode = "PROFILE_STORE_FAILED"

	// Template / compositing errors
	ErrCodeTemplateNotFound      ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeImageLoadFailed       ErrorCode = "IMAGE_LOAD_FAILED"
	ErrCodeRenderingUnsupported  ErrorCode = "RENDERING_UNSUPPORTED"
	ErrCodePosterWriteFailed     ErrorCode = "POSTER_WRITE_FAILED"

	// Publishing errors
	ErrCodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
	ErrCodeShareDispatchFailed ErrorCode = "SHARE_DISPATCH_FAILED"

	// Analytics errors (best-effort path; never user-visible)
	ErrCodeAnalyticsRecordingFailed ErrorCode = "ANALYTICS_RECORDING_FAILED"

	// Infrastructure errors
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeExternalServiceFailed    ErrorCode = "EXTERNAL_SERVICE_FAILED"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
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
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ConvertToBPMNError maps a StandardError to a BPMNError with retry counts.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(err.Code),
		Message:   err.Message,
		Details:   err.Details,
		Retryable: err.Retryable,
		Retries:   GetRetryCount(err.Code),
	}
}

// GetRetryCount returns how many engine-level retries a given error code deserves.
func GetRetryCount(code ErrorCode) int {
	if !retryableCodes[code] {
		return 0
	}
	return 3
}

var retryableCodes = map[ErrorCode]bool{
	ErrCodeImageLoadFailed:          true,
	ErrCodeProfileStoreFailed:       true,
	ErrCodeDatabaseConnectionFailed: true,
	ErrCodeQueryExecutionFailed:     true,
	ErrCodeQueryTimeout:             true,
	ErrCodeExternalServiceFailed:    true,
	ErrCodeNotificationSendFailed:   true,
}

// ==========================
// 3. Error Constructors
// ==========================

// NewProfileIncompleteError is thrown when a branding profile has no business name.
// The customize flow is blocked until the vendor completes branding setup.
func NewProfileIncompleteError(vendorID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileIncomplete,
		Message:   "Branding profile is missing a business name",
		Details:   fmt.Sprintf("vendorId: %s", vendorID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileStoreFailedError wraps a repository failure (retryable).
func NewProfileStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileStoreFailed,
		Message:   "Branding profile store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateNotFoundError is thrown when the template id resolves to nothing.
func NewTemplateNotFoundError(templateID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "Poster template not found",
		Details:   fmt.Sprintf("templateId: %s", templateID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewImageLoadError wraps a template image fetch/decode failure (retryable).
func NewImageLoadError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeImageLoadFailed,
		Message:   "Failed to load template image",
		Details:   fmt.Sprintf("url: %s: %v", url, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRenderingUnsupportedError means the host cannot rasterize at all. Fatal,
// non-retryable for this feature.
func NewRenderingUnsupportedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRenderingUnsupported,
		Message:   "Host environment cannot perform raster compositing",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPosterWriteFailedError wraps a failed artifact write (retryable).
func NewPosterWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePosterWriteFailed,
		Message:   "Failed to write composited poster",
		Details:   fmt.Sprintf("path: %s: %v", path, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedPlatformError is thrown for share targets outside the fixed set.
func NewUnsupportedPlatformError(platform string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedPlatform,
		Message:   "Requested share platform is not supported",
		Details:   fmt.Sprintf("platform: %s", platform),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewShareDispatchFailedError wraps a failed native share dispatch.
func NewShareDispatchFailedError(platform string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeShareDispatchFailed,
		Message:   "Failed to dispatch share action",
		Details:   fmt.Sprintf("platform: %s: %v", platform, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalyticsRecordingFailedError marks a best-effort analytics failure.
// Logged only, never surfaced to the vendor.
func NewAnalyticsRecordingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalyticsRecordingFailed,
		Message:   "Usage analytics recording failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExternalServiceError creates a retryable error for downstream service failures.
func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalServiceFailed,
		Message:   fmt.Sprintf("External service '%s' failed", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError creates a retryable timeout error.
func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   fmt.Sprintf("Operation against '%s' timed out", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionError wraps a failed connection check (retryable).
func NewDatabaseConnectionError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   fmt.Sprintf("Connection to '%s' failed", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionError creates a retryable database error.
func NewQueryExecutionError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
