// Package errors provides standardized error handling for BPMN workflow integration.
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
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidWeights   ErrorCode = "INVALID_WEIGHTS"
	ErrCodeLocationRequired ErrorCode = "LOCATION_REQUIRED"

	ErrCodeUserProfileLoadFailed     ErrorCode = "USER_PROFILE_LOAD_FAILED"
	ErrCodePurchaseHistoryLoadFailed ErrorCode = "PURCHASE_HISTORY_LOAD_FAILED"
	ErrCodeCatalogLoadFailed         ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeBranchDirectoryLoadFailed ErrorCode = "BRANCH_DIRECTORY_LOAD_FAILED"

	ErrCodeIndexNotFound ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeAlertSendFailed ErrorCode = "ALERT_SEND_FAILED"

	ErrCodeTimeout  ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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

// WithMetadata attaches a key to the error metadata and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable job input error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false)
}

// NewInvalidWeightsError creates a non-retryable error for a rejected weight override.
func NewInvalidWeightsError(err error) *StandardError {
	return newError(ErrCodeInvalidWeights, "Invalid scoring weights", err.Error(), false)
}

// NewLocationRequiredError is raised when nearby deals are requested without coordinates.
func NewLocationRequiredError() *StandardError {
	return newError(ErrCodeLocationRequired, "User location is required", "latitude and longitude must both be provided", false)
}

// NewUserProfileLoadFailedError creates a retryable profile store error.
func NewUserProfileLoadFailedError(userID string, err error) *StandardError {
	return newError(ErrCodeUserProfileLoadFailed, "Failed to load user profile",
		fmt.Sprintf("userId: %s, error: %s", userID, err.Error()), true)
}

// NewPurchaseHistoryLoadFailedError creates a retryable purchase history error.
func NewPurchaseHistoryLoadFailedError(userID string, err error) *StandardError {
	return newError(ErrCodePurchaseHistoryLoadFailed, "Failed to load purchase history",
		fmt.Sprintf("userId: %s, error: %s", userID, err.Error()), true)
}

// NewCatalogLoadFailedError creates a retryable catalog error.
func NewCatalogLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Failed to load voucher catalog",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), true)
}

// NewBranchDirectoryLoadFailedError creates a retryable branch directory error.
func NewBranchDirectoryLoadFailedError(err error) *StandardError {
	return newError(ErrCodeBranchDirectoryLoadFailed, "Failed to load branch directory", err.Error(), true)
}

// NewIndexNotFoundError is raised when the catalog index does not exist.
// Retrying cannot create it, so the job goes straight to the error boundary.
func NewIndexNotFoundError(source string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Catalog index not found", fmt.Sprintf("source: %s", source), false)
}

// NewAlertSendFailedError creates a retryable notification delivery error.
func NewAlertSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeAlertSendFailed, "Deal alert delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// NewTimeoutError wraps a deadline hit while serving a job.
func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("%s timed out", service), err.Error(), true)
}

// ==========================
// 4. Retry Policy and BPMN Conversion
// ==========================

// policy holds the retries granted to a code and the category used to
// group failures in logs.
type policy struct {
	retries  int
	category string
}

var policies = map[ErrorCode]policy{
	ErrCodeInvalidInput:              {0, "VALIDATION"},
	ErrCodeInvalidWeights:            {0, "VALIDATION"},
	ErrCodeLocationRequired:          {0, "VALIDATION"},
	ErrCodeUserProfileLoadFailed:     {3, "USER_DATA"},
	ErrCodePurchaseHistoryLoadFailed: {3, "USER_DATA"},
	ErrCodeCatalogLoadFailed:         {3, "CATALOG"},
	ErrCodeBranchDirectoryLoadFailed: {3, "CATALOG"},
	ErrCodeIndexNotFound:             {0, "CATALOG"},
	ErrCodeAlertSendFailed:           {3, "NOTIFICATION"},
	ErrCodeTimeout:                   {2, "TIMEOUT"},
}

// GetRetryCount returns the retries granted to code. Unknown codes are
// business errors and get none.
func GetRetryCount(code ErrorCode) int {
	return policies[code].retries
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the log category of code.
func GetErrorCategory(code ErrorCode) string {
	if p, ok := policies[code]; ok {
		return p.category
	}
	return "OTHER"
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// The BPMN code is the internal code; process models catch on it directly.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := 0
	if stdErr.Retryable {
		retries = GetRetryCount(stdErr.Code)
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}
