package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("standard error passes through", func(t *testing.T) {
		original := NewCatalogLoadFailedError("postgres", stderrors.New("boom"))
		wrapped := fmt.Errorf("execute: %w", original)
		assert.Same(t, original, Normalize(wrapped))
	})

	t.Run("deadline becomes a retryable timeout", func(t *testing.T) {
		got := Normalize(fmt.Errorf("query: %w", context.DeadlineExceeded))
		assert.Equal(t, ErrCodeTimeout, got.Code)
		assert.True(t, got.Retryable)
	})

	t.Run("anything else is internal", func(t *testing.T) {
		got := Normalize(stderrors.New("nil map"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.False(t, got.Retryable)
		assert.Equal(t, "nil map", got.Details)
	})
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantRetries int
		wantCat     string
	}{
		{"invalid input", NewInvalidInputError("userId missing"), 0, "VALIDATION"},
		{"invalid weights", NewInvalidWeightsError(stderrors.New("negative")), 0, "VALIDATION"},
		{"location required", NewLocationRequiredError(), 0, "VALIDATION"},
		{"profile load", NewUserProfileLoadFailedError("u-1", stderrors.New("conn reset")), 3, "USER_DATA"},
		{"purchase history", NewPurchaseHistoryLoadFailedError("u-1", stderrors.New("conn reset")), 3, "USER_DATA"},
		{"catalog", NewCatalogLoadFailedError("elasticsearch", stderrors.New("503")), 3, "CATALOG"},
		{"branch directory", NewBranchDirectoryLoadFailedError(stderrors.New("conn reset")), 3, "CATALOG"},
		{"index missing", NewIndexNotFoundError("elasticsearch"), 0, "CATALOG"},
		{"alert send", NewAlertSendFailedError("sms", stderrors.New("throttled")), 3, "NOTIFICATION"},
		{"timeout", NewTimeoutError("job", context.DeadlineExceeded), 2, "TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, string(tt.err.Code), bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, tt.wantRetries > 0, IsRetryableErrorCode(tt.err.Code))
			assert.Equal(t, tt.wantCat, GetErrorCategory(tt.err.Code))
		})
	}
}

func TestConvertToBPMNError_Variables(t *testing.T) {
	stdErr := NewInvalidInputError("maxResults: must be >= 1").WithMetadata("field", "maxResults")
	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	assert.Equal(t, "INVALID_INPUT", vars["errorCode"])
	assert.Equal(t, "maxResults: must be >= 1", vars["errorDetails"])
	assert.Equal(t, false, vars["retryable"])
	assert.Equal(t, "INVALID_INPUT", vars["originalErrorCode"])
	assert.Equal(t, "maxResults", vars["field"])
	require.Contains(t, vars, "timestamp")
}

func TestConvertToBPMNError_UnknownCode(t *testing.T) {
	stdErr := &StandardError{Code: "SOMETHING_NEW", Message: "x", Retryable: true}
	bpmn := ConvertToBPMNError(stdErr)
	assert.Equal(t, "SOMETHING_NEW", bpmn.Code)
	assert.Zero(t, bpmn.Retries)
	assert.Equal(t, "OTHER", GetErrorCategory(stdErr.Code))
}
