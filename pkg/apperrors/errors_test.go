package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPublic(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Public
	}{
		{
			name: "validation keeps message and hint",
			err:  Validation("prompt", "prompt is required", "send a non-empty prompt"),
			expected: Public{
				Status:  http.StatusBadRequest,
				Code:    CodeValidation,
				Message: "prompt is required",
				Hint:    "send a non-empty prompt",
			},
		},
		{
			name:     "not found",
			err:      NotFound("recommendation"),
			expected: Public{Status: http.StatusNotFound, Code: CodeNotFound, Message: "recommendation not found"},
		},
		{
			name: "external service hides cause",
			err:  ExternalService("costexplorer", errors.New("dial tcp: i/o timeout")),
			expected: Public{
				Status:  http.StatusBadGateway,
				Code:    CodeExternalService,
				Message: "An upstream service is unavailable",
			},
		},
		{
			name: "integrity is internal",
			err:  ReferenceIntegrity("unknown_reference agg:x"),
			expected: Public{
				Status:  http.StatusInternalServerError,
				Code:    CodeInternal,
				Message: "An unexpected error occurred",
			},
		},
		{
			name: "generation is internal",
			err:  ContentGeneration("pool too small"),
			expected: Public{
				Status:  http.StatusInternalServerError,
				Code:    CodeInternal,
				Message: "An unexpected error occurred",
			},
		},
		{
			name: "plain error is internal",
			err:  errors.New("boom"),
			expected: Public{
				Status:  http.StatusInternalServerError,
				Code:    CodeInternal,
				Message: "An unexpected error occurred",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToPublic(tt.err))
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("building response: %w", ReferenceIntegrity("dangling rec:1"))

	assert.Equal(t, KindReferenceIntegrity, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("throttled")
	err := ExternalService("costexplorer", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "costexplorer")
}

func TestFieldOf(t *testing.T) {
	err := fmt.Errorf("decoding body: %w", Validation("prompt", "prompt is required", ""))

	assert.Equal(t, "prompt", FieldOf(err))
	assert.Equal(t, "", FieldOf(errors.New("plain")))
}
