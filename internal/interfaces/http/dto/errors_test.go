package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeInvariantViolation, http.StatusUnprocessableEntity},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_UNKNOWN", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestResponseEnvelopes(t *testing.T) {
	ok := NewSuccessResponse(map[string]string{"k": "v"})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	paged := NewSuccessResponseWithMeta(nil, 45, 2, 20)
	assert.Equal(t, 3, paged.Meta.TotalPages)

	failed := NewErrorResponseWithRequestID(ErrCodeNotFound, "missing", "req-1")
	assert.False(t, failed.Success)
	assert.Equal(t, "req-1", failed.Error.RequestID)
}
