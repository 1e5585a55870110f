package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusMessageMapping(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{http.StatusBadRequest, "Bad request - please check your input"},
		{http.StatusUnauthorized, "Unauthorized - please log in again"},
		{http.StatusForbidden, "Forbidden - you do not have permission to perform this action"},
		{http.StatusNotFound, "Resource not found"},
		{http.StatusTooManyRequests, "Too many requests - please try again later"},
		{http.StatusInternalServerError, "Server error - please try again later"},
		{http.StatusBadGateway, "Bad gateway - service temporarily unavailable"},
		{http.StatusServiceUnavailable, "Service unavailable - please try again later"},
		{http.StatusTeapot, "An error occurred"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := FromStatus(tt.status)
			require.Equal(t, HTTPStatus, err.Kind)
			require.Equal(t, tt.status, err.Status)
			require.Equal(t, tt.message, err.Message)
		})
	}
}

func TestStatusCode(t *testing.T) {
	require.Equal(t, http.StatusBadGateway, NewNetwork(nil).StatusCode())
	require.Equal(t, http.StatusUnauthorized, NewInvalidCredentials().StatusCode())
	require.Equal(t, http.StatusUnauthorized, NewInvalidOrExpiredToken(nil).StatusCode())
	require.Equal(t, http.StatusNotFound, NewNotFound("post 7 not found").StatusCode())
	require.Equal(t, http.StatusBadRequest, NewValidation("title is required", nil).StatusCode())
	require.Equal(t, http.StatusInternalServerError, NewInternal("boom", nil).StatusCode())
	require.Equal(t, http.StatusTooManyRequests, FromStatus(http.StatusTooManyRequests).StatusCode())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetwork(cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "connection refused")
	require.Equal(t, "Network error - please check your connection", err.ToResponse().Error)
}

func TestKindHelpers(t *testing.T) {
	wrapped := fmt.Errorf("action failed: %w", NewNotFound("user 3 not found"))

	require.True(t, IsNotFound(wrapped))
	require.False(t, IsNetwork(wrapped))
	require.True(t, IsInvalidCredentials(NewInvalidCredentials()))
	require.True(t, IsInvalidOrExpiredToken(NewInvalidOrExpiredToken(nil)))
	require.True(t, IsValidation(NewValidation("bad", nil)))
}

func TestFromError(t *testing.T) {
	typed := NewNotFound("gone")
	require.Same(t, typed, FromError(fmt.Errorf("wrap: %w", typed)))

	plain := FromError(errors.New("surprise"))
	require.Equal(t, Internal, plain.Kind)
	require.Equal(t, "An unexpected error occurred", plain.Message)
}
