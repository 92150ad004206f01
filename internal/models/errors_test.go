package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"not found", NewNotFoundError("Post", 1), http.StatusNotFound},
		{"conflict", NewConflictError("dup"), http.StatusConflict},
		{"unavailable", NewUnavailableError(errors.New("db down")), http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("vote: %w", NewNotFoundError("Post", 2)), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
