package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{Unauthorized("no identity"), http.StatusUnauthorized},
		{BadRequest("bad id"), http.StatusBadRequest},
		{NotFound("Review"), http.StatusNotFound},
		{Conflict("duplicate vote row"), http.StatusConflict},
		{Internal("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Status(), tc.err.Message)
	}
}

func TestUnwrapMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("Review"))
	assert.True(t, errors.Is(err, ErrNotFound))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Review not found", appErr.Message)
}
