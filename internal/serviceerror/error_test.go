package serviceerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := NotFound("consent %s not found", "c-1")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "consent c-1 not found", err.ErrorDescription)

	wrapped := fmt.Errorf("lookup: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestFrom(t *testing.T) {
	t.Run("typed errors pass through", func(t *testing.T) {
		original := InvalidStateTransition("already revoked")
		assert.Same(t, original, From(original, "revoke"))
	})

	t.Run("untyped errors become persistence errors", func(t *testing.T) {
		driverErr := errors.New("deadlock found when trying to get lock")
		se := From(driverErr, "bind accounts")

		assert.Equal(t, KindPersistence, se.Kind)
		assert.Equal(t, "bind accounts failed", se.ErrorDescription)
		assert.ErrorIs(t, se, driverErr)
		assert.Equal(t, http.StatusInternalServerError, se.HTTPStatus())
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, From(nil, "noop"))
	})
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *ServiceError
		want int
	}{
		{Validation("missing clientID"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{InvalidStateTransition("stale"), http.StatusConflict},
		{Persistence(errors.New("x"), "y"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}
