package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{auth.ErrMissingHeader, http.StatusUnauthorized},
		{auth.ErrExpiredToken, http.StatusUnauthorized},
		{store.ErrUserNotFound, http.StatusNotFound},
		{fmt.Errorf("update product: %w", store.ErrProductNotFound), http.StatusNotFound},
		{store.ErrEmailExists, http.StatusConflict},
		{domain.ErrEmptyUpdate, http.StatusBadRequest},
		{domain.NewValidationError("id", "is required", domain.ErrInvalidID), http.StatusBadRequest},
		{domain.NewValidationError("price", "cannot be negative", nil), http.StatusUnprocessableEntity},
		{store.ErrInvalidEntity, http.StatusUnprocessableEntity},
		{auth.ErrPasswordTooLong, http.StatusUnprocessableEntity},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.status, MapErrorToStatusCode(tc.err), "%v", tc.err)
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Invalid token signature", GetSafeErrorMessage(auth.ErrInvalidSignature))
	assert.Equal(t, "Invalid token", GetSafeErrorMessage(auth.ErrMalformedToken))
	assert.Equal(t, "Product not found", GetSafeErrorMessage(store.NewStoreError("product", "get", "lookup", store.ErrProductNotFound)))
	assert.Equal(t, "Email already exists", GetSafeErrorMessage(store.ErrEmailExists))
	assert.Equal(t, "Password is too long", GetSafeErrorMessage(auth.ErrPasswordTooLong))

	leaky := errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`)
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(leaky))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
