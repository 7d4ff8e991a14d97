package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestRecoverMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewBufferLogger()
	h := NewRecoverMiddleware(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("dial mysql: root:s3cretpw@tcp(db:3306)/shop refused")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Internal server error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "s3cretpw")

	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "stack")
	assert.NotContains(t, buf.String(), "s3cretpw")
}

func TestRecoverMiddleware_AbortHandlerPropagates(t *testing.T) {
	t.Parallel()

	h := NewRecoverMiddleware(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
