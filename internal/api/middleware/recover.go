package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
)

// NewRecoverMiddleware turns a panic anywhere below it into a generic 500
// envelope. The panic value and stack are logged after redaction and never
// sent to the client.
func NewRecoverMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.FromContextOrDefault(r.Context(), base).Error("panic recovered",
					slog.String("panic", redact.String(fmt.Sprint(rec))),
					slog.String("stack", redact.String(string(debug.Stack()))),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))

				shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
