package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
)

// TokenValidator validates the Authorization header of a request and returns
// the claims of its bearer token.
type TokenValidator interface {
	ValidateHeader(ctx context.Context, header http.Header) (map[string]any, error)
}

// Dispatcher is the front controller for /api. It validates the logical
// route against its RouteTable and delegates to the registered handler.
type Dispatcher struct {
	routes   RouteTable
	handlers map[string]ResourceHandler
	tokens   TokenValidator
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher. Every resource in routes needs a
// handler in handlers.
func NewDispatcher(
	routes RouteTable,
	handlers map[string]ResourceHandler,
	tokens TokenValidator,
	logger *slog.Logger,
) (*Dispatcher, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil for Dispatcher")
	}
	if tokens == nil {
		return nil, errors.New("token validator cannot be nil for Dispatcher")
	}
	for resource := range routes {
		if handlers[resource] == nil {
			return nil, fmt.Errorf("no handler registered for resource %q", resource)
		}
	}

	return &Dispatcher{
		routes:   routes,
		handlers: handlers,
		tokens:   tokens,
		logger:   logger.With(slog.String("component", "dispatcher")),
	}, nil
}

// ServeHTTP implements http.Handler.
//
// Checks run in order and the first failure answers the request: empty route
// (400), unknown resource (404), verb not allowed (405), failed
// authentication on a protected verb (401), unreadable or non-JSON body (400).
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Handlers and stores log through ctx, so carry the dispatcher's logger down
	log := logger.FromContextOrDefault(r.Context(), d.logger)
	r = r.WithContext(logger.WithLogger(r.Context(), log))

	// 1. Route present
	segments := ParseRoute(routeFromRequest(r))
	if len(segments) == 0 || segments[0] == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Route is required")
		return
	}

	// 2. Resource known
	resource := segments[0]
	route, ok := d.routes.Lookup(resource)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
		return
	}

	// 3. Verb allowed for the resource
	if !route.Allows(r.Method) {
		w.Header().Set("Allow", route.AllowHeader())
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req := &Request{
		Method:   r.Method,
		Segments: segments,
		Header:   r.Header,
	}

	// 4. Bearer token, only for the verbs the route protects
	if route.RequiresAuth(r.Method) {
		claims, err := d.tokens.ValidateHeader(r.Context(), r.Header)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, GetSafeErrorMessage(err), err)
			return
		}
		req.Claims = claims
		r = r.WithContext(shared.WithClaims(r.Context(), claims))
	}

	// 5. Body size and syntax. An empty body passes here; handlers decide
	// whether they need one.
	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		body, err := shared.ReadBody(r.Body)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
			return
		}
		if !shared.IsEmptyBody(body) && !json.Valid(body) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		req.Body = body
	}

	log.Debug("dispatching request",
		slog.String("resource", resource),
		slog.String("method", r.Method),
		slog.Int("segments", len(segments)))

	d.handlers[resource].ServeResource(w, r, req)
}
