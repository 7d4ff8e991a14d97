package api

import (
	"net/http"
	"strconv"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// Request is what the dispatcher hands to a resource handler once the route,
// method and credentials have been checked.
type Request struct {
	Method   string
	Segments []string
	Body     []byte
	Header   http.Header
	// Claims is nil for unprotected verbs.
	Claims map[string]any
}

// Resource returns the first route segment.
func (req *Request) Resource() string {
	if len(req.Segments) == 0 {
		return ""
	}
	return req.Segments[0]
}

// HasID reports whether the route carries a non-empty id segment.
func (req *Request) HasID() bool {
	return len(req.Segments) > 1 && req.Segments[1] != ""
}

// ID parses the id segment. It fails with domain.ErrInvalidID when the
// segment is missing, non-numeric or not positive.
func (req *Request) ID() (int64, error) {
	if !req.HasID() {
		return 0, domain.NewValidationError("id", "is required", domain.ErrInvalidID)
	}
	id, err := strconv.ParseInt(req.Segments[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer", domain.ErrInvalidID)
	}
	return id, nil
}

// ResourceHandler performs one verb on one resource and writes exactly one
// response envelope.
type ResourceHandler interface {
	ServeResource(w http.ResponseWriter, r *http.Request, req *Request)
}

// ResourceHandlerFunc adapts a function to ResourceHandler.
type ResourceHandlerFunc func(w http.ResponseWriter, r *http.Request, req *Request)

// ServeResource implements ResourceHandler.
func (f ResourceHandlerFunc) ServeResource(w http.ResponseWriter, r *http.Request, req *Request) {
	f(w, r, req)
}
