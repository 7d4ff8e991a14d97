package api

import (
	"net/http"
	"slices"
	"strings"
)

// Resource names.
const (
	ResourceUser    = "user"
	ResourceProduct = "product"
	ResourceLogin   = "login"
)

// Route describes which verbs a resource accepts and which of them need a
// bearer token.
type Route struct {
	Methods   []string
	Protected []string
}

// Allows reports whether method is in the route's allowed set.
func (rt Route) Allows(method string) bool {
	return slices.Contains(rt.Methods, method)
}

// RequiresAuth reports whether method needs a valid bearer token.
func (rt Route) RequiresAuth(method string) bool {
	return slices.Contains(rt.Protected, method)
}

// AllowHeader returns the value for the Allow response header.
func (rt Route) AllowHeader() string {
	return strings.Join(rt.Methods, ", ")
}

// RouteTable maps resource names to their routes. It is built once at startup
// and only read afterwards.
type RouteTable map[string]Route

// Lookup returns the route registered for resource.
func (t RouteTable) Lookup(resource string) (Route, bool) {
	rt, ok := t[resource]
	return rt, ok
}

// DefaultRoutes returns the storefront route table.
func DefaultRoutes() RouteTable {
	crud := []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	return RouteTable{
		ResourceUser: {
			Methods: crud,
			// Sign-up stays open; everything else about users needs a token.
			Protected: []string{http.MethodGet, http.MethodPut, http.MethodDelete},
		},
		ResourceProduct: {
			Methods:   crud,
			Protected: []string{http.MethodPost, http.MethodPut, http.MethodDelete},
		},
		ResourceLogin: {
			Methods: []string{http.MethodPost},
		},
	}
}

// ParseRoute splits a logical route such as "user/123/" into its segments.
// Surrounding slashes are stripped. An empty route yields no segments.
func ParseRoute(route string) []string {
	route = strings.Trim(strings.TrimSpace(route), "/")
	if route == "" {
		return nil
	}
	return strings.Split(route, "/")
}

// routeFromRequest returns the logical route: the "route" query parameter
// when present, otherwise the path below /api.
func routeFromRequest(r *http.Request) string {
	query := r.URL.Query()
	if query.Has("route") {
		return query.Get("route")
	}
	path := strings.TrimPrefix(r.URL.Path, "/")
	path = strings.TrimPrefix(path, "api")
	return path
}
