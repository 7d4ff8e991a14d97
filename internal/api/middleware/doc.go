// Package middleware provides the HTTP middleware placed in front of the API
// dispatcher: trace IDs, panic recovery, rate limiting and request metrics.
package middleware
