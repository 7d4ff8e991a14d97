// Package shared holds the response envelope, request decoding and context
// helpers used by the api package and its middleware.
package shared
