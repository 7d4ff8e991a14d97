package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerScheme = "Bearer"

// ExtractBearerToken returns the token from an "Authorization: Bearer <token>"
// header. The value must split on a single space into exactly two parts.
func ExtractBearerToken(header http.Header) (string, error) {
	value := header.Get("Authorization")
	if value == "" {
		return "", ErrMissingHeader
	}

	parts := strings.Split(value, " ")
	if len(parts) != 2 {
		return "", ErrMalformedHeader
	}
	if subtle.ConstantTimeCompare([]byte(parts[0]), []byte(bearerScheme)) != 1 {
		return "", ErrMalformedHeader
	}
	if parts[1] == "" {
		return "", ErrMalformedHeader
	}

	return parts[1], nil
}
