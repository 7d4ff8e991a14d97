package auth

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is wrapped by every token failure so callers can map
// the whole family to 401 with a single errors.Is check.
var ErrUnauthenticated = errors.New("unauthenticated")

// Token failure kinds.
var (
	// ErrMissingHeader indicates the Authorization header is absent or empty.
	ErrMissingHeader = fmt.Errorf("%w: authorization header is missing", ErrUnauthenticated)

	// ErrMalformedHeader indicates the header is not exactly "Bearer <token>".
	ErrMalformedHeader = fmt.Errorf("%w: authorization header is malformed", ErrUnauthenticated)

	// ErrExpiredToken indicates the token's expiry has passed.
	ErrExpiredToken = fmt.Errorf("%w: authentication token has expired", ErrUnauthenticated)

	// ErrInvalidSignature indicates the signature does not verify with our secret
	// or the token was signed with an unexpected algorithm.
	ErrInvalidSignature = fmt.Errorf("%w: authentication token signature is invalid", ErrUnauthenticated)

	// ErrMalformedToken covers every other verification failure.
	ErrMalformedToken = fmt.Errorf("%w: authentication token is malformed", ErrUnauthenticated)
)

// Issuance errors.
var (
	// ErrEmptySecret is returned when a token service is built without a signing secret.
	ErrEmptySecret = errors.New("token signing secret is empty")

	// ErrEmptyClaims is returned when Issue is called without claims.
	ErrEmptyClaims = errors.New("token claims are empty")
)

// ErrPasswordTooLong is returned by Hash when the password exceeds
// MaxPasswordBytes. bcrypt rejects longer inputs rather than truncating them.
var ErrPasswordTooLong = fmt.Errorf("password exceeds %d bytes", MaxPasswordBytes)
