// Package auth issues and validates the bearer tokens used by the API and
// hashes user passwords.
//
// Tokens are HS256 JWTs holding an arbitrary claims map. They are never
// stored; any holder of the signing secret can validate them. Validation
// failures are classified into ErrMissingHeader, ErrMalformedHeader,
// ErrExpiredToken, ErrInvalidSignature and ErrMalformedToken, all of which
// wrap ErrUnauthenticated.
package auth
