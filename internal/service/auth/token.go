package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
)

// MinSecretLength is the shortest signing secret accepted.
const MinSecretLength = 32

// tokenClaims is the JWT body: registered time claims plus the caller's
// claims under "data", so caller keys never collide with iat/exp.
type tokenClaims struct {
	Data map[string]any `json:"data"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HMAC-SHA256 signed, time-limited tokens.
// It holds no per-token state; validation needs only the secret.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	timeFunc   func() time.Time
}

// NewTokenService creates a TokenService from the auth configuration.
// It refuses to start without a sufficiently long secret.
func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrEmptySecret
	}
	if len(cfg.JWTSecret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}

	ttl := time.Duration(cfg.TokenLifetimeSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &TokenService{
		signingKey: []byte(cfg.JWTSecret),
		ttl:        ttl,
		timeFunc:   time.Now,
	}, nil
}

// TTL returns the default token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs claims into a token valid for the default lifetime.
func (s *TokenService) Issue(ctx context.Context, claims map[string]any) (string, error) {
	return s.IssueWithTTL(ctx, claims, s.ttl)
}

// IssueWithTTL signs claims into a token that expires ttl after now.
// A negative ttl yields an already expired token.
func (s *TokenService) IssueWithTTL(ctx context.Context, claims map[string]any, ttl time.Duration) (string, error) {
	if len(s.signingKey) == 0 {
		return "", ErrEmptySecret
	}
	if len(claims) == 0 {
		return "", ErrEmptyClaims
	}

	// One clock reading for iat, nbf and exp; jti is unique per token
	now := s.timeFunc()
	body := tokenClaims{
		Data: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, body).SignedString(s.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign token",
			"error", err,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}
	return signed, nil
}

// ValidateHeader extracts the bearer token from header and validates it.
func (s *TokenService) ValidateHeader(ctx context.Context, header http.Header) (map[string]any, error) {
	token, err := ExtractBearerToken(header)
	if err != nil {
		logger.FromContext(ctx).Debug("authorization header rejected", "reason", err.Error())
		return nil, err
	}
	return s.Validate(ctx, token)
}

// Validate verifies the signature and expiry of tokenString and returns the
// caller claims it carries. Claims are decoded as plain JSON, so a numeric
// claim issued as int comes back as float64: Issue({"user_id": 1}) validates
// to {"user_id": float64(1)}.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (map[string]any, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	// Pin HS256 so alg "none" or an RS/HS confusion cannot pass, and insist
	// on exp so an unbounded token is never accepted
	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	// Collapse the jwt error into one of our kinds; the detail only goes to debug logs
	if err != nil {
		kind := classify(err)
		log.Debug("token validation failed", "reason", kind.Error(), "error", err)
		return nil, kind
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || len(claims.Data) == 0 {
		log.Debug("token validation failed: no claims")
		return nil, ErrMalformedToken
	}

	log.Debug("token validated", "token_id", claims.ID, "expiry", claims.ExpiresAt.Time)
	return claims.Data, nil
}

// classify maps jwt parser errors onto our failure kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return ErrMalformedToken
	}
}
