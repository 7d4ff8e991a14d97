package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// TokenIssuer issues bearer tokens for a claims map.
type TokenIssuer interface {
	Issue(ctx context.Context, claims map[string]any) (string, error)
	TTL() time.Duration
}

// LoginHandler exchanges credentials for a bearer token.
type LoginHandler struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

var _ ResourceHandler = (*LoginHandler)(nil)

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(
	users store.UserStore,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	logger *slog.Logger,
) *LoginHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginHandler{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With(slog.String("component", "login_handler")),
	}
}

// ServeResource implements ResourceHandler.
func (h *LoginHandler) ServeResource(w http.ResponseWriter, r *http.Request, req *Request) {
	if req.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	var payload LoginRequest
	if !decodePayload(w, r, req.Body, &payload) {
		return
	}

	user, err := h.users.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
				shared.WithElevatedLogLevel())
			return
		}
		respondWithError(w, r, err)
		return
	}

	if err := h.hasher.Compare(user.PasswordHash, payload.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
			shared.WithElevatedLogLevel())
		return
	}

	token, err := h.tokens.Issue(r.Context(), map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user logged in", slog.Int64("user_id", user.ID))
	shared.RespondSuccess(w, r, http.StatusOK, "Login successful", LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.tokens.TTL() / time.Second),
		User:      toUserResponse(user),
	})
}
