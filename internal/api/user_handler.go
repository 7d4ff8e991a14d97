package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// UserHandler serves the user resource.
type UserHandler struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	logger *slog.Logger
}

var _ ResourceHandler = (*UserHandler)(nil)

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users store.UserStore, hasher auth.PasswordHasher, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:  users,
		hasher: hasher,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// ServeResource implements ResourceHandler.
func (h *UserHandler) ServeResource(w http.ResponseWriter, r *http.Request, req *Request) {
	switch req.Method {
	case http.MethodGet:
		h.get(w, r, req)
	case http.MethodPost:
		h.create(w, r, req)
	case http.MethodPut:
		h.update(w, r, req)
	case http.MethodDelete:
		h.delete(w, r, req)
	default:
		methodNotAllowed(w, r)
	}
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request, req *Request) {
	if !req.HasID() {
		users, err := h.users.List(r.Context())
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		shared.RespondSuccess(w, r, http.StatusOK, "Users retrieved", toUserResponses(users))
		return
	}

	id, ok := requireID(w, r, req)
	if !ok {
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "User retrieved", toUserResponse(user))
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request, req *Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var payload CreateUserRequest
	if !decodePayload(w, r, req.Body, &payload) {
		return
	}

	hash, err := h.hasher.Hash(payload.Password)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	user, err := domain.NewUser(payload.Name, payload.Email, hash)
	if err != nil {
		respondWithDomainError(w, r, err)
		return
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		respondWithError(w, r, err)
		return
	}

	log.Info("user created", slog.Int64("user_id", user.ID))
	shared.RespondSuccess(w, r, http.StatusCreated, "User created", toUserResponse(user))
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, req *Request) {
	id, ok := requireID(w, r, req)
	if !ok || !requireBody(w, r, req) {
		return
	}

	var payload UpdateUserRequest
	if !decodePayload(w, r, req.Body, &payload) {
		return
	}

	upd := domain.UserUpdate{Name: payload.Name, Email: payload.Email}
	// Reject blank names before paying for a bcrypt round.
	if err := upd.Validate(); err != nil {
		respondWithDomainError(w, r, err)
		return
	}
	if payload.Password != nil {
		hash, err := h.hasher.Hash(*payload.Password)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		upd.PasswordHash = &hash
	}
	if upd.IsEmpty() {
		respondWithError(w, r, domain.ErrEmptyUpdate)
		return
	}

	user, err := h.users.Update(r.Context(), id, upd)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "User updated", toUserResponse(user))
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request, req *Request) {
	id, ok := requireID(w, r, req)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		respondWithError(w, r, err)
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("user deleted", slog.Int64("user_id", id))
	shared.RespondSuccess(w, r, http.StatusOK, "User deleted", nil)
}
