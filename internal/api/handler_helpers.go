package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// decodePayload decodes the request body into dst and validates it. It writes
// the failure response itself and reports whether the handler may continue.
// An empty body decodes as an empty object so required-field checks apply.
func decodePayload(w http.ResponseWriter, r *http.Request, body []byte, dst interface{}) bool {
	if !shared.IsEmptyBody(body) {
		if err := shared.DecodeJSON(body, dst); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid JSON body", err)
			return false
		}
	}

	if err := shared.ValidateRequest(dst); err != nil {
		if fields := shared.FieldErrors(err); fields != nil {
			shared.RespondWithErrorData(w, r, http.StatusUnprocessableEntity, "Validation failed", fields)
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusUnprocessableEntity, "Validation failed", err)
		return false
	}
	return true
}

// respondWithDomainError answers domain validation failures with 422 and the
// offending field, and everything else through respondWithError.
func respondWithDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) && errors.Is(err, domain.ErrValidation) {
		shared.RespondWithErrorData(w, r, http.StatusUnprocessableEntity, "Validation failed",
			[]shared.FieldError{{Field: verr.Field, Message: verr.Message}})
		return
	}
	respondWithError(w, r, err)
}

// requireID parses the id segment, answering 400 when it is missing or invalid.
func requireID(w http.ResponseWriter, r *http.Request, req *Request) (int64, bool) {
	id, err := req.ID()
	if err != nil {
		respondWithError(w, r, err)
		return 0, false
	}
	return id, true
}

// requireBody answers 400 when a PUT arrives without a body.
func requireBody(w http.ResponseWriter, r *http.Request, req *Request) bool {
	if shared.IsEmptyBody(req.Body) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Request body is required")
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
