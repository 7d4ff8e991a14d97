package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// ProductHandler serves the product resource.
type ProductHandler struct {
	products store.ProductStore
	logger   *slog.Logger
}

var _ ResourceHandler = (*ProductHandler)(nil)

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products store.ProductStore, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{
		products: products,
		logger:   logger.With(slog.String("component", "product_handler")),
	}
}

// ServeResource implements ResourceHandler.
func (h *ProductHandler) ServeResource(w http.ResponseWriter, r *http.Request, req *Request) {
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

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, req *Request) {
	if !req.HasID() {
		products, err := h.products.List(r.Context())
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		shared.RespondSuccess(w, r, http.StatusOK, "Products retrieved", toProductResponses(products))
		return
	}

	id, ok := requireID(w, r, req)
	if !ok {
		return
	}
	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Product retrieved", toProductResponse(product))
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request, req *Request) {
	var payload CreateProductRequest
	if !decodePayload(w, r, req.Body, &payload) {
		return
	}

	product, err := domain.NewProduct(payload.Name, payload.Description, *payload.Price, payload.Stock)
	if err != nil {
		respondWithDomainError(w, r, err)
		return
	}

	if err := h.products.Create(r.Context(), product); err != nil {
		respondWithError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("product created", slog.Int64("product_id", product.ID))
	shared.RespondSuccess(w, r, http.StatusCreated, "Product created", toProductResponse(product))
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, req *Request) {
	id, ok := requireID(w, r, req)
	if !ok || !requireBody(w, r, req) {
		return
	}

	var payload UpdateProductRequest
	if !decodePayload(w, r, req.Body, &payload) {
		return
	}

	upd := domain.ProductUpdate{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
	}
	if upd.IsEmpty() {
		respondWithError(w, r, domain.ErrEmptyUpdate)
		return
	}
	if err := upd.Validate(); err != nil {
		respondWithDomainError(w, r, err)
		return
	}

	product, err := h.products.Update(r.Context(), id, upd)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Product updated", toProductResponse(product))
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request, req *Request) {
	id, ok := requireID(w, r, req)
	if !ok {
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		respondWithError(w, r, err)
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("product deleted", slog.Int64("product_id", id))
	shared.RespondSuccess(w, r, http.StatusOK, "Product deleted", nil)
}
