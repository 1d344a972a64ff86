package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/comandero/comandero/internal/data"
	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/service"
)

// ProductHandlers provides HTTP handlers for the restaurant menu.
type ProductHandlers struct {
	Svc    *service.ProductService
	Logger *slog.Logger
}

// Create handles POST /r/{restaurante}/api/products.
func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	p, err := h.Svc.Create(r.Context(), rest.ID, &req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "create_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusCreated, p)
}

// Get handles GET /r/{restaurante}/api/products/{id}.
func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	p, err := h.Svc.GetByID(r.Context(), rest.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrProductNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "product_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// List handles GET /r/{restaurante}/api/products?q=&category=&available=&limit=&offset=.
func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	opts := model.ProductsListOptions{
		Limit:    limit,
		Offset:   offset,
		Q:        optionalQuery(r, "q"),
		Category: optionalQuery(r, "category"),
	}
	if v := optionalQuery(r, "available"); v != nil {
		avail, err := strconv.ParseBool(*v)
		if err != nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_available",
				Err:     errors.New("available must be a boolean"),
			})
			return
		}
		opts.Available = &avail
	}

	products, err := h.Svc.List(r.Context(), rest.ID, opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, products)
}

// Update handles PATCH /r/{restaurante}/api/products/{id}.
func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req model.UpdateProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	p, err := h.Svc.Update(r.Context(), rest.ID, r.PathValue("id"), req)
	if err != nil {
		if errors.Is(err, data.ErrProductNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "product_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "update_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /r/{restaurante}/api/products/{id}.
func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), rest.ID, r.PathValue("id"))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "product_not_found",
			Err:     errors.New("product not found"),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
