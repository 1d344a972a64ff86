package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/comandero/comandero/internal/data"
	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/service"
)

// CustomerHandlers provides HTTP handlers for restaurant customers.
type CustomerHandlers struct {
	Svc    *service.CustomerService
	Logger *slog.Logger
}

// Create handles POST /r/{restaurante}/api/customers.
func (h *CustomerHandlers) Create(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateCustomerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	c, err := h.Svc.Create(r.Context(), rest.ID, &req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "create_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusCreated, c)
}

// Get handles GET /r/{restaurante}/api/customers/{id}.
func (h *CustomerHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	c, err := h.Svc.GetByID(r.Context(), rest.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrCustomerNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "customer_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

// List handles GET /r/{restaurante}/api/customers?q=&limit=&offset=.
func (h *CustomerHandlers) List(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	customers, err := h.Svc.List(r.Context(), rest.ID, model.CustomersListOptions{
		Limit:  limit,
		Offset: offset,
		Q:      optionalQuery(r, "q"),
	})
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, customers)
}

// Update handles PATCH /r/{restaurante}/api/customers/{id}.
func (h *CustomerHandlers) Update(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req model.UpdateCustomerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	c, err := h.Svc.Update(r.Context(), rest.ID, r.PathValue("id"), req)
	if err != nil {
		if errors.Is(err, data.ErrCustomerNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "customer_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "update_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /r/{restaurante}/api/customers/{id}.
func (h *CustomerHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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
			ErrCode: "customer_not_found",
			Err:     errors.New("customer not found"),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
