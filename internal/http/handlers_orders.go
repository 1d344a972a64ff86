package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/comandero/comandero/internal/data"
	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/service"
)

// OrderHandlers provides HTTP handlers for orders.
type OrderHandlers struct {
	Svc    *service.OrderService
	Logger *slog.Logger
}

// Create handles POST /r/{restaurante}/api/orders.
func (h *OrderHandlers) Create(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateOrderRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	o, err := h.Svc.Create(r.Context(), rest.ID, &req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "create_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusCreated, o)
}

// Get handles GET /r/{restaurante}/api/orders/{id}.
func (h *OrderHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	o, err := h.Svc.GetByID(r.Context(), rest.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrOrderNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "order_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, o)
}

// List handles GET /r/{restaurante}/api/orders?status=&customer_id=&limit=&offset=.
func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	opts := model.OrdersListOptions{
		Limit:      limit,
		Offset:     offset,
		CustomerID: optionalQuery(r, "customer_id"),
	}
	if v := optionalQuery(r, "status"); v != nil {
		status, ok := model.ParseOrderStatus(*v)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     fmt.Errorf("invalid order status %q", *v),
			})
			return
		}
		opts.Status = &status
	}

	orders, err := h.Svc.List(r.Context(), rest.ID, opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PATCH /r/{restaurante}/api/orders/{id}/status.
func (h *OrderHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Status model.OrderStatus `json:"status"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_status",
			Err:     fmt.Errorf("invalid order status %q", req.Status),
		})
		return
	}

	o, err := h.Svc.UpdateStatus(r.Context(), rest.ID, r.PathValue("id"), req.Status)
	if err != nil {
		if errors.Is(err, data.ErrOrderNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "order_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "update_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, o)
}
