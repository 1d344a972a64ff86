package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/comandero/comandero/internal/data"
	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/service"
)

// ReservationHandlers provides HTTP handlers for table reservations.
type ReservationHandlers struct {
	Svc    *service.ReservationService
	Logger *slog.Logger
}

// Create handles POST /r/{restaurante}/api/reservations.
func (h *ReservationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateReservationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Create(r.Context(), rest.ID, &req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "create_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusCreated, res)
}

// Get handles GET /r/{restaurante}/api/reservations/{id}.
func (h *ReservationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	res, err := h.Svc.GetByID(r.Context(), rest.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrReservationNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "reservation_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// List handles GET /r/{restaurante}/api/reservations?status=&from=&to=&limit=&offset=.
// Time bounds are RFC 3339.
func (h *ReservationHandlers) List(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	opts := model.ReservationsListOptions{Limit: limit, Offset: offset}

	if v := optionalQuery(r, "status"); v != nil {
		status, ok := model.ParseReservationStatus(*v)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     fmt.Errorf("invalid reservation status %q", *v),
			})
			return
		}
		opts.Status = &status
	}
	from, ok := parseTimeQuery(w, r, "from")
	if !ok {
		return
	}
	opts.From = from
	to, ok := parseTimeQuery(w, r, "to")
	if !ok {
		return
	}
	opts.To = to

	reservations, err := h.Svc.List(r.Context(), rest.ID, opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, reservations)
}

// Update handles PATCH /r/{restaurante}/api/reservations/{id}.
func (h *ReservationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req model.UpdateReservationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.Update(r.Context(), rest.ID, r.PathValue("id"), req)
	if err != nil {
		if errors.Is(err, data.ErrReservationNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "reservation_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "update_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Delete handles DELETE /r/{restaurante}/api/reservations/{id}.
func (h *ReservationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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
			ErrCode: "reservation_not_found",
			Err:     errors.New("reservation not found"),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseTimeQuery parses an optional RFC 3339 query parameter. The bool result
// is false only when the parameter was present but malformed, in which case
// the error response has already been written.
func parseTimeQuery(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	v := optionalQuery(r, name)
	if v == nil {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_" + name,
			Err:     fmt.Errorf("%s must be RFC 3339: %w", name, err),
		})
		return nil, false
	}
	return &t, true
}
