package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/comandero/comandero/internal/data"
	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/service"
)

// WebhookSinkHandlers provides HTTP handlers for webhook sink management.
type WebhookSinkHandlers struct {
	Svc    *service.WebhookService
	Logger *slog.Logger
}

// Create handles POST /r/{restaurante}/api/webhooks.
func (h *WebhookSinkHandlers) Create(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req model.CreateWebhookSinkRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	sink, err := h.Svc.Create(r.Context(), rest.ID, &req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "create_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusCreated, sink)
}

// Get handles GET /r/{restaurante}/api/webhooks/{id}.
func (h *WebhookSinkHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	sink, err := h.Svc.GetByID(r.Context(), rest.ID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrWebhookSinkNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "webhook_sink_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, sink)
}

// List handles GET /r/{restaurante}/api/webhooks?limit=&offset=.
func (h *WebhookSinkHandlers) List(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	sinks, err := h.Svc.List(r.Context(), rest.ID, limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, sinks)
}

// Update handles PATCH /r/{restaurante}/api/webhooks/{id}.
func (h *WebhookSinkHandlers) Update(w http.ResponseWriter, r *http.Request) {
	rest, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req model.UpdateWebhookSinkRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	sink, err := h.Svc.Update(r.Context(), rest.ID, r.PathValue("id"), req)
	if err != nil {
		if errors.Is(err, data.ErrWebhookSinkNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "webhook_sink_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "update_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, sink)
}

// Delete handles DELETE /r/{restaurante}/api/webhooks/{id}.
func (h *WebhookSinkHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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
			ErrCode: "webhook_sink_not_found",
			Err:     errors.New("webhook sink not found"),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
