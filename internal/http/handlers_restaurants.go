package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/comandero/comandero/internal/data"
	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/service"
)

// RestaurantHandlers provides HTTP handlers for restaurant (tenant) management.
type RestaurantHandlers struct {
	Svc    *service.TenantService
	Logger *slog.Logger
}

// ListMine handles GET /api/restaurantes: the active restaurants the caller belongs to.
func (h *RestaurantHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	restaurants, err := h.Svc.ListForUser(r.Context(), sess.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, restaurants)
}

// Create handles POST /api/restaurantes. The creator becomes an admin member.
func (h *RestaurantHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.CreateRestaurantRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	rest, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrSlugExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "slug_exists", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "create_failed", Err: err})
		}
		return
	}

	if err := h.Svc.AddMember(r.Context(), model.Membership{
		UserID:       sess.UserID,
		RestaurantID: rest.ID,
		Role:         "admin",
	}); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "membership_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusCreated, rest)
}

// Get handles GET /r/{restaurante}/api/restaurante: the resolved tenant itself.
func (h *RestaurantHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rest, ok := GetRestaurantFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "restaurant_not_found",
			Err:     errors.New("restaurant not found"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, rest)
}

// Update handles PATCH /r/{restaurante}/api/restaurante.
func (h *RestaurantHandlers) Update(w http.ResponseWriter, r *http.Request) {
	rest, ok := GetRestaurantFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "restaurant_not_found",
			Err:     errors.New("restaurant not found"),
		})
		return
	}

	var req model.UpdateRestaurantRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	updated, err := h.Svc.Update(r.Context(), rest.ID, req)
	if err != nil {
		if errors.Is(err, data.ErrRestaurantNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "restaurant_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// AddMember handles POST /r/{restaurante}/api/members.
func (h *RestaurantHandlers) AddMember(w http.ResponseWriter, r *http.Request) {
	rest, ok := GetRestaurantFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "restaurant_not_found",
			Err:     errors.New("restaurant not found"),
		})
		return
	}

	var req struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = "staff"
	}

	if err := h.Svc.AddMember(r.Context(), model.Membership{
		UserID:       req.UserID,
		RestaurantID: rest.ID,
		Role:         req.Role,
	}); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "add_member_failed", Err: err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember handles DELETE /r/{restaurante}/api/members/{userID}.
func (h *RestaurantHandlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	rest, ok := GetRestaurantFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "restaurant_not_found",
			Err:     errors.New("restaurant not found"),
		})
		return
	}

	removed, err := h.Svc.RemoveMember(r.Context(), r.PathValue("userID"), rest.ID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "remove_member_failed", Err: err})
		return
	}
	if !removed {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "member_not_found",
			Err:     errors.New("member not found"),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
