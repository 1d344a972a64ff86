package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/comandero/comandero/internal/domain/model"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// parsePagination extracts limit/offset query parameters with clamping.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxPageLimit)
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// tenantFromRequest pulls the resolved restaurant from the request context,
// writing a 404 when the tenant middleware did not run or resolved nothing.
func tenantFromRequest(w http.ResponseWriter, r *http.Request) (*model.Restaurant, bool) {
	rest, ok := GetRestaurantFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "restaurant_not_found",
			Err:     errors.New("restaurant not found"),
		})
		return nil, false
	}
	return rest, true
}

// optionalQuery returns a pointer to the query parameter value, or nil when absent.
func optionalQuery(r *http.Request, name string) *string {
	if !r.URL.Query().Has(name) {
		return nil
	}
	v := r.URL.Query().Get(name)
	return &v
}
