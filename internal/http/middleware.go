package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/domain/model"
	"github.com/comandero/comandero/internal/gate"
	"github.com/comandero/comandero/internal/session"
)

// SessionCookieName is the cookie carrying the opaque session ID.
const SessionCookieName = "session_id"

// Middleware is a handler wrapper, applied outermost-last.
type Middleware func(http.Handler) http.Handler

// statusWriter remembers the status code so the access log can report it.
// Handlers that never call WriteHeader implicitly answer 200.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Logging emits one access-log line per request.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recover turns handler panics into 500s instead of dropped connections.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				logger.Error("panic",
					slog.Any("error", v),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method),
					slog.String("stack", string(debug.Stack())))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// getSessionFromRequest resolves the session cookie to a live session, or
// nil when there is no cookie or the session is gone.
func getSessionFromRequest(r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	sess, err := authSvc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		return nil
	}
	return sess
}

// isBrowserRequest reports whether the request prefers an HTML answer. API
// routes and JSON-accepting clients get JSON errors; everything else gets the
// gate's redirect.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.Contains(r.URL.Path, "/api/") {
		return false
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// requestSession adapts the per-request authenticated session (possibly nil)
// to the read surface the gates evaluate. The tenant slot is always pending:
// tenant resolution happens inside the tenant gate itself.
type requestSession struct {
	sess *domainauth.Session
}

func (r requestSession) IsAuthenticated() bool { return r.sess != nil }

func (r requestSession) CurrentIdentity() (domainauth.Identity, bool) {
	if r.sess == nil {
		return domainauth.Identity{}, false
	}
	return r.sess.Identity(), true
}

func (r requestSession) CurrentTenant() (*model.Restaurant, session.Resolution) {
	return nil, session.TenantPending
}

// applyDenial renders a denying gate decision: browsers are redirected,
// API clients get a JSON error carrying the redirect target.
func applyDenial(w http.ResponseWriter, r *http.Request, d gate.Decision, code int, errCode string) {
	if d.Redirect == nil {
		// A denial always carries a redirect; guard anyway.
		WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: errors.New(errCode)})
		return
	}
	if isBrowserRequest(r) {
		http.Redirect(w, r, d.Redirect.URL(), http.StatusSeeOther)
		return
	}
	WriteJSON(w, code, map[string]string{
		"error":    errCode,
		"redirect": d.Redirect.URL(),
	})
}

// RequireAuth returns a middleware that gates navigation on authentication.
// Denied requests redirect to login (browsers) or receive 401 JSON (API).
func RequireAuth(authSvc AuthServiceInterface, routes gate.Routes) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := getSessionFromRequest(r, authSvc)
			g := gate.NewAuthGate(requestSession{sess: sess}, routes)
			decision := g.Evaluate(r.URL.RequestURI())
			if !decision.Allowed {
				applyDenial(w, r, decision, http.StatusUnauthorized, "authentication_required")
				return
			}

			ctx := SetSessionInContext(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant returns a middleware for routes carrying a {restaurante} path
// segment. It gates on authentication, restaurant existence and activity, and
// membership, in that order. On success the session and resolved restaurant
// are placed in the request context.
func RequireTenant(authSvc AuthServiceInterface, directory gate.TenantDirectory, routes gate.Routes, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := getSessionFromRequest(r, authSvc)
			slug := r.PathValue("restaurante")

			// Per-request store: the gate cache-fills the resolved tenant
			// here so the handler chain gets it without a second lookup.
			store := session.NewStore()
			g := gate.NewTenantGate(gate.TenantGateOptions{
				Sessions:  requestSession{sess: sess},
				Directory: directory,
				Store:     store,
				Routes:    routes,
				Logger:    logger,
			})
			decision := g.Evaluate(r.Context(), r.URL.RequestURI(), map[string]string{
				gate.ParamRestaurant: slug,
			})
			if !decision.Allowed {
				code := http.StatusForbidden
				errCode := "access_denied"
				if sess == nil {
					code = http.StatusUnauthorized
					errCode = "authentication_required"
				}
				applyDenial(w, r, decision, code, errCode)
				return
			}

			rest, _ := store.CurrentTenant()
			ctx := SetSessionInContext(r.Context(), sess)
			ctx = SetRestaurantInContext(ctx, rest)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns a middleware enforcing a minimum role inside an already
// authenticated chain. Viewer < Staff < Admin.
func RequireRole(required domainauth.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetUserSessionFromContext(r.Context())
			if !ok {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			if !sess.Role.AtLeast(required) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
