package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/gate"
	"github.com/comandero/comandero/internal/service"
)

// Cookies used during the login handshake. The browser carries state and
// nonce across the provider round trip; the return path rides along so the
// callback knows where the user was headed.
const (
	cookieOAuthState    = "oauth_state"
	cookieOAuthNonce    = "oauth_nonce"
	cookieReturnPath    = "post_login_redirect"
	oauthCookieLifetime = 600 // seconds; the handshake should finish well within this
)

// AuthServiceInterface is the slice of the auth service these handlers need.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers serves the /auth/* endpoints.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login starts the handshake.
// GET /auth/login?returnUrl=<optional relative path>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	returnURL := safeRedirectPath(r.URL.Query().Get(gate.ParamReturnURL))

	result, err := h.Svc.BeginLogin(r.Context(), returnURL)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	jar := h.cookies(r)
	jar.set(w, cookieOAuthState, result.State, oauthCookieLifetime)
	jar.set(w, cookieOAuthNonce, result.Nonce, oauthCookieLifetime)
	jar.set(w, cookieReturnPath, returnURL, oauthCookieLifetime)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback finishes the handshake: it checks the echoed state against the
// cookie, exchanges the code for a session, and sends the user back where
// they started.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	code := query.Get("code")
	if code == "" {
		writeBadRequest(w, "missing_code", "authorization code is required")
		return
	}
	state := query.Get("state")
	if state == "" {
		writeBadRequest(w, "missing_state", "state parameter is required")
		return
	}
	if stateCookie, err := r.Cookie(cookieOAuthState); err != nil || stateCookie.Value != state {
		writeBadRequest(w, "invalid_state", "invalid or missing state parameter")
		return
	}
	nonceCookie, err := r.Cookie(cookieOAuthNonce)
	if err != nil {
		writeBadRequest(w, "missing_nonce", "missing nonce parameter")
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_completion_failed", Err: err})
		return
	}

	jar := h.cookies(r)
	jar.session(w, result.Session)
	jar.clear(w, cookieOAuthState)
	jar.clear(w, cookieOAuthNonce)

	http.Redirect(w, r, h.consumeReturnPath(w, r, jar), http.StatusFound)
}

// Logout drops the server-side session and the cookie.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.cookies(r).clear(w, SessionCookieName)

	signedOutURL := loginURL(logoutReturnPath(r))

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": signedOutURL,
		})
		return
	}
	http.Redirect(w, r, signedOutURL, http.StatusFound)
}

// Status reports whether the request carries a live session.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	sess, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Invalid or expired; take the cookie with it.
		h.cookies(r).clear(w, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user": map[string]interface{}{
			"id":         sess.UserID,
			"first_name": sess.FirstName,
			"last_name":  sess.LastName,
			"email":      sess.Email,
			"role":       sess.Role,
		},
		"expires_at": sess.ExpiresAt,
	})
}

// consumeReturnPath reads the saved return path, clears its cookie, and
// falls back to "/" when there is nothing usable.
func (h *AuthHandlers) consumeReturnPath(w http.ResponseWriter, r *http.Request, jar cookieJar) string {
	redirectCookie, err := r.Cookie(cookieReturnPath)
	if err != nil {
		return "/"
	}
	jar.clear(w, cookieReturnPath)
	return safeRedirectPath(redirectCookie.Value)
}

// logoutReturnPath accepts the return path from either the form body or the
// query string, sanitized either way.
func logoutReturnPath(r *http.Request) string {
	returnURL := r.FormValue(gate.ParamReturnURL)
	if returnURL == "" {
		returnURL = r.URL.Query().Get(gate.ParamReturnURL)
	}
	return safeRedirectPath(returnURL)
}

// loginURL builds the login path carrying the given return path.
func loginURL(returnPath string) string {
	q := url.Values{}
	q.Set(gate.ParamReturnURL, returnPath)
	u := url.URL{Path: gate.DefaultLoginPath, RawQuery: q.Encode()}
	return u.String()
}

func writeBadRequest(w http.ResponseWriter, errCode, msg string) {
	WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: errCode, Err: errors.New(msg)})
}

// cookieJar stamps every auth cookie with the same domain and security
// attributes, derived once per request.
type cookieJar struct {
	domain string
	secure bool
}

func (h *AuthHandlers) cookies(r *http.Request) cookieJar {
	return cookieJar{domain: h.CookieDomain, secure: isSecureRequest(r)}
}

// isSecureRequest reports whether the client reached us over TLS, directly
// or through a terminating proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func (j cookieJar) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   j.domain,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// session writes the session cookie with a lifetime matching the session's
// own expiry, so browser and store agree on when the login ends.
func (j cookieJar) session(w http.ResponseWriter, s domainauth.Session) {
	j.set(w, SessionCookieName, s.ID, int(time.Until(s.ExpiresAt).Seconds()))
}

func (j cookieJar) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   j.domain,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

// safeRedirectPath accepts only same-origin relative paths. Absolute URLs,
// protocol-relative URLs, and anything not rooted at "/" collapse to "/".
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
