package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/gate"
	"github.com/comandero/comandero/internal/service"
)

// scriptedAuthService lets each test script the auth service per call.
type scriptedAuthService struct {
	beginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeFunc func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	getFunc      func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFunc   func(ctx context.Context, sessionID string) error
}

func (s *scriptedAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	return s.beginFunc(ctx, redirectURL)
}

func (s *scriptedAuthService) CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	return s.completeFunc(ctx, input)
}

func (s *scriptedAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	return s.getFunc(ctx, sessionID)
}

func (s *scriptedAuthService) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFunc(ctx, sessionID)
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthLogin_SetsCookiesAndRedirects(t *testing.T) {
	svc := &scriptedAuthService{
		beginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
			assert.Equal(t, "/r/la-cocina/pedidos", redirectURL)
			return &service.BeginLoginResult{
				AuthURL: "https://idp.example.com/auth?client_id=comandero",
				State:   "state-1",
				Nonce:   "nonce-1",
			}, nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodGet, "/auth/login?returnUrl=%2Fr%2Fla-cocina%2Fpedidos", nil)
	w := httptest.NewRecorder()

	h.Login(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://idp.example.com/auth?client_id=comandero", resp.Header.Get("Location"))

	cookies := resp.Cookies()
	state := cookieByName(t, cookies, "oauth_state")
	require.NotNil(t, state)
	assert.Equal(t, "state-1", state.Value)
	assert.True(t, state.HttpOnly)

	nonce := cookieByName(t, cookies, "oauth_nonce")
	require.NotNil(t, nonce)
	assert.Equal(t, "nonce-1", nonce.Value)

	redirect := cookieByName(t, cookies, "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/r/la-cocina/pedidos", redirect.Value)
}

func TestAuthCallback_StateMismatch(t *testing.T) {
	h := &AuthHandlers{Svc: &scriptedAuthService{}}

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=tampered", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	w := httptest.NewRecorder()

	h.Callback(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "invalid_state", body["error"])
}

func TestAuthCallback_Success(t *testing.T) {
	sess := domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Role:      domainauth.RoleStaff,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	svc := &scriptedAuthService{
		completeFunc: func(_ context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			assert.Equal(t, "abc", input.Code)
			assert.Equal(t, "state-1", input.State)
			assert.Equal(t, "nonce-1", input.Nonce)
			return &service.CompleteLoginResult{Session: sess}, nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=state-1", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	r.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	r.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/r/la-cocina/pedidos"})
	w := httptest.NewRecorder()

	h.Callback(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/r/la-cocina/pedidos", resp.Header.Get("Location"))

	cookies := resp.Cookies()
	sessionCookie := cookieByName(t, cookies, SessionCookieName)
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "sess-1", sessionCookie.Value)
	assert.Positive(t, sessionCookie.MaxAge)

	// OAuth cookies are single-use.
	state := cookieByName(t, cookies, "oauth_state")
	require.NotNil(t, state)
	assert.Negative(t, state.MaxAge)
}

func TestAuthLogout_JSONClient(t *testing.T) {
	var loggedOut string
	svc := &scriptedAuthService{
		logoutFunc: func(_ context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodPost, "/auth/logout?returnUrl=%2Fr%2Fla-cocina", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Logout(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", loggedOut)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "success", body["status"])

	redirectTo, err := url.Parse(body["redirect_to"])
	require.NoError(t, err)
	assert.Equal(t, gate.DefaultLoginPath, redirectTo.Path)
	assert.Equal(t, "/r/la-cocina", redirectTo.Query().Get(gate.ParamReturnURL))
}

func TestAuthStatus_Unauthenticated(t *testing.T) {
	h := &AuthHandlers{Svc: &scriptedAuthService{}}

	r := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	w := httptest.NewRecorder()

	h.Status(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, false, body["authenticated"])
}

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/r/la-cocina/pedidos", "/r/la-cocina/pedidos"},
		{"/dashboard?tab=ventas", "/dashboard?tab=ventas"},
		{"https://evil.example.com/phish", "/"},
		{"//evil.example.com", "/"},
		{"javascript:alert(1)", "/"},
		{"relative/path", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirectPath(tt.in))
		})
	}
}
