package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/domain/model"
)

// fastHydration keeps shell tests quick without changing semantics.
func fastHydration(auth AuthServiceInterface, dir *fakeDirectory) *SessionHandlers {
	return NewSessionHandlers(SessionHandlersOptions{
		Auth:              auth,
		Directory:         dir,
		HydrationAttempts: 5,
		HydrationInterval: 5 * time.Millisecond,
		HydrationDebounce: time.Millisecond,
	})
}

func TestShell_Unauthenticated(t *testing.T) {
	h := fastHydration(&fakeAuthService{}, &fakeDirectory{})

	r := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	w := httptest.NewRecorder()

	h.Shell(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var got shellSessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.False(t, got.Authenticated)
	assert.Nil(t, got.User)
	assert.Nil(t, got.Restaurant)
	assert.Equal(t, DefaultShellTitle, got.Title)
}

func TestShell_AuthenticatedWithResolvedRestaurant(t *testing.T) {
	auth := &fakeAuthService{sessions: map[string]*domainauth.Session{
		"cookie-1": testSession(domainauth.RoleStaff),
	}}
	dir := &fakeDirectory{
		findBySlugFunc: func(_ context.Context, slug string) (*model.Restaurant, error) {
			assert.Equal(t, "la-cocina", slug)
			return activeRestaurant(), nil
		},
	}
	h := fastHydration(auth, dir)

	r := httptest.NewRequest(http.MethodGet, "/api/session?restaurante=la-cocina", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-1"})
	w := httptest.NewRecorder()

	h.Shell(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var got shellSessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.True(t, got.Authenticated)
	require.NotNil(t, got.User)
	assert.Equal(t, "user-1", got.User.ID)
	require.NotNil(t, got.Restaurant)
	assert.Equal(t, "rest-1", got.Restaurant.ID)
	assert.Equal(t, "La Cocina", got.Title)
}

func TestShell_UnknownSlugKeepsDefaultTitle(t *testing.T) {
	auth := &fakeAuthService{sessions: map[string]*domainauth.Session{
		"cookie-1": testSession(domainauth.RoleStaff),
	}}
	dir := &fakeDirectory{
		findBySlugFunc: func(context.Context, string) (*model.Restaurant, error) { return nil, nil },
	}
	h := fastHydration(auth, dir)

	r := httptest.NewRequest(http.MethodGet, "/api/session?restaurante=nope", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-1"})
	w := httptest.NewRecorder()

	h.Shell(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var got shellSessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.True(t, got.Authenticated)
	assert.Nil(t, got.Restaurant)
	assert.Equal(t, DefaultShellTitle, got.Title)
}

func TestShell_InactiveRestaurantKeepsDefaultTitle(t *testing.T) {
	auth := &fakeAuthService{sessions: map[string]*domainauth.Session{
		"cookie-1": testSession(domainauth.RoleStaff),
	}}
	dir := &fakeDirectory{
		findBySlugFunc: func(context.Context, string) (*model.Restaurant, error) {
			rest := activeRestaurant()
			rest.Active = false
			return rest, nil
		},
	}
	h := fastHydration(auth, dir)

	r := httptest.NewRequest(http.MethodGet, "/api/session?restaurante=la-cocina", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-1"})
	w := httptest.NewRecorder()

	h.Shell(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var got shellSessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Nil(t, got.Restaurant)
	assert.Equal(t, DefaultShellTitle, got.Title)
}

func TestShell_SlowLookupDegradesToDefaultTitle(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	auth := &fakeAuthService{sessions: map[string]*domainauth.Session{
		"cookie-1": testSession(domainauth.RoleStaff),
	}}
	dir := &fakeDirectory{
		findBySlugFunc: func(ctx context.Context, _ string) (*model.Restaurant, error) {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return activeRestaurant(), nil
		},
	}
	h := fastHydration(auth, dir)

	r := httptest.NewRequest(http.MethodGet, "/api/session?restaurante=la-cocina", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-1"})
	w := httptest.NewRecorder()

	h.Shell(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var got shellSessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.True(t, got.Authenticated)
	assert.Nil(t, got.Restaurant)
	assert.Equal(t, DefaultShellTitle, got.Title)
}

func TestShell_SlugIgnoredWhenUnauthenticated(t *testing.T) {
	dir := &fakeDirectory{
		findBySlugFunc: func(context.Context, string) (*model.Restaurant, error) {
			t.Fatal("lookup must not run for anonymous callers")
			return nil, nil
		},
	}
	h := fastHydration(&fakeAuthService{}, dir)

	r := httptest.NewRequest(http.MethodGet, "/api/session?restaurante=la-cocina", nil)
	w := httptest.NewRecorder()

	h.Shell(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var got shellSessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.False(t, got.Authenticated)
	assert.Nil(t, got.Restaurant)
}
