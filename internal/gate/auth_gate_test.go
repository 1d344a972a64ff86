package gate

import (
	"testing"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authenticatedStore(userID string) *session.Store {
	store := session.NewStore()
	store.SetIdentity(domainauth.Identity{UserID: userID, Email: userID + "@example.com"})
	return store
}

func TestAuthGateAllowsAuthenticated(t *testing.T) {
	g := NewAuthGate(authenticatedStore("u1"), DefaultRoutes())

	d := g.Evaluate("/r/la-terraza/api/clientes")

	assert.True(t, d.Allowed)
	assert.Nil(t, d.Redirect)
}

func TestAuthGateRedirectsUnauthenticatedWithReturnURL(t *testing.T) {
	g := NewAuthGate(session.NewStore(), DefaultRoutes())

	target := "/r/la-terraza/api/pedidos?status=pending"
	d := g.Evaluate(target)

	assert.False(t, d.Allowed)
	require.NotNil(t, d.Redirect)
	assert.Equal(t, DefaultLoginPath, d.Redirect.Path)
	assert.Equal(t, target, d.Redirect.Query.Get(ParamReturnURL))
}

func TestAuthGateReevaluatesPerNavigation(t *testing.T) {
	store := authenticatedStore("u1")
	g := NewAuthGate(store, DefaultRoutes())

	assert.True(t, g.Evaluate("/r/la-terraza").Allowed)

	// Session expires between parent and child navigation.
	store.ClearIdentity()

	d := g.Evaluate("/r/la-terraza/api/reservas")
	assert.False(t, d.Allowed)
	require.NotNil(t, d.Redirect)
	assert.Equal(t, "/r/la-terraza/api/reservas", d.Redirect.Query.Get(ParamReturnURL))
}

func TestAuthGateDefaultsEmptyRoutes(t *testing.T) {
	g := NewAuthGate(session.NewStore(), Routes{})

	d := g.Evaluate("/panel")

	require.NotNil(t, d.Redirect)
	assert.Equal(t, DefaultLoginPath, d.Redirect.Path)
}

func TestRedirectURLEncodesQuery(t *testing.T) {
	d := RedirectTo("/auth/login", nil)
	assert.Equal(t, "/auth/login", d.Redirect.URL())

	g := NewAuthGate(session.NewStore(), DefaultRoutes())
	d = g.Evaluate("/r/cafe del mar")
	assert.Equal(t, "/auth/login?returnUrl=%2Fr%2Fcafe+del+mar", d.Redirect.URL())
}
