package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/ports"
)

type mockAuthProvider struct {
	beginFn    func(ctx context.Context, in ports.BeginInput) (string, string, string, error)
	exchangeFn func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)
}

func (m *mockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	return m.beginFn(ctx, in)
}

func (m *mockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	return m.exchangeFn(ctx, in)
}

type mockSessionStore struct {
	sessions map[string]domainauth.Session
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *mockSessionStore) Save(_ context.Context, sess domainauth.Session) error {
	m.sessions[sess.ID] = sess
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, assertNotFoundErr
	}
	return sess, nil
}

func (m *mockSessionStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

var assertNotFoundErr = &notFoundErr{}

type notFoundErr struct{}

func (*notFoundErr) Error() string { return "session not found" }

type staticRoles struct{ role domainauth.Role }

func (s staticRoles) Map(_ []string) domainauth.Role { return s.role }

func TestAuthService_CompleteLogin_PersistsSessionWithMappedRole(t *testing.T) {
	store := newMockSessionStore()
	svc := NewAuthService(AuthServiceOptions{
		Provider: &mockAuthProvider{
			exchangeFn: func(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
				assert.Equal(t, "code-1", in.Code)
				return domainauth.Identity{
					UserID:    "user-1",
					Email:     "chef@example.com",
					Groups:    []string{"comandero-admins"},
					ExpiresAt: time.Now().Add(time.Hour),
				}, nil
			},
		},
		Sessions: store,
		Roles:    staticRoles{role: domainauth.RoleAdmin},
	})

	res, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code-1", State: "state-1", Nonce: "nonce-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Session.ID)
	assert.Equal(t, domainauth.RoleAdmin, res.Session.Role)

	saved, ok := store.sessions[res.Session.ID]
	require.True(t, ok)
	assert.Equal(t, "user-1", saved.UserID)
}

func TestAuthService_CompleteLogin_ClampsSessionExpiry(t *testing.T) {
	tests := []struct {
		name       string
		expiresAt  time.Time
		wantWithin time.Duration
	}{
		{name: "missing expiry gets the default", expiresAt: time.Time{}, wantWithin: defaultSessionTTL},
		{name: "far-future expiry is capped", expiresAt: time.Now().Add(90 * 24 * time.Hour), wantWithin: maxSessionTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockSessionStore()
			svc := NewAuthService(AuthServiceOptions{
				Provider: &mockAuthProvider{
					exchangeFn: func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
						return domainauth.Identity{UserID: "user-1", ExpiresAt: tt.expiresAt}, nil
					},
				},
				Sessions: store,
				Roles:    staticRoles{role: domainauth.RoleStaff},
			})

			res, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
				Code: "c", State: "s", Nonce: "n",
			})
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(tt.wantWithin), res.Session.ExpiresAt, time.Minute)
		})
	}
}

func TestAuthService_CompleteLogin_RequiresCodeStateNonce(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{})

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{State: "s", Nonce: "n"})
	assert.Error(t, err)
	_, err = svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", Nonce: "n"})
	assert.Error(t, err)
	_, err = svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s"})
	assert.Error(t, err)
}

func TestAuthService_GetSession_ExpiredSessionIsDeleted(t *testing.T) {
	store := newMockSessionStore()
	store.sessions["sess-1"] = domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	svc := NewAuthService(AuthServiceOptions{Sessions: store})

	_, err := svc.GetSession(context.Background(), "sess-1")
	require.Error(t, err)
	assert.True(t, ErrSessionExpired(err))
	assert.Empty(t, store.sessions)
}

func TestAuthService_Logout_NoSessionIsNoop(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{Sessions: newMockSessionStore()})
	assert.NoError(t, svc.Logout(context.Background(), ""))
}
