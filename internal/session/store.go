// Package session holds the explicitly injected session state shared by the
// navigation gates and the hydrator: the authenticated identity and the
// resolved restaurant context for the current page view. There is no ambient
// global; a Store is constructed at shell setup and passed to its consumers.
package session

import (
	"sync"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/domain/model"
)

// Resolution describes the state of the tenant slot in the store. Pending
// (the zero value) means no resolution has been attempted yet; Absent means a
// resolution completed and found nothing. Consumers must not treat a Pending
// tenant as permanently missing.
type Resolution int

const (
	TenantPending Resolution = iota
	TenantAbsent
	TenantResolved
)

// Reader is the read-only view of a Store consumed by the gates.
type Reader interface {
	IsAuthenticated() bool
	CurrentIdentity() (domainauth.Identity, bool)
	CurrentTenant() (*model.Restaurant, Resolution)
}

// Writer is the mutation surface used by the auth collaborator and the
// tenant lookup cache-fill.
type Writer interface {
	SetIdentity(id domainauth.Identity)
	ClearIdentity()
	SetTenant(t *model.Restaurant)
	MarkTenantAbsent()
}

// Store holds the current identity and tenant context. All methods are safe
// for concurrent use.
type Store struct {
	mu         sync.RWMutex
	identity   *domainauth.Identity
	tenant     *model.Restaurant
	resolution Resolution
}

// NewStore returns an empty store: unauthenticated, tenant pending.
func NewStore() *Store { return &Store{} }

// IsAuthenticated reports whether an identity is currently held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// CurrentIdentity returns the held identity and whether one is present.
func (s *Store) CurrentIdentity() (domainauth.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domainauth.Identity{}, false
	}
	return *s.identity, true
}

// CurrentTenant returns the resolved tenant (nil unless resolution is
// TenantResolved) and the resolution state.
func (s *Store) CurrentTenant() (*model.Restaurant, Resolution) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenant, s.resolution
}

// SetIdentity records the authenticated identity.
func (s *Store) SetIdentity(id domainauth.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &id
}

// ClearIdentity removes the identity and invalidates the tenant context,
// returning the store to its initial state. Called on sign-out.
func (s *Store) ClearIdentity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.tenant = nil
	s.resolution = TenantPending
}

// SetTenant records a resolved tenant. Passing nil is equivalent to
// MarkTenantAbsent.
func (s *Store) SetTenant(t *model.Restaurant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == nil {
		s.tenant = nil
		s.resolution = TenantAbsent
		return
	}
	s.tenant = t
	s.resolution = TenantResolved
}

// MarkTenantAbsent records that resolution completed without a tenant.
func (s *Store) MarkTenantAbsent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenant = nil
	s.resolution = TenantAbsent
}

// ResetTenant returns the tenant slot to pending, e.g. on tenant switch.
func (s *Store) ResetTenant() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenant = nil
	s.resolution = TenantPending
}
