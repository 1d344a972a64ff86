// Package auth holds the domain types for identity and sessions. Nothing in
// here knows about HTTP, Redis, or any identity provider.
package auth

import "time"

// Role is what a signed-in user may do inside a restaurant. Stored as a
// string so it survives JSON round trips through the session store.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleViewer Role = "viewer"
)

// rank orders roles for comparison. Unknown roles rank below viewer so a
// corrupted session never grants anything.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleStaff:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants everything min does.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank() && min.rank() > 0
}

// Identity is the principal an identity provider vouched for. Adapters map
// provider-specific claims into this shape; everything downstream only sees
// this struct.
type Identity struct {
	UserID    string // stable subject identifier
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time
}

// Session is the server-side login record keyed by an opaque random ID. The
// browser only ever holds the ID.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity reconstructs the identity the session was minted from.
func (s Session) Identity() Identity {
	return Identity{
		UserID:    s.UserID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt,
	}
}
