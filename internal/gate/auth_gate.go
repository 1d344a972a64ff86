package gate

import "github.com/comandero/comandero/internal/session"

// AuthGate decides whether a navigation into protected content may proceed.
// It is a synchronous read of the session store; no network calls. The same
// evaluation applies to the initial navigation and to every child transition,
// since a session can expire between the two.
type AuthGate struct {
	sessions session.Reader
	routes   Routes
}

// NewAuthGate constructs an AuthGate over the given session state.
func NewAuthGate(sessions session.Reader, routes Routes) *AuthGate {
	return &AuthGate{sessions: sessions, routes: routes.sanitized()}
}

// Evaluate allows the navigation iff an identity is held; otherwise it
// redirects to login with the requested URL attached verbatim as returnUrl.
func (g *AuthGate) Evaluate(targetURL string) Decision {
	if g.sessions.IsAuthenticated() {
		return Allow()
	}
	return loginRedirect(g.routes.Login, targetURL)
}
