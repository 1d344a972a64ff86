// Package gate implements navigation access control as pure decision values.
// Gates never navigate or write responses; they return a Decision the caller
// (the HTTP middleware here) applies. This keeps every branch assertable in
// tests without response mocking.
package gate

import "net/url"

// Route paths shared by both gates.
const (
	DefaultLoginPath        = "/auth/login"
	DefaultTenantSelectPath = "/restaurantes"
)

// Query parameter and error marker names used on redirects. The markers are
// machine-readable and deliberately coarse: infrastructure faults surface as
// the not-found marker so the user always lands on the same recovery path.
const (
	ParamReturnURL   = "returnUrl"
	ParamError       = "error"
	ParamRestaurant  = "restaurante"
	ErrTenantMissing = "restaurante-no-encontrado"
	ErrNoAccess      = "sin-acceso"
)

// Routes holds the redirect targets the gates produce.
type Routes struct {
	Login        string
	TenantSelect string
}

// DefaultRoutes returns the standard gate redirect targets.
func DefaultRoutes() Routes {
	return Routes{Login: DefaultLoginPath, TenantSelect: DefaultTenantSelectPath}
}

func (r Routes) sanitized() Routes {
	if r.Login == "" {
		r.Login = DefaultLoginPath
	}
	if r.TenantSelect == "" {
		r.TenantSelect = DefaultTenantSelectPath
	}
	return r
}

// Redirect describes where a denied navigation should land.
type Redirect struct {
	Path  string
	Query url.Values
}

// URL renders the redirect as a path with encoded query parameters.
func (r Redirect) URL() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Decision is the terminal outcome of a gate evaluation: either the
// navigation proceeds or it redirects. Exactly one of the two holds.
type Decision struct {
	Allowed  bool
	Redirect *Redirect
}

// Allow returns an allowing decision.
func Allow() Decision { return Decision{Allowed: true} }

// RedirectTo returns a redirecting decision.
func RedirectTo(path string, query url.Values) Decision {
	return Decision{Redirect: &Redirect{Path: path, Query: query}}
}

// loginRedirect builds the login redirect carrying the originally requested
// URL so the login flow can resume navigation after success.
func loginRedirect(loginPath, returnURL string) Decision {
	q := url.Values{}
	if returnURL != "" {
		q.Set(ParamReturnURL, returnURL)
	}
	return RedirectTo(loginPath, q)
}
