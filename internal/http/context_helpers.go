package httpx

import (
	"context"

	domainauth "github.com/comandero/comandero/internal/domain/auth"
	"github.com/comandero/comandero/internal/domain/model"
)

// Context keys are unexported struct types so no other package can collide
// with them.
type (
	sessionKey    struct{}
	restaurantKey struct{}
)

// SetSessionInContext attaches the session to the context. A nil session
// leaves the context untouched, so handlers can treat absence and nil the
// same way.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext reads the session placed by the auth middleware.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*domainauth.Session)
	return session, ok && session != nil
}

// SetRestaurantInContext attaches the resolved tenant to the context.
func SetRestaurantInContext(ctx context.Context, rest *model.Restaurant) context.Context {
	if rest == nil {
		return ctx
	}
	return context.WithValue(ctx, restaurantKey{}, rest)
}

// GetRestaurantFromContext reads the tenant placed by the tenant middleware.
// Handlers mounted behind it can rely on presence.
func GetRestaurantFromContext(ctx context.Context) (*model.Restaurant, bool) {
	rest, ok := ctx.Value(restaurantKey{}).(*model.Restaurant)
	return rest, ok && rest != nil
}
