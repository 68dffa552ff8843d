package tenant

import (
	"github.com/labstack/echo/v4"

	"fieldservice/internal/apperr"
)

// Context carries the tenant and acting user bound to one request. It is
// built once at the transport boundary and passed explicitly as the first
// argument to every service and repository operation, so tenant scoping is
// visible in signatures instead of hiding in ambient state.
type Context struct {
	tenantID uint
	actorID  uint
}

// New builds a Context directly. Intended for wiring and tests; request
// handling should use FromEcho.
func New(tenantID, actorID uint) Context {
	return Context{tenantID: tenantID, actorID: actorID}
}

// Anonymous is a Context with no tenant bound. Mutations against it fail
// with MissingTenant.
func Anonymous() Context {
	return Context{}
}

// FromEcho reads the tenant and user the auth middleware stored on the
// echo context. Missing values yield an anonymous context rather than an
// error; resolution is deferred to Resolve so read paths can tolerate it.
func FromEcho(c echo.Context) Context {
	ctx := Context{}
	if id, ok := c.Get("tenant_id").(uint); ok {
		ctx.tenantID = id
	}
	if id, ok := c.Get("user_id").(uint); ok {
		ctx.actorID = id
	}
	return ctx
}

// Resolve returns the bound tenant id or fails with MissingTenant.
func (c Context) Resolve() (uint, error) {
	if c.tenantID == 0 {
		return 0, apperr.ErrMissingTenant
	}
	return c.tenantID, nil
}

// Peek returns the tenant id without failing; ok is false when no tenant
// is bound.
func (c Context) Peek() (uint, bool) {
	return c.tenantID, c.tenantID != 0
}

// ActorID returns the acting user id, zero when anonymous.
func (c Context) ActorID() uint {
	return c.actorID
}
