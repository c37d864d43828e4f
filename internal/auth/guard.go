package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Predicate decides whether a session may reach a handler.
type Predicate func(Session) bool

// Fallback produces the response when a predicate rejects a session.
type Fallback func(c echo.Context, s Session) error

// IsLoggedIn is the predicate behind every login check.
func IsLoggedIn(s Session) bool { return s.LoggedIn }

// Guards builds access-control middleware. Resolve turns a route name into a
// URL (echo's Reverse when nil). Deny renders the access denied page with 403
// (a bare 403 error when nil).
type Guards struct {
	Resolve func(c echo.Context, route string) string
	Deny    Fallback
}

// Guard runs next only when allow accepts the request's session, otherwise
// onDeny answers and next is never invoked.
func (g Guards) Guard(allow Predicate, onDeny Fallback) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := Current(c)
			if !allow(s) {
				return onDeny(c, s)
			}
			return next(c)
		}
	}
}

// LoginRequired redirects guests to the login page.
func (g Guards) LoginRequired() echo.MiddlewareFunc {
	return g.Guard(IsLoggedIn, g.RedirectTo(RouteLogin))
}

// RoleRequired admits only sessions with the given role.
func (g Guards) RoleRequired(role Role) echo.MiddlewareFunc {
	return g.AnyRoleRequired(role)
}

// AnyRoleRequired redirects guests to login and answers 403 to logged-in
// users whose role is not listed.
func (g Guards) AnyRoleRequired(roles ...Role) echo.MiddlewareFunc {
	hasRole := func(s Session) bool { return s.HasRole(roles...) }
	return Chain(g.LoginRequired(), g.Guard(hasRole, g.deny))
}

// RedirectIfLoggedIn sends logged-in users to their home page instead of the
// wrapped handler. A session whose role has no home page is treated as a
// guest, which keeps it from bouncing between login and home.
func (g Guards) RedirectIfLoggedIn() echo.MiddlewareFunc {
	isGuest := func(s Session) bool { return HomeRouteFor(s) == RouteLogin }
	return g.Guard(isGuest, func(c echo.Context, s Session) error {
		return g.RedirectTo(HomeRouteFor(s))(c, s)
	})
}

// RedirectTo returns a fallback that redirects to the named route.
func (g Guards) RedirectTo(route string) Fallback {
	return func(c echo.Context, _ Session) error {
		return c.Redirect(http.StatusFound, g.url(c, route))
	}
}

func (g Guards) url(c echo.Context, route string) string {
	if g.Resolve != nil {
		return g.Resolve(c, route)
	}
	return c.Echo().Reverse(route)
}

func (g Guards) deny(c echo.Context, s Session) error {
	if g.Deny != nil {
		return g.Deny(c, s)
	}
	return echo.NewHTTPError(http.StatusForbidden, "access denied")
}

// Chain nests middleware so the first one runs outermost.
func Chain(ms ...echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		for i := len(ms) - 1; i >= 0; i-- {
			next = ms[i](next)
		}
		return next
	}
}
