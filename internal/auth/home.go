package auth

import "travelJournal/models"

// Named routes the guards and the role router redirect to.
const (
	RouteLogin         = "login"
	RouteTravellerHome = "traveller_home"
	RouteEditorHome    = "editor_home"
	RouteAdminHome     = "admin_home"
)

// HomeRoute maps a role to the name of its home route. Unknown or empty roles
// map to the login route, exactly like a guest.
func HomeRoute(role Role) string {
	switch role {
	case models.RoleTraveller:
		return RouteTravellerHome
	case models.RoleEditor:
		return RouteEditorHome
	case models.RoleAdmin:
		return RouteAdminHome
	default:
		return RouteLogin
	}
}

// HomeRouteFor is HomeRoute for a session; guests go to login.
func HomeRouteFor(s Session) string {
	if !s.LoggedIn {
		return RouteLogin
	}
	return HomeRoute(s.Role)
}
