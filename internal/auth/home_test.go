package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travelJournal/models"
)

func TestHomeRoute(t *testing.T) {
	assert.Equal(t, RouteTravellerHome, HomeRoute(models.RoleTraveller))
	assert.Equal(t, RouteEditorHome, HomeRoute(models.RoleEditor))
	assert.Equal(t, RouteAdminHome, HomeRoute(models.RoleAdmin))
	for _, r := range []Role{"", "Admin", "root", "traveller "} {
		assert.NotPanics(t, func() { HomeRoute(r) })
		assert.Equal(t, RouteLogin, HomeRoute(r), "role %q", r)
	}
}

func TestHomeRouteFor(t *testing.T) {
	assert.Equal(t, RouteLogin, HomeRouteFor(Session{}))
	// A role without the logged-in marker is still a guest.
	assert.Equal(t, RouteLogin, HomeRouteFor(Session{Role: models.RoleAdmin}))
	assert.Equal(t, RouteAdminHome, HomeRouteFor(Session{LoggedIn: true, Role: models.RoleAdmin}))
	assert.Equal(t, RouteLogin, HomeRouteFor(Session{LoggedIn: true, Role: "ghost"}))
}

func TestPasswordHashing(t *testing.T) {
	h, err := HashPassword("Abcdef1!")
	assert.NoError(t, err)
	assert.True(t, CheckPassword(h, "Abcdef1!"))
	assert.False(t, CheckPassword(h, "abcdef1!"))
	assert.False(t, CheckPassword("not-a-hash", "Abcdef1!"))
}
