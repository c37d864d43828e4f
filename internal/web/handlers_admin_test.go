package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelJournal/models"
)

func TestAdmin_ListAndSearchUsers(t *testing.T) {
	h := newHarness(t)
	admin := h.cookieFor(h.seed("root", models.RoleAdmin))
	h.seed("editor1", models.RoleEditor)
	h.seed("walker", models.RoleTraveller)

	body := h.get("/all_users", admin).Body.String()
	for _, name := range []string{"root", "editor1", "walker"} {
		assert.Contains(t, body, name)
	}

	body = h.get("/system_users", admin).Body.String()
	assert.Contains(t, body, "editor1")
	assert.NotContains(t, body, "walker")

	body = h.get("/users/search_all_users?searchcat=username&searchterm=walk", admin).Body.String()
	assert.Contains(t, body, "walker")
	assert.NotContains(t, body, "editor1")

	body = h.get("/users/search_system_users?searchcat=email&searchterm=walker", admin).Body.String()
	assert.Contains(t, body, "No users found.")

	body = h.get("/users/search_all_users?searchcat=password_hash&searchterm=a", admin).Body.String()
	assert.Contains(t, body, "No users found.")
}

func TestAdmin_EditUser(t *testing.T) {
	h := newHarness(t)
	admin := h.cookieFor(h.seed("root", models.RoleAdmin))
	target := h.seed("walker", models.RoleTraveller)
	id := fmt.Sprint(target.ID)

	rec := h.get("/users/edit?user_id="+id, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Edit walker")

	rec = h.post("/users/edit", url.Values{"user_id": {id}, "role": {"editor"}, "status": {"banned"}}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User updated successfully")
	got := h.userByName("walker")
	assert.Equal(t, models.RoleEditor, got.Role)
	assert.Equal(t, models.UserStatusBanned, got.Status)

	rec = h.post("/users/edit", url.Values{"user_id": {id}, "role": {"overlord"}, "status": {"active"}}, admin)
	assert.Contains(t, rec.Body.String(), "Please choose a valid role and status.")
	assert.Equal(t, models.RoleEditor, h.userByName("walker").Role)

	rec = h.post("/users/update", url.Values{"user_id": {id}, "role": {"traveller"}, "status": {"active"}}, admin)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(location(rec), "/users/edit?"))
	assert.Equal(t, models.RoleTraveller, h.userByName("walker").Role)

	assert.Equal(t, http.StatusNotFound, h.get("/users/edit?user_id=9999", admin).Code)
	assert.Equal(t, http.StatusBadRequest, h.get("/users/edit?user_id=abc", admin).Code)
}

func TestHomePages(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusOK, h.get("/editor/home", h.cookieFor(h.seed("ed", models.RoleEditor))).Code)
	assert.Equal(t, http.StatusOK, h.get("/admin/home", h.cookieFor(h.seed("root", models.RoleAdmin))).Code)
}
