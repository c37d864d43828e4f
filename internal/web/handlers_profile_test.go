package web

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelJournal/internal/auth"
	"travelJournal/models"
)

func profileValues(email string) url.Values {
	return url.Values{
		"email":                {email},
		"first_name":           {"Grace"},
		"last_name":            {"Hopper"},
		"location":             {" Arlington "},
		"personal_description": {"Admiral"},
	}
}

func TestProfile_UpdateKeepsOwnEmail(t *testing.T) {
	h := newHarness(t)
	u := h.seed("grace", models.RoleTraveller)
	ck := h.cookieFor(u)

	rec := h.post("/profile", profileValues(u.Email), ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your profile has been updated.")
	assert.NotContains(t, rec.Body.String(), "Email already exists")

	got := h.userByName("grace")
	assert.Equal(t, "Arlington", got.Location)
	require.NotNil(t, got.PersonalDescription)
	assert.Equal(t, "Admiral", *got.PersonalDescription)
}

func TestProfile_RejectsAnotherUsersEmail(t *testing.T) {
	h := newHarness(t)
	u := h.seed("grace", models.RoleTraveller)
	other := h.seed("alan", models.RoleTraveller)

	rec := h.post("/profile", profileValues(other.Email), h.cookieFor(u))
	assert.Contains(t, rec.Body.String(), "Email already exists. Please choose a different email.")
	assert.Equal(t, u.Email, h.userByName("grace").Email)
}

func TestProfile_WhitespaceFieldsAreRejected(t *testing.T) {
	h := newHarness(t)
	u := h.seed("grace", models.RoleTraveller)
	form := profileValues(u.Email)
	form.Set("first_name", "   ")
	form.Set("personal_description", "  ")
	body := h.post("/profile", form, h.cookieFor(u)).Body.String()
	assert.Contains(t, body, "First name cannot be just whitespace.")
	assert.Contains(t, body, "Personal Description cannot be just whitespace.")
}

func TestChangePassword(t *testing.T) {
	h := newHarness(t)
	u := h.seed("grace", models.RoleTraveller)
	ck := h.cookieFor(u)
	submit := func(current, next, confirm string) string {
		return h.post("/profile/change_password", url.Values{
			"current_password": {current},
			"new_password":     {next},
			"confirm_password": {confirm},
		}, ck).Body.String()
	}

	assert.Contains(t, submit("Wrong123!", "Newpass1!", "Newpass1!"), "Current password is incorrect.")
	assert.Contains(t, submit(goodPass, goodPass, goodPass), "The new password cannot be the same as the current password.")
	assert.Contains(t, submit(goodPass, "newpass", "newpass"), "Please choose a longer password!")
	assert.Contains(t, submit(goodPass, "Newpass1!", "Newpass2!"), "The two entered passwords do not match.")

	assert.Contains(t, submit(goodPass, "Newpass1!", "Newpass1!"), "Your password has been changed.")
	assert.True(t, auth.CheckPassword(h.userByName("grace").PasswordHash, "Newpass1!"))
}

func TestProfileImage_UploadReplaceRemove(t *testing.T) {
	h := newHarness(t)
	u := h.seed("grace", models.RoleTraveller)
	ck := h.cookieFor(u)

	rec := h.postFile("/profile/upload_image", nil, "profile_image", "notes.txt", []byte("x"), ck)
	assert.Contains(t, rec.Body.String(), "Invalid file type. Please choose an image.")
	assert.Nil(t, h.userByName("grace").ProfileImage)

	rec = h.postFile("/profile/upload_image", nil, "profile_image", "me.png", []byte("first"), ck)
	require.Equal(t, http.StatusFound, rec.Code)
	first := h.userByName("grace").ProfileImage
	require.NotNil(t, first)
	assert.FileExists(t, filepath.Join(h.store.Dir, *first))

	h.postFile("/profile/upload_image", nil, "profile_image", "me.jpg", []byte("second"), ck)
	second := h.userByName("grace").ProfileImage
	require.NotNil(t, second)
	assert.NotEqual(t, *first, *second)
	assert.NoFileExists(t, filepath.Join(h.store.Dir, *first), "replaced image is deleted")

	rec = h.post("/profile/remove_image", url.Values{}, ck)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Nil(t, h.userByName("grace").ProfileImage)
	_, err := os.Stat(filepath.Join(h.store.Dir, *second))
	assert.True(t, os.IsNotExist(err))
}

func TestPreviewAvatar(t *testing.T) {
	h := newHarness(t)
	grace := h.seed("grace", models.RoleTraveller)
	alan := h.seed("alan", models.RoleTraveller)
	admin := h.seed("root", models.RoleAdmin)

	rec := h.get("/profile/avatar/grace", h.cookieFor(alan))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You do not have permission to view this user")

	rec = h.get("/profile/avatar/grace", h.cookieFor(admin))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found or no profile image found.")

	rec = h.get("/profile/avatar/nobody", h.cookieFor(admin))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	h.postFile("/profile/upload_image", nil, "profile_image", "me.png", []byte("img"), h.cookieFor(grace))
	rec = h.get("/profile/avatar/grace", h.cookieFor(grace))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/static/uploads/")
}
