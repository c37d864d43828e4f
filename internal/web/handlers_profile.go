package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"travelJournal/internal/auth"
	"travelJournal/internal/uploads"
	"travelJournal/internal/validate"
	"travelJournal/models"
	"travelJournal/repository"
)

const (
	msgPasswordWrong   = "Current password is incorrect."
	msgPasswordReused  = "The new password cannot be the same as the current password. Please enter a new password."
	msgNotAnImage      = "Invalid file type. Please choose an image."
	msgAvatarForbidden = "You do not have permission to view this user's avatar."
	msgAvatarMissing   = "User not found or no profile image found."

	fieldProfileImage = "profile_image"
)

type profileData struct {
	User       *models.User
	Updated    bool
	ImageError string
}

// currentUser loads the account behind the session. A session whose account
// is gone is cleared and sent to login.
func (a *app) currentUser(c echo.Context) (*models.User, error) {
	u, err := a.Users.GetByID(c.Request().Context(), auth.Current(c).UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		a.Codec.Clear(c)
		return nil, a.redirect(c, RouteLogin)
	}
	return u, nil
}

func profileForm(u *models.User) url.Values {
	desc := ""
	if u.PersonalDescription != nil {
		desc = *u.PersonalDescription
	}
	return url.Values{
		validate.FieldEmail:               {u.Email},
		validate.FieldFirstName:           {u.FirstName},
		validate.FieldLastName:            {u.LastName},
		validate.FieldLocation:            {u.Location},
		validate.FieldPersonalDescription: {desc},
	}
}

func (a *app) renderProfile(c echo.Context, status int, u *models.User, form url.Values, errs validate.Errors, d profileData) error {
	d.User = u
	if form == nil {
		form = profileForm(u)
	}
	return a.render(c, status, "profile", view{Title: "Profile", Form: form, Errors: errs, Data: d})
}

func (a *app) profile(c echo.Context) error {
	u, err := a.currentUser(c)
	if u == nil {
		return err
	}
	return a.renderProfile(c, http.StatusOK, u, nil, nil, profileData{})
}

// updateProfile edits the session owner's profile. The account is always
// the one in the session, never one named by the form.
func (a *app) updateProfile(c echo.Context) error {
	u, err := a.currentUser(c)
	if u == nil {
		return err
	}
	in := validate.ProfileInput{
		UserID:              u.ID,
		Email:               c.FormValue(validate.FieldEmail),
		FirstName:           c.FormValue(validate.FieldFirstName),
		LastName:            c.FormValue(validate.FieldLastName),
		Location:            c.FormValue(validate.FieldLocation),
		PersonalDescription: c.FormValue(validate.FieldPersonalDescription),
	}
	ctx := c.Request().Context()
	errs, err := validate.Profile(ctx, a.Users, in)
	if err != nil {
		return err
	}
	if errs.Any() {
		form := url.Values{
			validate.FieldEmail:               {in.Email},
			validate.FieldFirstName:           {in.FirstName},
			validate.FieldLastName:            {in.LastName},
			validate.FieldLocation:            {in.Location},
			validate.FieldPersonalDescription: {in.PersonalDescription},
		}
		return a.renderProfile(c, http.StatusOK, u, form, errs, profileData{})
	}

	if err := a.Users.UpdateProfile(ctx, u.ID, repository.ProfileUpdate{
		Email:               in.Email,
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		Location:            in.Location,
		PersonalDescription: in.PersonalDescription,
	}); err != nil {
		return err
	}
	u, err = a.Users.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	if u == nil {
		return echo.ErrNotFound
	}
	return a.renderProfile(c, http.StatusOK, u, nil, nil, profileData{Updated: true})
}

type changePasswordData struct {
	Updated bool
}

func (a *app) changePasswordForm(c echo.Context) error {
	return a.render(c, http.StatusOK, "change_password", view{Title: "Change Password"})
}

// changePassword requires the current password and a valid new one that
// differs from it.
func (a *app) changePassword(c echo.Context) error {
	u, err := a.currentUser(c)
	if u == nil {
		return err
	}
	current := c.FormValue(validate.FieldCurrentPassword)
	next := c.FormValue(validate.FieldNewPassword)
	confirm := c.FormValue(validate.FieldConfirmPassword)

	errs := validate.Errors{}
	if !auth.CheckPassword(u.PasswordHash, current) {
		errs.Add(validate.FieldCurrentPassword, msgPasswordWrong)
	} else {
		errs = validate.NewPassword(next, confirm)
		if auth.CheckPassword(u.PasswordHash, next) {
			errs.Add(validate.FieldNewPassword, msgPasswordReused)
		}
		if auth.CheckPassword(u.PasswordHash, confirm) {
			errs.Add(validate.FieldConfirmPassword, msgPasswordReused)
		}
	}

	var hash string
	if !errs.Any() {
		hash, err = auth.HashPassword(next)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			errs.Add(validate.FieldNewPassword, msgPasswordLong)
		} else if err != nil {
			return err
		}
	}
	if errs.Any() {
		return a.render(c, http.StatusOK, "change_password", view{Title: "Change Password", Errors: errs})
	}

	if err := a.Users.UpdatePassword(c.Request().Context(), u.ID, hash); err != nil {
		return err
	}
	a.Logger.Info("password changed", "user_id", u.ID)
	return a.render(c, http.StatusOK, "change_password", view{Title: "Change Password", Data: changePasswordData{Updated: true}})
}

// uploadImage replaces the profile image. The old file is removed once the
// new name is stored.
func (a *app) uploadImage(c echo.Context) error {
	u, err := a.currentUser(c)
	if u == nil {
		return err
	}
	fh, err := c.FormFile(fieldProfileImage)
	if err != nil || fh.Filename == "" {
		return a.renderProfile(c, http.StatusOK, u, nil, nil, profileData{ImageError: msgNotAnImage})
	}
	name, err := a.Uploads.Save(fh)
	if err != nil {
		if errors.Is(err, uploads.ErrNotImage) {
			return a.renderProfile(c, http.StatusOK, u, nil, nil, profileData{ImageError: msgNotAnImage})
		}
		return err
	}
	if err := a.Users.SetProfileImage(c.Request().Context(), u.ID, &name); err != nil {
		_ = a.Uploads.Remove(name)
		return err
	}
	if u.ProfileImage != nil {
		if err := a.Uploads.Remove(*u.ProfileImage); err != nil {
			a.Logger.Warn("remove old profile image", "user_id", u.ID, "error", err)
		}
	}
	return a.redirect(c, RouteProfile)
}

func (a *app) removeImage(c echo.Context) error {
	u, err := a.currentUser(c)
	if u == nil {
		return err
	}
	if u.ProfileImage != nil {
		if err := a.Users.SetProfileImage(c.Request().Context(), u.ID, nil); err != nil {
			return err
		}
		if err := a.Uploads.Remove(*u.ProfileImage); err != nil {
			a.Logger.Warn("remove profile image", "user_id", u.ID, "error", err)
		}
	}
	return a.redirect(c, RouteProfile)
}

type avatarData struct {
	User  *models.User
	Error string
}

// previewAvatar shows a user's profile image to that user or an admin.
func (a *app) previewAvatar(c echo.Context) error {
	username := c.Param("username")
	s := auth.Current(c)
	render := func(status int, d avatarData) error {
		return a.render(c, status, "avatar_preview", view{Title: "Avatar", Data: d})
	}
	if username != s.Username && s.Role != models.RoleAdmin {
		return render(http.StatusForbidden, avatarData{Error: msgAvatarForbidden})
	}
	u, err := a.Users.GetByUsername(c.Request().Context(), username)
	if err != nil {
		a.Logger.Error("avatar lookup", "username", username, "error", err)
		return render(http.StatusInternalServerError, avatarData{Error: http.StatusText(http.StatusInternalServerError)})
	}
	if u == nil || u.ProfileImage == nil {
		return render(http.StatusNotFound, avatarData{Error: msgAvatarMissing})
	}
	return render(http.StatusOK, avatarData{User: u})
}
