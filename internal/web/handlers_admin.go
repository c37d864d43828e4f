package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"travelJournal/models"
	"travelJournal/repository"
)

const (
	paramSearchTerm     = "searchterm"
	paramSearchCategory = "searchcat"
	paramUserID         = "user_id"
	paramRole           = "role"
	paramStatus         = "status"

	msgUserUpdated       = "User updated successfully"
	msgUserInvalidChange = "Please choose a valid role and status."
)

type usersData struct {
	Users      []models.User
	AllUsers   bool
	Categories []repository.SearchCategory
}

var searchCategories = []repository.SearchCategory{
	repository.SearchByUsername,
	repository.SearchByFirstName,
	repository.SearchByLastName,
	repository.SearchByFullName,
	repository.SearchByEmail,
}

func (a *app) renderUsers(c echo.Context, scope repository.UserScope, users []models.User) error {
	form := url.Values{
		paramSearchTerm:     {c.QueryParam(paramSearchTerm)},
		paramSearchCategory: {c.QueryParam(paramSearchCategory)},
	}
	return a.render(c, http.StatusOK, "users", view{
		Title: "Users",
		Form:  form,
		Data:  usersData{Users: users, AllUsers: scope == repository.ScopeAllUsers, Categories: searchCategories},
	})
}

func (a *app) listUsers(scope repository.UserScope) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := a.Users.List(c.Request().Context(), scope)
		if err != nil {
			return err
		}
		return a.renderUsers(c, scope, users)
	}
}

// searchUsers matches a substring against one column. An unknown category
// finds nobody.
func (a *app) searchUsers(scope repository.UserScope) echo.HandlerFunc {
	return func(c echo.Context) error {
		cat := repository.SearchCategory(c.QueryParam(paramSearchCategory))
		users, err := a.Users.Search(c.Request().Context(), scope, cat, c.QueryParam(paramSearchTerm))
		if err != nil {
			return err
		}
		return a.renderUsers(c, scope, users)
	}
}

func (a *app) userFromParam(c echo.Context, raw string) (*models.User, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	u, err := a.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return u, nil
}

func (a *app) renderUserEdit(c echo.Context, u *models.User) error {
	return a.render(c, http.StatusOK, "user_edit", view{Title: "Edit User", Data: u})
}

func (a *app) editUserForm(c echo.Context) error {
	u, err := a.userFromParam(c, c.QueryParam(paramUserID))
	if err != nil {
		return err
	}
	return a.renderUserEdit(c, u)
}

// applyUserChange stores the submitted role and status. Unknown values are
// rejected with a flash and no write.
func (a *app) applyUserChange(c echo.Context) (*models.User, error) {
	u, err := a.userFromParam(c, c.FormValue(paramUserID))
	if err != nil {
		return nil, err
	}
	role := models.Role(c.FormValue(paramRole))
	status := models.UserStatus(c.FormValue(paramStatus))
	if !role.Valid() || !status.Valid() {
		addFlash(c, FlashDanger, msgUserInvalidChange)
		return u, nil
	}
	if err := a.Users.UpdateRoleAndStatus(c.Request().Context(), u.ID, role, status); err != nil {
		return nil, err
	}
	a.Logger.Info("user updated by admin", "user_id", u.ID, "role", role, "status", status)
	addFlash(c, FlashSuccess, msgUserUpdated)
	u.Role, u.Status = role, status
	return u, nil
}

func (a *app) editUser(c echo.Context) error {
	u, err := a.applyUserChange(c)
	if err != nil {
		return err
	}
	return a.renderUserEdit(c, u)
}

// updateUser is the redirecting variant of editUser.
func (a *app) updateUser(c echo.Context) error {
	u, err := a.applyUserChange(c)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, a.e.Reverse(RouteEditUser)+"?"+url.Values{paramUserID: {strconv.FormatInt(u.ID, 10)}}.Encode())
}
