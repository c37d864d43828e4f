// Package web serves the travel journal pages.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"travelJournal/internal/auth"
	"travelJournal/internal/logging"
	"travelJournal/internal/uploads"
	"travelJournal/models"
	"travelJournal/repository"
)

// Route names used for redirects and links.
const (
	RouteIndex             = "index"
	RouteLogin             = auth.RouteLogin
	RouteSignup            = "signup"
	RouteLogout            = "logout"
	RouteProfile           = "profile"
	RouteChangePassword    = "change_password"
	RouteUploadImage       = "upload_image"
	RouteRemoveImage       = "remove_image"
	RoutePreviewAvatar     = "preview_avatar"
	RouteTravellerHome     = auth.RouteTravellerHome
	RouteEditorHome        = auth.RouteEditorHome
	RouteAdminHome         = auth.RouteAdminHome
	RouteAddJourney        = "add_journey"
	RouteAllUsers          = "all_users"
	RouteSystemUsers       = "system_users"
	RouteSearchAllUsers    = "search_all_users"
	RouteSearchSystemUsers = "search_system_users"
	RouteEditUser          = "edit_user"
	RouteUpdateUser        = "update_user"
	RouteViewEvents        = "view_events"
	RouteAddEvent          = "add_event"
	RouteEditEvent         = "edit_event"
	RouteDeleteEvent       = "delete_event"
)

// Deps are the collaborators the web app needs. Everything is built once at
// startup and passed in.
type Deps struct {
	Users    repository.UserRepositoryI
	Journeys repository.JourneyRepositoryI
	Events   repository.EventRepositoryI
	Uploads  *uploads.Store
	Codec    *auth.SessionCodec
	Logger   *slog.Logger

	// LoginPerMinute and LoginBurst throttle POST /login per client IP.
	LoginPerMinute int
	LoginBurst     int
	MaxUploadBytes int64
}

type app struct {
	Deps
	e       *echo.Echo
	pages   *pages
	guards  auth.Guards
	limiter *ipLimiter
}

// New builds the echo instance with every route registered by name.
func New(d Deps) (*echo.Echo, error) {
	a, err := newApp(d)
	if err != nil {
		return nil, err
	}
	return a.e, nil
}

func newApp(d Deps) (*app, error) {
	if d.Users == nil || d.Journeys == nil || d.Events == nil || d.Codec == nil || d.Uploads == nil {
		return nil, errors.New("web: missing dependency")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.LoginPerMinute <= 0 {
		d.LoginPerMinute = 10
	}
	if d.LoginBurst <= 0 {
		d.LoginBurst = 5
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &app{
		Deps:    d,
		e:       e,
		limiter: newIPLimiter(rate.Limit(float64(d.LoginPerMinute)/60), d.LoginBurst),
	}
	p, err := loadPages(e)
	if err != nil {
		return nil, err
	}
	a.pages = p
	a.guards = auth.Guards{Deny: a.accessDenied}
	e.HTTPErrorHandler = a.handleError

	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(d.Logger))
	e.Use(middleware.Recover())
	if d.MaxUploadBytes > 0 {
		e.Use(middleware.BodyLimit(strconv.FormatInt(d.MaxUploadBytes, 10) + "B"))
	}
	e.Use(auth.LoadSession(d.Codec))

	a.routes()
	return a, nil
}

func (a *app) routes() {
	e, g := a.e, a.guards
	login := g.LoginRequired()
	guest := g.RedirectIfLoggedIn()
	admin := g.RoleRequired(models.RoleAdmin)

	e.Static("/static/uploads", a.Uploads.Dir)

	e.GET("/", a.index).Name = RouteIndex

	e.GET("/login", a.loginForm, guest).Name = RouteLogin
	e.POST("/login", a.login, guest)
	e.GET("/signup", a.signupForm, guest).Name = RouteSignup
	e.POST("/signup", a.signup, guest)
	e.GET("/logout", a.logout, login).Name = RouteLogout

	e.GET("/profile", a.profile, login).Name = RouteProfile
	e.POST("/profile", a.updateProfile, login)
	e.GET("/profile/change_password", a.changePasswordForm, login).Name = RouteChangePassword
	e.POST("/profile/change_password", a.changePassword, login)
	e.POST("/profile/upload_image", a.uploadImage, login).Name = RouteUploadImage
	e.POST("/profile/remove_image", a.removeImage, login).Name = RouteRemoveImage
	e.GET("/profile/avatar/:username", a.previewAvatar, login).Name = RoutePreviewAvatar

	e.GET("/traveller/home", a.travellerHome, g.RoleRequired(models.RoleTraveller)).Name = RouteTravellerHome
	e.GET("/editor/home", a.staticPage("editor_home", "Editor Home"), g.RoleRequired(models.RoleEditor)).Name = RouteEditorHome
	e.GET("/admin/home", a.staticPage("admin_home", "Admin Home"), admin).Name = RouteAdminHome

	e.GET("/journey/add", a.journeyForm, login).Name = RouteAddJourney
	e.POST("/journey/add", a.addJourney, login)

	e.GET("/all_users", a.listUsers(repository.ScopeAllUsers), admin).Name = RouteAllUsers
	e.GET("/system_users", a.listUsers(repository.ScopeSystemUsers), admin).Name = RouteSystemUsers
	e.GET("/users/search_all_users", a.searchUsers(repository.ScopeAllUsers), admin).Name = RouteSearchAllUsers
	e.GET("/users/search_system_users", a.searchUsers(repository.ScopeSystemUsers), admin).Name = RouteSearchSystemUsers
	e.GET("/users/edit", a.editUserForm, admin).Name = RouteEditUser
	e.POST("/users/edit", a.editUser, admin)
	e.POST("/users/update", a.updateUser, admin).Name = RouteUpdateUser

	e.GET("/journey/:journey_id/events", a.viewEvents, login).Name = RouteViewEvents
	e.GET("/journey/:journey_id/event/add", a.eventForm, login).Name = RouteAddEvent
	e.POST("/journey/:journey_id/event/add", a.addEvent, login)
	e.GET("/journey/:journey_id/event/:event_id/edit", a.editEventForm, login).Name = RouteEditEvent
	e.POST("/journey/:journey_id/event/:event_id/edit", a.editEvent, login)
	e.POST("/journey/:journey_id/event/:event_id/delete", a.deleteEvent, login).Name = RouteDeleteEvent
}

// index sends every visitor to the page their session belongs on.
func (a *app) index(c echo.Context) error {
	return a.redirect(c, auth.HomeRouteFor(auth.Current(c)))
}

func (a *app) staticPage(name, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return a.render(c, http.StatusOK, name, view{Title: title})
	}
}

func (a *app) redirect(c echo.Context, route string, params ...any) error {
	return c.Redirect(http.StatusFound, a.e.Reverse(route, params...))
}

// redirectHome sends the user to the home page of their role.
func (a *app) redirectHome(c echo.Context) error {
	return a.redirect(c, auth.HomeRouteFor(auth.Current(c)))
}

func (a *app) accessDenied(c echo.Context, _ auth.Session) error {
	return a.render(c, http.StatusForbidden, "access_denied", view{Title: "Access Denied"})
}

// handleError renders the generic error page for errors handlers propagate.
func (a *app) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		a.Logger.Error("request failed", "path", c.Request().URL.Path, "error", err)
		msg = http.StatusText(code)
	}
	if rerr := a.render(c, code, "error", view{Title: http.StatusText(code), Data: msg}); rerr != nil {
		a.Logger.Error("render error page", "error", rerr)
		_ = c.String(code, msg)
	}
}
