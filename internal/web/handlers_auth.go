package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"travelJournal/internal/auth"
	"travelJournal/internal/validate"
	"travelJournal/repository"
)

const (
	msgLoginMissing   = "Please enter both username and password."
	msgLoginBanned    = "User is banned, cannot log in"
	msgLoginIncorrect = "Incorrect username or password"
	msgLoginFailed    = "An error occurred while processing your request. Please try again"
	msgLoginThrottle  = "Too many login attempts. Please wait a minute and try again."
	msgPasswordLong   = "Your password is too long."
)

func (a *app) loginForm(c echo.Context) error {
	return a.render(c, http.StatusOK, "login", view{Title: "Login"})
}

// login checks the credentials and starts a session on success. Every
// failure re-renders the form with the username kept.
func (a *app) login(c echo.Context) error {
	username := c.FormValue(validate.FieldUsername)
	password := c.FormValue(validate.FieldPassword)
	form := url.Values{validate.FieldUsername: {username}}
	fail := func(status int, msg string) error {
		addFlash(c, FlashDanger, msg)
		return a.render(c, status, "login", view{Title: "Login", Form: form})
	}

	if !a.limiter.Allow(c.RealIP()) {
		return fail(http.StatusTooManyRequests, msgLoginThrottle)
	}
	if username == "" || password == "" {
		return fail(http.StatusOK, msgLoginMissing)
	}

	u, err := a.Users.GetByUsername(c.Request().Context(), username)
	if err != nil {
		a.Logger.Error("login lookup failed", "username", username, "error", err)
		return fail(http.StatusInternalServerError, msgLoginFailed)
	}
	if u == nil {
		return fail(http.StatusOK, msgLoginIncorrect)
	}
	if u.IsBanned() {
		return fail(http.StatusOK, msgLoginBanned)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return fail(http.StatusOK, msgLoginIncorrect)
	}

	s := auth.NewSession(u)
	if err := a.Codec.Write(c, s); err != nil {
		a.Logger.Error("write session", "user_id", u.ID, "error", err)
		return fail(http.StatusInternalServerError, msgLoginFailed)
	}
	a.Logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return a.redirect(c, auth.HomeRouteFor(s))
}

func (a *app) signupForm(c echo.Context) error {
	return a.render(c, http.StatusOK, "signup", view{Title: "Sign Up"})
}

type signupResult struct {
	Successful bool
}

// signup validates every field at once and creates a traveller account.
func (a *app) signup(c echo.Context) error {
	in := validate.SignupInput{
		Username:        c.FormValue(validate.FieldUsername),
		Email:           c.FormValue(validate.FieldEmail),
		Password:        c.FormValue(validate.FieldPassword),
		ConfirmPassword: c.FormValue(validate.FieldConfirmPassword),
		FirstName:       c.FormValue(validate.FieldFirstName),
		LastName:        c.FormValue(validate.FieldLastName),
		Location:        c.FormValue(validate.FieldLocation),
	}
	ctx := c.Request().Context()
	errs, err := validate.Signup(ctx, a.Users, in)
	if err != nil {
		return err
	}

	var hash string
	if !errs.Any() {
		hash, err = auth.HashPassword(in.Password)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			errs.Add(validate.FieldPassword, msgPasswordLong)
		} else if err != nil {
			return err
		}
	}
	if errs.Any() {
		// The password is never sent back.
		form := url.Values{
			validate.FieldUsername:  {in.Username},
			validate.FieldEmail:     {in.Email},
			validate.FieldFirstName: {in.FirstName},
			validate.FieldLastName:  {in.LastName},
			validate.FieldLocation:  {in.Location},
		}
		return a.render(c, http.StatusOK, "signup", view{Title: "Sign Up", Form: form, Errors: errs})
	}

	u, err := a.Users.Create(ctx, repository.NewUser{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Location:     in.Location,
	})
	if err != nil {
		return err
	}
	a.Logger.Info("user signed up", "user_id", u.ID)
	return a.render(c, http.StatusOK, "signup", view{Title: "Sign Up", Data: signupResult{Successful: true}})
}

// logout drops the session cookie. Nothing is kept server side.
func (a *app) logout(c echo.Context) error {
	a.Codec.Clear(c)
	return a.redirect(c, RouteLogin)
}
