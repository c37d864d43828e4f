package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"travelJournal/internal/auth"
	"travelJournal/internal/validate"
	"travelJournal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// view is what every page template receives.
type view struct {
	Title   string
	Session auth.Session
	Flashes []Flash
	Form    url.Values
	Errors  validate.Errors
	Data    any
}

// pages holds one parsed template set per page, each combined with the layout.
type pages struct {
	byName map[string]*template.Template
}

func loadPages(e *echo.Echo) (*pages, error) {
	funcs := template.FuncMap{
		"url": func(name string, params ...any) string { return e.Reverse(name, params...) },
		"upload": func(name *string) string {
			if name == nil {
				return ""
			}
			return "/static/uploads/" + url.PathEscape(*name)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"roles":    func() []models.Role { return []models.Role{models.RoleTraveller, models.RoleEditor, models.RoleAdmin} },
		"statuses": func() []models.UserStatus { return []models.UserStatus{models.UserStatusActive, models.UserStatusBanned} },
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	p := &pages{byName: map[string]*template.Template{}}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		p.byName[name] = t
	}
	return p, nil
}

// render writes the named page with the given status. The template runs
// into a buffer first, so a failing template never leaves half a page.
func (a *app) render(c echo.Context, status int, name string, v view) error {
	t, ok := a.pages.byName[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	v.Session = auth.Current(c)
	v.Flashes = append(v.Flashes, popFlashes(c)...)
	if v.Errors == nil {
		v.Errors = validate.Errors{}
	}
	if v.Form == nil {
		v.Form = url.Values{}
	}

	page := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, "layout", v)
	})
	onError := templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		a.Logger.Error("render page", "page", name, "path", r.URL.Path, "error", err)
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		})
	})
	templ.Handler(page, templ.WithStatus(status), onError).ServeHTTP(c.Response(), c.Request())
	return nil
}
