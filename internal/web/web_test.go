package web

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"travelJournal/internal/auth"
	"travelJournal/internal/testutil"
	"travelJournal/internal/uploads"
	"travelJournal/models"
	"travelJournal/repository"
)

const (
	testSecret = "web-test-secret"
	testCookie = "sess"
	goodPass   = "Abcdef1!"
)

type harness struct {
	t        *testing.T
	app      *app
	e        *echo.Echo
	db       *sql.DB
	users    *repository.UserRepository
	journeys *repository.JourneyRepository
	events   *repository.EventRepository
	store    *uploads.Store
}

func newHarness(t *testing.T, opts ...func(*Deps)) *harness {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	d := testutil.OpenInMemoryDB(t, name)
	store, err := uploads.New(t.TempDir())
	require.NoError(t, err)

	h := &harness{
		t:        t,
		db:       d,
		users:    repository.NewUserRepository(d),
		journeys: repository.NewJourneyRepository(d),
		events:   repository.NewEventRepository(d),
		store:    store,
	}
	deps := Deps{
		Users:          h.users,
		Journeys:       h.journeys,
		Events:         h.events,
		Uploads:        store,
		Codec:          auth.NewSessionCodec(testSecret, testCookie, time.Hour),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		LoginPerMinute: 600,
		LoginBurst:     100,
	}
	for _, o := range opts {
		o(&deps)
	}
	h.app, err = newApp(deps)
	require.NoError(t, err)
	h.e = h.app.e
	return h
}

func (h *harness) seed(username string, role models.Role) *models.User {
	return testutil.SeedUser(h.t, h.users, username, goodPass, role)
}

func (h *harness) cookieFor(u *models.User) *http.Cookie {
	return testutil.SessionCookie(h.t, testCookie, testSecret, u.ID, u.Username, u.Role)
}

func (h *harness) serve(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func (h *harness) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return h.serve(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (h *harness) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return h.serve(req, cookies...)
}

// postFile sends a multipart form with one file under field.
func (h *harness) postFile(path string, fields url.Values, field, filename string, body []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(h.t, w.WriteField(k, v))
		}
	}
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(h.t, err)
		_, err = part.Write(body)
		require.NoError(h.t, err)
	}
	require.NoError(h.t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return h.serve(req, cookies...)
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func location(rec *httptest.ResponseRecorder) string {
	return rec.Header().Get(echo.HeaderLocation)
}

func (h *harness) userByName(username string) *models.User {
	h.t.Helper()
	u, err := h.users.GetByUsername(context.Background(), username)
	require.NoError(h.t, err)
	return u
}

// follow requests the redirect target of rec, carrying its flash cookie.
func (h *harness) follow(rec *httptest.ResponseRecorder, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	h.t.Helper()
	require.Equal(h.t, http.StatusFound, rec.Code)
	return h.get(location(rec), append(cookies, responseCookie(rec, flashCookie))...)
}
