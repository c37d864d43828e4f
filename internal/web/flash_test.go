package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlash_SurvivesRedirect(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	addFlash(c, FlashSuccess, "saved")
	addFlash(c, FlashDanger, "but check this")
	ck := responseCookie(rec, flashCookie)
	require.NotNil(t, ck)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	got := popFlashes(c)
	assert.Equal(t, []Flash{{FlashSuccess, "saved"}, {FlashDanger, "but check this"}}, got)
	assert.Empty(t, popFlashes(c), "flashes are consumed")

	cleared := responseCookie(rec, flashCookie)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestFlash_IgnoresGarbageCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%not-base64"})
	c := echo.New().NewContext(req, httptest.NewRecorder())
	assert.Empty(t, popFlashes(c))
}
