package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	flashCookie = "tj_flash"
	flashKey    = "flashes"
)

// Flash categories.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

// pending returns the flashes of this request, including the ones that
// arrived in the cookie.
func pending(c echo.Context) []Flash {
	if fs, ok := c.Get(flashKey).([]Flash); ok {
		return fs
	}
	var fs []Flash
	if ck, err := c.Cookie(flashCookie); err == nil && ck.Value != "" {
		if raw, err := base64.RawURLEncoding.DecodeString(ck.Value); err == nil {
			_ = json.Unmarshal(raw, &fs)
		}
	}
	c.Set(flashKey, fs)
	return fs
}

// addFlash queues a message. It survives a redirect through the flash cookie.
func addFlash(c echo.Context, kind, msg string) {
	fs := append(pending(c), Flash{Kind: kind, Message: msg})
	c.Set(flashKey, fs)
	raw, err := json.Marshal(fs)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		Expires:  time.Now().Add(5 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns and consumes every queued message.
func popFlashes(c echo.Context) []Flash {
	fs := pending(c)
	if len(fs) == 0 {
		return nil
	}
	c.Set(flashKey, []Flash{})
	c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, Expires: time.Unix(0, 0)})
	return fs
}
