package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const DefaultCookieName = "tj_session"

// SessionCodec signs sessions into HS256 tokens and moves them in and out of
// the session cookie. The client holds the token; nothing is stored server side.
type SessionCodec struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

// CodecOption tweaks a SessionCodec.
type CodecOption func(*SessionCodec)

// WithSecureCookie marks the cookie Secure (HTTPS only).
func WithSecureCookie(secure bool) CodecOption {
	return func(c *SessionCodec) { c.secure = secure }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *SessionCodec) { c.now = now }
}

// NewSessionCodec returns a codec. Empty cookieName and non-positive ttl fall
// back to DefaultCookieName and 24h.
func NewSessionCodec(secret, cookieName string, ttl time.Duration, opts ...CodecOption) *SessionCodec {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	c := &SessionCodec{secret: []byte(secret), cookieName: cookieName, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

type sessionClaims struct {
	LoggedIn bool   `json:"logged_in"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// CookieName is the name of the session cookie.
func (c *SessionCodec) CookieName() string { return c.cookieName }

// Encode signs s into a token that expires after the codec's ttl.
func (c *SessionCodec) Encode(s Session) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("session secret is empty")
	}
	now := c.now()
	claims := sessionClaims{
		LoggedIn: s.LoggedIn,
		UserID:   s.UserID,
		Username: s.Username,
		Role:     string(s.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode validates the token and returns the session it carries.
func (c *SessionCodec) Decode(token string) (Session, error) {
	if len(c.secret) == 0 {
		return Session{}, errors.New("session secret is empty")
	}
	tok, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return Session{}, err
	}
	cl, _ := tok.Claims.(*sessionClaims)
	if cl == nil || !cl.LoggedIn || cl.UserID == 0 || strings.TrimSpace(cl.Username) == "" {
		return Session{}, errors.New("invalid claims")
	}
	return Session{LoggedIn: true, UserID: cl.UserID, Username: cl.Username, Role: Role(cl.Role)}, nil
}

// FromRequest returns the session in the request's cookie. A missing, forged or
// expired cookie yields a guest session.
func (c *SessionCodec) FromRequest(r *http.Request) Session {
	ck, err := r.Cookie(c.cookieName)
	if err != nil || ck.Value == "" {
		return Session{}
	}
	s, err := c.Decode(ck.Value)
	if err != nil {
		return Session{}
	}
	return s
}

// Write signs s and sets it as the session cookie.
func (c *SessionCodec) Write(ctx echo.Context, s Session) error {
	tok, err := c.Encode(s)
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     c.cookieName,
		Value:    tok,
		Path:     "/",
		Expires:  c.now().Add(c.ttl),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (c *SessionCodec) Clear(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// LoadSession decodes the cookie once per request and puts the session in the
// request context for guards and handlers.
func LoadSession(codec *SessionCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			c.SetRequest(r.WithContext(WithSession(r.Context(), codec.FromRequest(r))))
			return next(c)
		}
	}
}

// Current returns the session loaded for this request.
func Current(c echo.Context) Session {
	return FromContext(c.Request().Context())
}
