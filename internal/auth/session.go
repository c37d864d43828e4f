package auth

import (
	"context"

	"travelJournal/models"
)

// Role is re-exported so guard call sites read naturally.
type Role = models.Role

// Claim keys carried in the session cookie.
const (
	KeyLoggedIn = "logged_in"
	KeyUserID   = "user_id"
	KeyUsername = "username"
	KeyRole     = "role"
)

// Session holds the facts established at login. The zero value is a guest.
// Role is a snapshot: a later role change or ban only shows up after the user
// logs in again.
type Session struct {
	LoggedIn bool
	UserID   int64
	Username string
	Role     Role
}

// NewSession builds the session for a freshly authenticated user.
func NewSession(u *models.User) Session {
	return Session{LoggedIn: true, UserID: u.ID, Username: u.Username, Role: u.Role}
}

// HasRole reports whether the session is logged in with one of roles.
func (s Session) HasRole(roles ...Role) bool {
	if !s.LoggedIn {
		return false
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

type sessionKey struct{}

// WithSession stores the session in context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored in ctx, or a guest session.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}
