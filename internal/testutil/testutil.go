package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc/metadata"

	"travelJournal/internal/db"
	"travelJournal/models"
	"travelJournal/repository"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The database is closed through t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so every pooled connection sees the same database.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// SeedUser creates an account with a real bcrypt hash of password and the given role.
func SeedUser(t *testing.T, users *repository.UserRepository, username, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	ctx := context.Background()
	u, err := users.Create(ctx, repository.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	if role != "" && role != u.Role {
		if err := users.UpdateRoleByUsername(ctx, username, role); err != nil {
			t.Fatalf("seed role %s: %v", username, err)
		}
		u.Role = role
	}
	return u
}

// SessionToken returns a signed session token with the claims the app reads.
func SessionToken(t *testing.T, secret string, userID int64, username string, role models.Role) string {
	t.Helper()
	claims := jwt.MapClaims{
		"logged_in": true,
		"user_id":   userID,
		"username":  username,
		"role":      string(role),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// SessionCookie wraps SessionToken in the session cookie.
func SessionCookie(t *testing.T, cookieName, secret string, userID int64, username string, role models.Role) *http.Cookie {
	t.Helper()
	return &http.Cookie{Name: cookieName, Value: SessionToken(t, secret, userID, username, role)}
}

// CtxWithBearer returns a context containing gRPC metadata Authorization header with the given token.
func CtxWithBearer(ctx context.Context, token string) context.Context {
	md := metadata.Pairs("authorization", "Bearer "+token)
	return metadata.NewIncomingContext(ctx, md)
}
