package models

// Role decides a user's home page and access rights.
type Role string

const (
	RoleTraveller Role = "traveller"
	RoleEditor    Role = "editor"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTraveller, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// UserStatus marks whether an account may log in.
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusBanned
}

// User represents a registered account.
// It maps to the `users` table in SQLite. PasswordHash is never serialized.
type User struct {
	ID                  int64      `db:"user_id" json:"user_id"`
	Username            string     `db:"username" json:"username"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	FirstName           string     `db:"first_name" json:"first_name"`
	LastName            string     `db:"last_name" json:"last_name"`
	Location            string     `db:"location" json:"location"`
	ProfileImage        *string    `db:"profile_image" json:"profile_image,omitempty"`
	PersonalDescription *string    `db:"personal_description" json:"personal_description,omitempty"`
	Role                Role       `db:"role" json:"role"`
	Status              UserStatus `db:"status" json:"status"`
}

// FullName joins first and last name the way user search matches it.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the stored role is admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsBanned reports whether the account has been banned.
func (u *User) IsBanned() bool {
	return u != nil && u.Status == UserStatusBanned
}
