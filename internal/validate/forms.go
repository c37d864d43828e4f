package validate

import "context"

// Form field names used as keys in Errors and in templates.
const (
	FieldUsername            = "username"
	FieldEmail               = "email"
	FieldPassword            = "password"
	FieldConfirmPassword     = "confirm_password"
	FieldCurrentPassword     = "current_password"
	FieldNewPassword         = "new_password"
	FieldFirstName           = "first_name"
	FieldLastName            = "last_name"
	FieldLocation            = "location"
	FieldPersonalDescription = "personal_description"
)

// Errors collects one message per field so a form can show every problem at once.
type Errors map[string]string

// Add records msg for field; an empty msg is ignored.
func (e Errors) Add(field, msg string) {
	if msg != "" {
		e[field] = msg
	}
}

// Any reports whether at least one field failed.
func (e Errors) Any() bool { return len(e) > 0 }

// Get returns the message for field, or "".
func (e Errors) Get(field string) string { return e[field] }

type SignupInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Location        string
}

// Signup validates a registration form. Names and location are optional and
// only checked when provided.
func Signup(ctx context.Context, lookup UserLookup, in SignupInput) (Errors, error) {
	errs := Errors{}
	msg, err := Username(ctx, lookup, in.Username)
	if err != nil {
		return nil, err
	}
	errs.Add(FieldUsername, msg)

	msg, err = Email(ctx, lookup, in.Email, EmailScope{Operation: OpSignup})
	if err != nil {
		return nil, err
	}
	errs.Add(FieldEmail, msg)

	errs.Add(FieldPassword, Password(in.Password))
	errs.Add(FieldConfirmPassword, RePassword(in.Password, in.ConfirmPassword))
	if in.FirstName != "" {
		errs.Add(FieldFirstName, FirstName(in.FirstName))
	}
	if in.LastName != "" {
		errs.Add(FieldLastName, LastName(in.LastName))
	}
	if in.Location != "" {
		errs.Add(FieldLocation, Location(in.Location))
	}
	return errs, nil
}

type ProfileInput struct {
	UserID              int64
	Email               string
	FirstName           string
	LastName            string
	Location            string
	PersonalDescription string
}

// Profile validates a profile edit. The owner's current email is exempt from
// the uniqueness check.
func Profile(ctx context.Context, lookup UserLookup, in ProfileInput) (Errors, error) {
	errs := Errors{}
	msg, err := Email(ctx, lookup, in.Email, EmailScope{Operation: OpProfile, UserID: in.UserID})
	if err != nil {
		return nil, err
	}
	errs.Add(FieldEmail, msg)
	errs.Add(FieldFirstName, FirstName(in.FirstName))
	errs.Add(FieldLastName, LastName(in.LastName))
	errs.Add(FieldLocation, Location(in.Location))
	errs.Add(FieldPersonalDescription, PersonalDescription(in.PersonalDescription))
	return errs, nil
}

// NewPassword validates the new password pair of the change-password form.
func NewPassword(newPassword, confirm string) Errors {
	errs := Errors{}
	errs.Add(FieldNewPassword, Password(newPassword))
	errs.Add(FieldConfirmPassword, RePassword(newPassword, confirm))
	return errs
}
