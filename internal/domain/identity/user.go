// Package identity holds user accounts and their profiles.
package identity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/storefront/backend/internal/domain/shared"
)

const (
	maxUsernameLength = 150
	maxNameLength     = 150
	maxEmailLength    = 254
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ErrInvalidCredentials is the single answer to any failed login
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS",
	"There was an error logging in, please try again")

// ErrIncorrectPassword is returned when a password change names the wrong
// current password
var ErrIncorrectPassword = shared.NewDomainError("INVALID_PASSWORD",
	"Your old password was entered incorrectly. Please enter it again.")

// User is an identity store account
type User struct {
	shared.BaseEntity
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsStaff      bool
	IsActive     bool
	LastLogin    *time.Time
}

// NewUser creates an active, non-staff user with a hashed password.
// Password policy is checked by the caller so every problem can be reported.
func NewUser(username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}

	hash, err := shared.HashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		IsActive:     true,
	}, nil
}

// SetNames sets first and last name
func (u *User) SetNames(first, last string) error {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if utf8.RuneCountInString(first) > maxNameLength || utf8.RuneCountInString(last) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Names cannot exceed 150 characters")
	}
	u.FirstName = first
	u.LastName = last
	u.Touch()
	return nil
}

// UpdateAccount replaces the editable account fields
func (u *User) UpdateAccount(username, first, last, email string) error {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := u.SetNames(first, last); err != nil {
		return err
	}
	u.Username = username
	u.Email = strings.TrimSpace(email)
	return nil
}

// ChangePassword replaces the password after checking the current one
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return ErrIncorrectPassword
	}
	return u.SetPassword(next)
}

// SetPassword hashes and stores a new password without checking the old one
func (u *User) SetPassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	hash, err := shared.HashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return shared.CheckPassword(u.PasswordHash, password)
}

// CanLogin reports whether the account may authenticate
func (u *User) CanLogin() bool {
	return u.IsActive
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin(at time.Time) {
	u.LastLogin = &at
}

// FullName joins first and last name, falling back to the username
func (u *User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// ValidateUsername checks the username charset and length
func ValidateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "This field is required.")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return shared.NewDomainError("INVALID_USERNAME", "Ensure this value has at most 150 characters.")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME",
			"Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	return nil
}

// ValidateEmail accepts a blank email or a single bare address
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if len(email) > maxEmailLength {
		return shared.NewDomainError("INVALID_EMAIL", "Ensure this value has at most 254 characters.")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return shared.NewDomainError("INVALID_EMAIL", "Enter a valid email address.")
	}
	return nil
}
