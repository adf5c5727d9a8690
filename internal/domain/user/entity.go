// Package user defines the user domain entity
package user

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account that can author recipes
type User struct {
	id           uuid.UUID
	username     string
	email        string
	passwordHash string
	bio          string
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
	lastLoginAt  *time.Time
}

var (
	// ErrInvalidUsername is returned for usernames outside [a-zA-Z0-9_.-]{3,30}
	ErrInvalidUsername = errors.New("username must be 3-30 characters of letters, digits, '_', '.' or '-'")
	// ErrInvalidEmail is returned for malformed email addresses
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrPasswordTooShort is returned for passwords under 8 characters
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	// ErrWrongPassword is returned when a password check fails
	ErrWrongPassword = errors.New("wrong password")
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)

// NewUser creates a new user with validation, hashing the password
func NewUser(username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if !usernameRe.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	now := time.Now()
	return &User{
		id:           uuid.New(),
		username:     username,
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: string(hashed),
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstitute rebuilds a User from persisted state
func Reconstitute(
	id uuid.UUID,
	username, email, passwordHash, bio string,
	isActive bool,
	createdAt, updatedAt time.Time,
	lastLoginAt *time.Time,
) *User {
	return &User{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		bio:          bio,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		lastLoginAt:  lastLoginAt,
	}
}

// ID returns the user's ID
func (u *User) ID() uuid.UUID { return u.id }

// Username returns the unique username recipes are attributed to
func (u *User) Username() string { return u.username }

// Email returns the user's email
func (u *User) Email() string { return u.email }

// PasswordHash returns the bcrypt hash of the user's password
func (u *User) PasswordHash() string { return u.passwordHash }

// Bio returns the profile bio shown on the user's page
func (u *User) Bio() string { return u.bio }

// IsActive reports whether the account is enabled
func (u *User) IsActive() bool { return u.isActive }

// CreatedAt returns when the account was created
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns when the account was last updated
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// LastLoginAt returns the time of the last successful login, if any
func (u *User) LastLoginAt() *time.Time { return u.lastLoginAt }

// SetBio updates the profile bio
func (u *User) SetBio(bio string) {
	u.bio = bio
	u.updatedAt = time.Now()
}

// CheckPassword verifies a candidate password against the stored hash
func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.lastLoginAt = &now
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateEmail(email string) error {
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}
