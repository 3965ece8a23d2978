package user

import (
	"fmt"
	"strings"
	"time"
)

// MaxUsernameLength bounds the username column.
const MaxUsernameLength = 150

// User is a registered account (immutable value object).
// The password hash is the only credential material it carries.
type User struct {
	id           uint
	username     string
	passwordHash string
	createdAt    time.Time
}

// NormalizeUsername trims surrounding whitespace and enforces 1-150 chars.
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("username is required")
	}
	if len(username) > MaxUsernameLength {
		return "", fmt.Errorf("username too long (max %d)", MaxUsernameLength)
	}
	return username, nil
}

// New validates and creates a User that has not been persisted yet.
func New(username, passwordHash string) (User, error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return User{}, err
	}
	if passwordHash == "" {
		return User{}, fmt.Errorf("password hash is required")
	}
	return User{
		username:     name,
		passwordHash: passwordHash,
		createdAt:    time.Now().UTC(),
	}, nil
}

// Reconstruct creates a User without validation (storage hydration).
func Reconstruct(id uint, username, passwordHash string, createdAt time.Time) User {
	return User{id: id, username: username, passwordHash: passwordHash, createdAt: createdAt}
}

// ID returns the storage identifier (zero before persistence).
func (u User) ID() uint { return u.id }

// Username returns the unique login name.
func (u User) Username() string { return u.username }

// PasswordHash returns the salted password hash.
func (u User) PasswordHash() string { return u.passwordHash }

// CreatedAt returns the registration time.
func (u User) CreatedAt() time.Time { return u.createdAt }
