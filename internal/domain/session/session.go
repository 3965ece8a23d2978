// Package session models a server-side login session bound to a signed token.
package session

import (
	"fmt"
	"time"
)

// Session is an issued login (immutable value object).
// Its ID is the token's jti claim; revoking the record invalidates the token.
type Session struct {
	id        string
	userID    uint
	username  string
	issuedAt  time.Time
	expiresAt time.Time
}

// New creates a session valid for ttl starting at now.
func New(id string, userID uint, username string, now time.Time, ttl time.Duration) (Session, error) {
	if id == "" {
		return Session{}, fmt.Errorf("session id is required")
	}
	if userID == 0 {
		return Session{}, fmt.Errorf("user id is required")
	}
	if ttl <= 0 {
		return Session{}, fmt.Errorf("session ttl must be positive")
	}
	return Session{
		id:        id,
		userID:    userID,
		username:  username,
		issuedAt:  now.UTC(),
		expiresAt: now.Add(ttl).UTC(),
	}, nil
}

// Reconstruct creates a Session without validation (storage hydration).
func Reconstruct(id string, userID uint, username string, issuedAt, expiresAt time.Time) Session {
	return Session{id: id, userID: userID, username: username, issuedAt: issuedAt, expiresAt: expiresAt}
}

// ID returns the session identifier.
func (s Session) ID() string { return s.id }

// UserID returns the authenticated user.
func (s Session) UserID() uint { return s.userID }

// Username returns the authenticated username.
func (s Session) Username() string { return s.username }

// IssuedAt returns the login time.
func (s Session) IssuedAt() time.Time { return s.issuedAt }

// ExpiresAt returns the end of validity.
func (s Session) ExpiresAt() time.Time { return s.expiresAt }

// TTL returns the remaining lifetime relative to now (zero once expired).
func (s Session) TTL(now time.Time) time.Duration {
	d := s.expiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.expiresAt) }

// Identity is the per-request authenticated principal.
type Identity struct {
	UserID    uint
	Username  string
	SessionID string
}
