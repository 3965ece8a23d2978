package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kailas-cloud/estaterec/internal/db"
	"github.com/kailas-cloud/estaterec/internal/domain"
	domsession "github.com/kailas-cloud/estaterec/internal/domain/session"
)

const keyPrefix = "estaterec:session:"

// store is the consumer interface for session operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Store implements usecase/auth.SessionStore on top of a key-value DB.
// Records expire with the session, so an expired login never lingers.
type Store struct {
	store store
	now   func() time.Time
}

// New creates a session store.
func New(s store) *Store {
	return &Store{store: s, now: time.Now}
}

// Save persists s until its expiry.
func (s *Store) Save(ctx context.Context, sess domsession.Session) error {
	ttl := sess.TTL(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", sess.ID())
	}
	data, err := json.Marshal(sessionToDTO(sess))
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.store.SetWithTTL(ctx, key(sess.ID()), data, ttl); err != nil {
		return fmt.Errorf("session SET %s: %w", sess.ID(), err)
	}
	return nil
}

// Get loads a live session. Missing or expired sessions yield domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (domsession.Session, error) {
	data, err := s.store.Get(ctx, key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsession.Session{}, domain.ErrNotFound
		}
		return domsession.Session{}, fmt.Errorf("session GET %s: %w", id, err)
	}
	var dto sessionDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domsession.Session{}, fmt.Errorf("session GET %s decode: %w", id, err)
	}
	sess := sessionFromDTO(dto)
	if sess.Expired(s.now()) {
		return domsession.Session{}, domain.ErrNotFound
	}
	return sess, nil
}

// Delete revokes a session. Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.store.Del(ctx, key(id)); err != nil && !errors.Is(err, db.ErrKeyNotFound) {
		return fmt.Errorf("session DEL %s: %w", id, err)
	}
	return nil
}

func key(id string) string { return keyPrefix + id }
