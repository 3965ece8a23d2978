package auth

import (
	"context"

	domsession "github.com/kailas-cloud/estaterec/internal/domain/session"
	domuser "github.com/kailas-cloud/estaterec/internal/domain/user"
)

// UserRepository defines the storage contract for accounts.
type UserRepository interface {
	Create(ctx context.Context, u domuser.User) (domuser.User, error)
	GetByUsername(ctx context.Context, username string) (domuser.User, error)
}

// SessionStore keeps live sessions. Get returns domain.ErrNotFound for unknown or expired ids.
type SessionStore interface {
	Save(ctx context.Context, s domsession.Session) error
	Get(ctx context.Context, id string) (domsession.Session, error)
	Delete(ctx context.Context, id string) error
}
