package session

import (
	"time"

	domsession "github.com/kailas-cloud/estaterec/internal/domain/session"
)

type sessionDTO struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func sessionToDTO(s domsession.Session) sessionDTO {
	return sessionDTO{
		ID:        s.ID(),
		UserID:    s.UserID(),
		Username:  s.Username(),
		IssuedAt:  s.IssuedAt(),
		ExpiresAt: s.ExpiresAt(),
	}
}

func sessionFromDTO(d sessionDTO) domsession.Session {
	return domsession.Reconstruct(d.ID, d.UserID, d.Username, d.IssuedAt, d.ExpiresAt)
}
