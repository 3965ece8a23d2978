package user

import (
	"github.com/kailas-cloud/estaterec/internal/db/sqldb"
	domuser "github.com/kailas-cloud/estaterec/internal/domain/user"
)

func userToRow(u domuser.User) sqldb.UserRow {
	return sqldb.UserRow{
		ID:           u.ID(),
		Username:     u.Username(),
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt(),
	}
}

func userFromRow(r sqldb.UserRow) domuser.User {
	return domuser.Reconstruct(r.ID, r.Username, r.PasswordHash, r.CreatedAt)
}
