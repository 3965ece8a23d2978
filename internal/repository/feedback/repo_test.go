package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/estaterec/internal/db/sqldb"
	"github.com/kailas-cloud/estaterec/internal/domain"
	domfb "github.com/kailas-cloud/estaterec/internal/domain/feedback"
)

type fixture struct {
	repo   *Repo
	userID uint
	props  []uint
}

func setup(t *testing.T, nProps int) fixture {
	t.Helper()
	gdb := sqldb.OpenForTest(t)
	user := sqldb.UserRow{Username: "alice", PasswordHash: "x", CreatedAt: time.Now()}
	require.NoError(t, gdb.Create(&user).Error)

	f := fixture{repo: New(gdb), userID: user.ID}
	for i := 0; i < nProps; i++ {
		p := sqldb.PropertyRow{Name: "P", Location: "L", CreatedAt: time.Now()}
		require.NoError(t, gdb.Create(&p).Error)
		f.props = append(f.props, p.ID)
	}
	return f
}

func mustFeedback(t *testing.T, userID, propertyID uint, l domfb.Label) domfb.Feedback {
	t.Helper()
	fb, err := domfb.New(userID, propertyID, l)
	require.NoError(t, err)
	return fb
}

func TestUpsert_InsertThenReplace(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()

	first, err := f.repo.Upsert(ctx, mustFeedback(t, f.userID, f.props[0], domfb.Like))
	require.NoError(t, err)
	assert.NotZero(t, first.ID())
	assert.Equal(t, domfb.Like, first.Label())

	second, err := f.repo.Upsert(ctx, mustFeedback(t, f.userID, f.props[0], domfb.Dislike))
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, domfb.Dislike, second.Label())

	all, err := f.repo.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domfb.Dislike, all[0].Label())
}

func TestUpsert_UnknownProperty(t *testing.T) {
	f := setup(t, 0)

	_, err := f.repo.Upsert(context.Background(), mustFeedback(t, f.userID, 404, domfb.Like))
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestGet(t *testing.T) {
	f := setup(t, 2)
	ctx := context.Background()
	_, err := f.repo.Upsert(ctx, mustFeedback(t, f.userID, f.props[1], domfb.Like))
	require.NoError(t, err)

	got, err := f.repo.Get(ctx, f.userID, f.props[1])
	require.NoError(t, err)
	assert.Equal(t, f.props[1], got.PropertyID())

	_, err = f.repo.Get(ctx, f.userID, f.props[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLikedPropertyIDs(t *testing.T) {
	f := setup(t, 3)
	ctx := context.Background()
	for i, l := range []domfb.Label{domfb.Like, domfb.Dislike, domfb.Like} {
		_, err := f.repo.Upsert(ctx, mustFeedback(t, f.userID, f.props[i], l))
		require.NoError(t, err)
	}

	ids, err := f.repo.LikedPropertyIDs(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.props[0], f.props[2]}, ids)

	none, err := f.repo.LikedPropertyIDs(ctx, f.userID+1)
	require.NoError(t, err)
	assert.Empty(t, none)
}
