package recommend

import (
	"context"

	"github.com/kailas-cloud/estaterec/internal/domain/profile"
	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
)

// PropertyRepository runs the range filter and fetches liked listings.
type PropertyRepository interface {
	Filter(ctx context.Context, t profile.Thresholds) ([]domprop.Property, error)
	ListByIDs(ctx context.Context, ids []uint) ([]domprop.Property, error)
}

// LikeSource lists a user's liked property ids.
type LikeSource interface {
	LikedPropertyIDs(ctx context.Context, userID uint) ([]uint, error)
}
