package feedback

import (
	"context"

	domfb "github.com/kailas-cloud/estaterec/internal/domain/feedback"
)

// Repository defines the storage contract for feedback.
type Repository interface {
	Upsert(ctx context.Context, f domfb.Feedback) (domfb.Feedback, error)
	Get(ctx context.Context, userID, propertyID uint) (domfb.Feedback, error)
	ListByUser(ctx context.Context, userID uint) ([]domfb.Feedback, error)
}
