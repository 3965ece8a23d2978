package feedback

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domfb "github.com/kailas-cloud/estaterec/internal/domain/feedback"
	"github.com/kailas-cloud/estaterec/internal/logger"
)

// Service records and reads like/dislike labels.
type Service struct {
	repo Repository
}

// New creates a feedback service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit upserts userID's label for propertyID. The latest label wins.
func (s *Service) Submit(ctx context.Context, userID, propertyID uint, label string) (domfb.Feedback, error) {
	l, err := domfb.ParseLabel(label)
	if err != nil {
		return domfb.Feedback{}, err
	}
	f, err := domfb.New(userID, propertyID, l)
	if err != nil {
		return domfb.Feedback{}, err
	}
	saved, err := s.repo.Upsert(ctx, f)
	if err != nil {
		return domfb.Feedback{}, fmt.Errorf("save feedback: %w", err)
	}
	logger.FromContext(ctx).Debug("feedback recorded",
		zap.Uint("property_id", propertyID),
		zap.String("label", string(l)),
	)
	return saved, nil
}

// Get returns userID's label for propertyID.
func (s *Service) Get(ctx context.Context, userID, propertyID uint) (domfb.Feedback, error) {
	f, err := s.repo.Get(ctx, userID, propertyID)
	if err != nil {
		return domfb.Feedback{}, fmt.Errorf("get feedback: %w", err)
	}
	return f, nil
}

// List returns every label userID has given.
func (s *Service) List(ctx context.Context, userID uint) ([]domfb.Feedback, error) {
	fs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return fs, nil
}
