package recommend

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/estaterec/internal/domain/profile"
	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
	"github.com/kailas-cloud/estaterec/internal/metrics"
)

// Request is one recommendation query.
type Request struct {
	UserID       uint
	Profile      profile.Profile
	IncludeLiked bool
}

// Service matches listings against a profile.
type Service struct {
	props PropertyRepository
	likes LikeSource
}

// New creates a recommendation service.
func New(props PropertyRepository, likes LikeSource) *Service {
	return &Service{props: props, likes: likes}
}

// Recommend returns every property satisfying the profile in storage order,
// followed by the caller's liked properties that did not already match.
// No match is an empty, non-nil slice.
func (s *Service) Recommend(ctx context.Context, req Request) ([]domprop.Property, error) {
	matched, err := s.props.Filter(ctx, req.Profile.Thresholds())
	if err != nil {
		return nil, fmt.Errorf("filter properties: %w", err)
	}
	out := make([]domprop.Property, 0, len(matched))
	out = append(out, matched...)

	if req.IncludeLiked && req.UserID != 0 {
		liked, err := s.liked(ctx, req.UserID, matched)
		if err != nil {
			return nil, err
		}
		out = append(out, liked...)
	}

	metrics.RecommendationResults.Observe(float64(len(out)))
	return out, nil
}

func (s *Service) liked(ctx context.Context, userID uint, matched []domprop.Property) ([]domprop.Property, error) {
	ids, err := s.likes.LikedPropertyIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("liked properties: %w", err)
	}
	seen := make(map[uint]struct{}, len(matched))
	for _, p := range matched {
		seen[p.ID()] = struct{}{}
	}
	var extra []uint
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			extra = append(extra, id)
			seen[id] = struct{}{}
		}
	}
	if len(extra) == 0 {
		return nil, nil
	}
	props, err := s.props.ListByIDs(ctx, extra)
	if err != nil {
		return nil, fmt.Errorf("load liked properties: %w", err)
	}
	return props, nil
}
