package property

import (
	"context"
	"fmt"

	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
)

// Service exposes read access to the current listings.
type Service struct {
	repo Repository
}

// New creates a property service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all current properties in storage order.
func (s *Service) List(ctx context.Context) ([]domprop.Property, error) {
	props, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	if props == nil {
		props = []domprop.Property{}
	}
	return props, nil
}

// Count returns the number of current properties.
func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return n, nil
}
