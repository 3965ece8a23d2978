package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/estaterec/internal/domain"
	"github.com/kailas-cloud/estaterec/internal/logger"
	"github.com/kailas-cloud/estaterec/internal/metrics"
)

// Service loads listing CSVs into storage.
type Service struct {
	repo Repository
}

// New creates an ingest service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upload parses r and replaces every stored property with its rows.
// Nothing is written unless the whole file parses.
func (s *Service) Upload(ctx context.Context, r io.Reader) (int, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	props, err := Parse(r)
	if err != nil {
		metrics.IngestUploadsTotal.WithLabelValues(uploadResult(err)).Inc()
		return 0, err
	}

	n, err := s.repo.ReplaceAll(ctx, props)
	if err != nil {
		metrics.IngestUploadsTotal.WithLabelValues(metrics.ResultError).Inc()
		return 0, fmt.Errorf("upload: %w", err)
	}

	metrics.IngestUploadsTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.IngestRowsTotal.Add(float64(n))
	log.Info("properties replaced",
		zap.Int("count", n),
		zap.Duration("duration", time.Since(start)),
	)
	return n, nil
}

// LoadFile uploads the CSV at path. Used to seed storage at startup.
func (s *Service) LoadFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return s.Upload(ctx, f)
}

func uploadResult(err error) string {
	if errors.Is(err, domain.ErrMissingColumns) || errors.Is(err, domain.ErrParse) || errors.Is(err, domain.ErrEmptyFile) {
		return metrics.ResultRejected
	}
	return metrics.ResultError
}
