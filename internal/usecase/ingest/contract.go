package ingest

import (
	"context"

	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
)

// Repository swaps the live listing generation.
type Repository interface {
	ReplaceAll(ctx context.Context, props []domprop.Property) (int, error)
}
