package property

import (
	"context"

	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
)

// Repository lists the live listing generation.
type Repository interface {
	List(ctx context.Context) ([]domprop.Property, error)
	Count(ctx context.Context) (int64, error)
}
