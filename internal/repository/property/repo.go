package property

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kailas-cloud/estaterec/internal/db/sqldb"
	"github.com/kailas-cloud/estaterec/internal/domain"
	"github.com/kailas-cloud/estaterec/internal/domain/profile"
	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
)

// DefaultBatchSize is the insert batch size used when none is configured.
const DefaultBatchSize = 500

// Repo implements the property repositories of the ingest and recommend use cases.
type Repo struct {
	db        *gorm.DB
	batchSize int
}

// New creates a property repository. batchSize <= 0 selects DefaultBatchSize.
func New(db *gorm.DB, batchSize int) *Repo {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Repo{db: db, batchSize: batchSize}
}

// ReplaceAll swaps the live listing generation for props in one transaction.
// Feedback is removed with the old generation since property ids are reissued.
// On any error the previous generation is left untouched.
func (r *Repo) ReplaceAll(ctx context.Context, props []domprop.Property) (int, error) {
	now := time.Now().UTC()
	rows := make([]sqldb.PropertyRow, 0, len(props))
	for _, p := range props {
		rows = append(rows, propertyToRow(p, now))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&sqldb.FeedbackRow{}).Error; err != nil {
			return fmt.Errorf("clear feedback: %w", err)
		}
		if err := all.Delete(&sqldb.PropertyRow{}).Error; err != nil {
			return fmt.Errorf("clear properties: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, r.batchSize).Error; err != nil {
			return fmt.Errorf("insert properties: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, &domain.StorageError{Op: "replace properties", Err: err}
	}
	return len(rows), nil
}

// Filter returns every property satisfying all eight bounds, in id order.
func (r *Repo) Filter(ctx context.Context, t profile.Thresholds) ([]domprop.Property, error) {
	var rows []sqldb.PropertyRow
	err := r.db.WithContext(ctx).
		Where("price <= ?", t.Budget).
		Where("bedrooms >= ?", t.MinBedrooms).
		Where("bathrooms >= ?", t.MinBathrooms).
		Where("area >= ?", t.MinArea).
		Where("commute_time <= ?", t.MaxCommute).
		Where("distance_train <= ?", t.MaxDistanceTrain).
		Where("distance_grocery <= ?", t.MaxDistanceGrocery).
		Where("school_rating >= ?", t.MinSchoolRating).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, &domain.StorageError{Op: "filter properties", Err: err}
	}
	return propertiesFromRows(rows), nil
}

// ListByIDs returns the properties with the given ids in id order. Unknown ids are skipped.
func (r *Repo) ListByIDs(ctx context.Context, ids []uint) ([]domprop.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []sqldb.PropertyRow
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, &domain.StorageError{Op: "list properties", Err: err}
	}
	return propertiesFromRows(rows), nil
}

// List returns the live generation in id order.
func (r *Repo) List(ctx context.Context) ([]domprop.Property, error) {
	var rows []sqldb.PropertyRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, &domain.StorageError{Op: "list properties", Err: err}
	}
	return propertiesFromRows(rows), nil
}

// Get returns one property or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id uint) (domprop.Property, error) {
	var row sqldb.PropertyRow
	if err := r.db.WithContext(ctx).Take(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domprop.Property{}, domain.ErrNotFound
		}
		return domprop.Property{}, &domain.StorageError{Op: "get property", Err: err}
	}
	return propertyFromRow(row), nil
}

// Count returns the size of the live generation.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&sqldb.PropertyRow{}).Count(&n).Error; err != nil {
		return 0, &domain.StorageError{Op: "count properties", Err: err}
	}
	return n, nil
}
