package feedback

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kailas-cloud/estaterec/internal/db/sqldb"
	"github.com/kailas-cloud/estaterec/internal/domain"
	domfb "github.com/kailas-cloud/estaterec/internal/domain/feedback"
)

// Repo implements usecase/feedback.Repository on gorm.
type Repo struct {
	db *gorm.DB
}

// New creates a feedback repository.
func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Upsert records f, replacing the label of an existing (user, property) pair.
// An unknown property yields domain.ErrInvalidReference.
func (r *Repo) Upsert(ctx context.Context, f domfb.Feedback) (domfb.Feedback, error) {
	row := feedbackToRow(f)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&sqldb.PropertyRow{}).Where("id = ?", row.PropertyID).Count(&n).Error; err != nil {
			return &domain.StorageError{Op: "check property", Err: err}
		}
		if n == 0 {
			return domain.ErrInvalidReference
		}

		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "property_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"label", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return domain.ErrInvalidReference
			}
			return &domain.StorageError{Op: "upsert feedback", Err: err}
		}

		// Re-read: on conflict the returned id and created_at are not the stored ones.
		if err := tx.Where("user_id = ? AND property_id = ?", row.UserID, row.PropertyID).Take(&row).Error; err != nil {
			return &domain.StorageError{Op: "read feedback", Err: err}
		}
		return nil
	})
	if err != nil {
		return domfb.Feedback{}, err
	}
	return feedbackFromRow(row), nil
}

// Get returns the label userID gave propertyID, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, userID, propertyID uint) (domfb.Feedback, error) {
	var row sqldb.FeedbackRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domfb.Feedback{}, domain.ErrNotFound
		}
		return domfb.Feedback{}, &domain.StorageError{Op: "get feedback", Err: err}
	}
	return feedbackFromRow(row), nil
}

// ListByUser returns all feedback by userID ordered by property id.
func (r *Repo) ListByUser(ctx context.Context, userID uint) ([]domfb.Feedback, error) {
	var rows []sqldb.FeedbackRow
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("property_id").Find(&rows).Error
	if err != nil {
		return nil, &domain.StorageError{Op: "list feedback", Err: err}
	}
	out := make([]domfb.Feedback, 0, len(rows))
	for _, row := range rows {
		out = append(out, feedbackFromRow(row))
	}
	return out, nil
}

// LikedPropertyIDs returns the ids userID labelled like, ascending.
func (r *Repo) LikedPropertyIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&sqldb.FeedbackRow{}).
		Where("user_id = ? AND label = ?", userID, string(domfb.Like)).
		Order("property_id").
		Pluck("property_id", &ids).Error
	if err != nil {
		return nil, &domain.StorageError{Op: "list liked", Err: err}
	}
	return ids, nil
}
