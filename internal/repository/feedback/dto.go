package feedback

import (
	"github.com/kailas-cloud/estaterec/internal/db/sqldb"
	domfb "github.com/kailas-cloud/estaterec/internal/domain/feedback"
)

func feedbackToRow(f domfb.Feedback) sqldb.FeedbackRow {
	return sqldb.FeedbackRow{
		UserID:     f.UserID(),
		PropertyID: f.PropertyID(),
		Label:      string(f.Label()),
		CreatedAt:  f.CreatedAt(),
		UpdatedAt:  f.UpdatedAt(),
	}
}

func feedbackFromRow(r sqldb.FeedbackRow) domfb.Feedback {
	return domfb.Reconstruct(r.ID, r.UserID, r.PropertyID, domfb.Label(r.Label), r.CreatedAt, r.UpdatedAt)
}
