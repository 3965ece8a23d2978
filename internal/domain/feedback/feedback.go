package feedback

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/estaterec/internal/domain"
)

// Label is a like/dislike signal.
type Label string

const (
	// Like marks a property the user wants to see again.
	Like Label = "like"
	// Dislike marks a property the user rejected.
	Dislike Label = "dislike"
)

// IsValid checks if the label is supported.
func (l Label) IsValid() bool { return l == Like || l == Dislike }

// legacyPrefixes are the emoji older clients put before the label word.
var legacyPrefixes = map[string]Label{
	"👍": Like,
	"👎": Dislike,
}

// ParseLabel accepts "like"/"dislike" in any case, optionally preceded by the
// matching legacy emoji ("👍 Like", "👎 Dislike"). Anything else is rejected.
func ParseLabel(s string) (Label, error) {
	words := strings.Fields(s)
	switch len(words) {
	case 0:
		return "", fmt.Errorf("%w: label is required", domain.ErrInvalidFeedback)
	case 1:
		if l := Label(strings.ToLower(words[0])); l.IsValid() {
			return l, nil
		}
	case 2:
		prefix, ok := legacyPrefixes[words[0]]
		if l := Label(strings.ToLower(words[1])); ok && l == prefix {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want like or dislike)", domain.ErrInvalidFeedback, s)
}

// Feedback is one user's label on one property (immutable value object).
type Feedback struct {
	id         uint
	userID     uint
	propertyID uint
	label      Label
	createdAt  time.Time
	updatedAt  time.Time
}

// New validates and creates a Feedback that has not been persisted yet.
func New(userID, propertyID uint, label Label) (Feedback, error) {
	if userID == 0 {
		return Feedback{}, fmt.Errorf("user id is required")
	}
	if propertyID == 0 {
		return Feedback{}, fmt.Errorf("%w: property id is required", domain.ErrInvalidReference)
	}
	if !label.IsValid() {
		return Feedback{}, fmt.Errorf("%w: %q", domain.ErrInvalidFeedback, label)
	}
	now := time.Now().UTC()
	return Feedback{userID: userID, propertyID: propertyID, label: label, createdAt: now, updatedAt: now}, nil
}

// Reconstruct creates a Feedback without validation (storage hydration).
func Reconstruct(id, userID, propertyID uint, label Label, createdAt, updatedAt time.Time) Feedback {
	return Feedback{
		id:         id,
		userID:     userID,
		propertyID: propertyID,
		label:      label,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the storage identifier.
func (f Feedback) ID() uint { return f.id }

// UserID returns the author of the feedback.
func (f Feedback) UserID() uint { return f.userID }

// PropertyID returns the rated property.
func (f Feedback) PropertyID() uint { return f.propertyID }

// Label returns like or dislike.
func (f Feedback) Label() Label { return f.label }

// CreatedAt returns when the pair was first rated.
func (f Feedback) CreatedAt() time.Time { return f.createdAt }

// UpdatedAt returns when the label last changed.
func (f Feedback) UpdatedAt() time.Time { return f.updatedAt }
