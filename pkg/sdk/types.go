package estaterec

import (
	"time"

	domuser "github.com/kailas-cloud/estaterec/internal/domain/user"
)

// Label is a feedback value.
type Label string

// Feedback labels.
const (
	Like    Label = "like"
	Dislike Label = "dislike"
)

// Property is a listing returned by the API.
type Property struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Location        string  `json:"location"`
	Price           float64 `json:"price"`
	Bedrooms        int     `json:"bedrooms"`
	Bathrooms       int     `json:"bathrooms"`
	Area            float64 `json:"area"`
	CommuteTime     int     `json:"commute_time"`
	SchoolRating    int     `json:"school_rating"`
	DistanceTrain   float64 `json:"distance_train"`
	DistanceGrocery float64 `json:"distance_grocery"`
	Image           *string `json:"property_images"`
}

// Profile is a recommendation request. All thresholds are inclusive.
type Profile struct {
	PropertyType            string  `json:"property_type,omitempty"`
	Budget                  float64 `json:"budget"`
	MinBedrooms             float64 `json:"min_bedrooms"`
	MinBathrooms            float64 `json:"min_bathrooms"`
	MinSqft                 float64 `json:"min_sqft"`
	MaxCommute              float64 `json:"max_commute"`
	MaxDistanceTrainStation float64 `json:"max_distance_train_station"`
	MaxDistanceGrocery      float64 `json:"max_distance_grocery"`
	MinSchoolRating         float64 `json:"min_school_rating"`
	// ExcludeLiked drops previously liked listings that do not match.
	ExcludeLiked bool `json:"-"`
}

// Feedback is a stored label.
type Feedback struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	PropertyID uint      `json:"property_id"`
	Label      Label     `json:"feedback"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Session is the result of a successful login.
type Session struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Health is the server health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ValidatePassword applies the server's password policy locally,
// returning the first failed rule.
func ValidatePassword(password string) error {
	return domuser.ValidatePassword(password)
}
