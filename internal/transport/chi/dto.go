package chi

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	domfb "github.com/kailas-cloud/estaterec/internal/domain/feedback"
	"github.com/kailas-cloud/estaterec/internal/domain/profile"
	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
	"github.com/kailas-cloud/estaterec/internal/domain/session"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginResponse struct {
	Message  string    `json:"message"`
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	Token    string    `json:"token"`
	Expires  time.Time `json:"expires_at"`
}

type uploadResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// userRef is the legacy user_id body field: a username or a numeric id.
type userRef struct {
	raw string
	set bool
}

func (u *userRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		u.raw, u.set = s, s != ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user_id must be a username or an id")
	}
	u.raw, u.set = n.String(), true
	return nil
}

// matches reports whether the reference names id by username or numeric id.
func (u userRef) matches(id session.Identity) bool {
	if !u.set {
		return true
	}
	if u.raw == id.Username {
		return true
	}
	n, err := strconv.ParseUint(u.raw, 10, 64)
	return err == nil && uint(n) == id.UserID
}

type recommendRequest struct {
	UserID                  userRef  `json:"user_id"`
	PropertyType            string   `json:"property_type"`
	Budget                  *float64 `json:"budget" validate:"required,gte=0"`
	MinBedrooms             *float64 `json:"min_bedrooms" validate:"required,gte=0"`
	MinBathrooms            *float64 `json:"min_bathrooms" validate:"required,gte=0"`
	MinSqft                 *float64 `json:"min_sqft" validate:"required,gte=0"`
	MaxCommute              *float64 `json:"max_commute" validate:"required,gte=0"`
	MaxDistanceTrainStation *float64 `json:"max_distance_train_station" validate:"required,gte=0"`
	MaxDistanceGrocery      *float64 `json:"max_distance_grocery" validate:"required,gte=0"`
	MinSchoolRating         *float64 `json:"min_school_rating" validate:"required,gte=0"`
	IncludeLiked            *bool    `json:"include_liked"`
}

// toProfile converts the request. Integer columns compare against whole numbers:
// a lower bound of 2.5 bedrooms means 3, an upper bound of 30.5 minutes means 30.
func (r recommendRequest) toProfile() (profile.Profile, error) {
	t := profile.Thresholds{
		Budget:             *r.Budget,
		MinBedrooms:        ceilInt(*r.MinBedrooms),
		MinBathrooms:       ceilInt(*r.MinBathrooms),
		MinArea:            *r.MinSqft,
		MaxCommute:         floorInt(*r.MaxCommute),
		MaxDistanceTrain:   *r.MaxDistanceTrainStation,
		MaxDistanceGrocery: *r.MaxDistanceGrocery,
		MinSchoolRating:    ceilInt(*r.MinSchoolRating),
	}
	return profile.New(t, r.PropertyType)
}

func (r recommendRequest) includeLiked() bool {
	return r.IncludeLiked == nil || *r.IncludeLiked
}

func ceilInt(f float64) int  { return clampInt(math.Ceil(f)) }
func floorInt(f float64) int { return clampInt(math.Floor(f)) }

func clampInt(f float64) int {
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

type feedbackRequest struct {
	UserID     userRef `json:"user_id"`
	PropertyID *uint   `json:"property_id" validate:"required"`
	Feedback   string  `json:"feedback" validate:"required"`
}

type propertyResponse struct {
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
	PropertyImages  *string `json:"property_images"`
}

func propertyToResponse(p domprop.Property) propertyResponse {
	resp := propertyResponse{
		ID:              p.ID(),
		Name:            p.Name(),
		Location:        p.Location(),
		Price:           p.Price(),
		Bedrooms:        p.Bedrooms(),
		Bathrooms:       p.Bathrooms(),
		Area:            p.Area(),
		CommuteTime:     p.CommuteTime(),
		SchoolRating:    p.SchoolRating(),
		DistanceTrain:   p.DistanceTrain(),
		DistanceGrocery: p.DistanceGrocery(),
	}
	if img := p.Image(); img != "" {
		resp.PropertyImages = &img
	}
	return resp
}

func propertiesToResponse(props []domprop.Property) []propertyResponse {
	out := make([]propertyResponse, 0, len(props))
	for _, p := range props {
		out = append(out, propertyToResponse(p))
	}
	return out
}

type feedbackResponse struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	PropertyID uint      `json:"property_id"`
	Feedback   string    `json:"feedback"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func feedbackToResponse(f domfb.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:         f.ID(),
		UserID:     f.UserID(),
		PropertyID: f.PropertyID(),
		Feedback:   string(f.Label()),
		CreatedAt:  f.CreatedAt(),
		UpdatedAt:  f.UpdatedAt(),
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
