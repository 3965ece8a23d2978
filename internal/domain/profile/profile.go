// Package profile models the user-supplied thresholds that define an acceptable property.
package profile

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/estaterec/internal/domain/property"
)

// Thresholds holds the eight filter bounds.
// Max* and Budget are inclusive upper bounds, Min* inclusive lower bounds.
type Thresholds struct {
	Budget             float64
	MinBedrooms        int
	MinBathrooms       int
	MinArea            float64
	MaxCommute         int
	MaxDistanceTrain   float64
	MaxDistanceGrocery float64
	MinSchoolRating    int
}

// Profile is a validated filter profile (immutable value object).
type Profile struct {
	t            Thresholds
	propertyType string
}

// New validates thresholds. Every bound must be finite and non-negative.
// propertyType is carried for display; listings have no type, so it never filters.
func New(t Thresholds, propertyType string) (Profile, error) {
	floats := []struct {
		name string
		v    float64
	}{
		{"budget", t.Budget},
		{"min_sqft", t.MinArea},
		{"max_distance_train_station", t.MaxDistanceTrain},
		{"max_distance_grocery", t.MaxDistanceGrocery},
	}
	for _, f := range floats {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return Profile{}, fmt.Errorf("%s must be a finite number", f.name)
		}
		if f.v < 0 {
			return Profile{}, fmt.Errorf("%s must not be negative", f.name)
		}
	}
	ints := []struct {
		name string
		v    int
	}{
		{"min_bedrooms", t.MinBedrooms},
		{"min_bathrooms", t.MinBathrooms},
		{"max_commute", t.MaxCommute},
		{"min_school_rating", t.MinSchoolRating},
	}
	for _, i := range ints {
		if i.v < 0 {
			return Profile{}, fmt.Errorf("%s must not be negative", i.name)
		}
	}
	return Profile{t: t, propertyType: propertyType}, nil
}

// Thresholds returns the filter bounds.
func (p Profile) Thresholds() Thresholds { return p.t }

// PropertyType returns the requested property type, if any.
func (p Profile) PropertyType() string { return p.propertyType }

// Matches reports whether all eight inequalities hold for prop.
func (p Profile) Matches(prop property.Property) bool {
	t := p.t
	return prop.Price() <= t.Budget &&
		prop.Bedrooms() >= t.MinBedrooms &&
		prop.Bathrooms() >= t.MinBathrooms &&
		prop.Area() >= t.MinArea &&
		prop.CommuteTime() <= t.MaxCommute &&
		prop.DistanceTrain() <= t.MaxDistanceTrain &&
		prop.DistanceGrocery() <= t.MaxDistanceGrocery &&
		prop.SchoolRating() >= t.MinSchoolRating
}
