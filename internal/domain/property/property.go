package property

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Text limits in characters. They match the column sizes in sqldb.PropertyRow.
const (
	MaxNameLength     = 150
	MaxLocationLength = 150
	MaxImageLength    = 250
)

// Attributes are the structured fields of a listing as ingested.
type Attributes struct {
	Name            string
	Location        string
	Price           float64
	Bedrooms        int
	Bathrooms       int
	Area            float64
	CommuteTime     int
	SchoolRating    int
	DistanceTrain   float64
	DistanceGrocery float64
	Image           string
}

// Property is a listed real-estate unit (immutable value object).
type Property struct {
	id    uint
	attrs Attributes
}

// New validates attributes and creates a Property that has not been persisted yet.
// Name and location are required and text fields have length limits;
// numeric attributes must be finite and non-negative.
func New(a Attributes) (Property, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Location = strings.TrimSpace(a.Location)
	a.Image = strings.TrimSpace(a.Image)

	if a.Name == "" {
		return Property{}, fmt.Errorf("property name is required")
	}
	if a.Location == "" {
		return Property{}, fmt.Errorf("property location is required")
	}
	texts := []struct {
		name string
		v    string
		max  int
	}{
		{"property name", a.Name, MaxNameLength},
		{"location", a.Location, MaxLocationLength},
		{"property images", a.Image, MaxImageLength},
	}
	for _, txt := range texts {
		if n := utf8.RuneCountInString(txt.v); n > txt.max {
			return Property{}, fmt.Errorf("%s must be at most %d characters, got %d", txt.name, txt.max, n)
		}
	}
	floats := []struct {
		name string
		v    float64
	}{
		{"price", a.Price},
		{"area", a.Area},
		{"distance to train", a.DistanceTrain},
		{"distance to grocery", a.DistanceGrocery},
	}
	for _, f := range floats {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return Property{}, fmt.Errorf("%s must be a finite number", f.name)
		}
		if f.v < 0 {
			return Property{}, fmt.Errorf("%s must not be negative", f.name)
		}
	}
	ints := []struct {
		name string
		v    int
	}{
		{"bedrooms", a.Bedrooms},
		{"bathrooms", a.Bathrooms},
		{"commute time", a.CommuteTime},
		{"school rating", a.SchoolRating},
	}
	for _, i := range ints {
		if i.v < 0 {
			return Property{}, fmt.Errorf("%s must not be negative", i.name)
		}
	}
	return Property{attrs: a}, nil
}

// Reconstruct creates a Property without validation (storage hydration).
func Reconstruct(id uint, a Attributes) Property {
	return Property{id: id, attrs: a}
}

// ID returns the storage identifier (zero before persistence).
func (p Property) ID() uint { return p.id }

// Attributes returns a copy of the listing fields.
func (p Property) Attributes() Attributes { return p.attrs }

// Name returns the listing name.
func (p Property) Name() string { return p.attrs.Name }

// Location returns the listing location.
func (p Property) Location() string { return p.attrs.Location }

// Price returns the asking price in SGD.
func (p Property) Price() float64 { return p.attrs.Price }

// Bedrooms returns the bedroom count.
func (p Property) Bedrooms() int { return p.attrs.Bedrooms }

// Bathrooms returns the bathroom count.
func (p Property) Bathrooms() int { return p.attrs.Bathrooms }

// Area returns the floor area in square metres.
func (p Property) Area() float64 { return p.attrs.Area }

// CommuteTime returns the commute time in minutes.
func (p Property) CommuteTime() int { return p.attrs.CommuteTime }

// SchoolRating returns the nearby school rating.
func (p Property) SchoolRating() int { return p.attrs.SchoolRating }

// DistanceTrain returns the distance to the nearest train station in km.
func (p Property) DistanceTrain() float64 { return p.attrs.DistanceTrain }

// DistanceGrocery returns the distance to the nearest grocery store in km.
func (p Property) DistanceGrocery() float64 { return p.attrs.DistanceGrocery }

// Image returns the optional image reference ("" when absent).
func (p Property) Image() string { return p.attrs.Image }
