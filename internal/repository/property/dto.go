package property

import (
	"time"

	"github.com/kailas-cloud/estaterec/internal/db/sqldb"
	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
)

func propertyToRow(p domprop.Property, now time.Time) sqldb.PropertyRow {
	a := p.Attributes()
	row := sqldb.PropertyRow{
		Name:            a.Name,
		Location:        a.Location,
		Price:           a.Price,
		Bedrooms:        a.Bedrooms,
		Bathrooms:       a.Bathrooms,
		Area:            a.Area,
		CommuteTime:     a.CommuteTime,
		SchoolRating:    a.SchoolRating,
		DistanceTrain:   a.DistanceTrain,
		DistanceGrocery: a.DistanceGrocery,
		CreatedAt:       now,
	}
	if a.Image != "" {
		img := a.Image
		row.Image = &img
	}
	return row
}

func propertyFromRow(r sqldb.PropertyRow) domprop.Property {
	a := domprop.Attributes{
		Name:            r.Name,
		Location:        r.Location,
		Price:           r.Price,
		Bedrooms:        r.Bedrooms,
		Bathrooms:       r.Bathrooms,
		Area:            r.Area,
		CommuteTime:     r.CommuteTime,
		SchoolRating:    r.SchoolRating,
		DistanceTrain:   r.DistanceTrain,
		DistanceGrocery: r.DistanceGrocery,
	}
	if r.Image != nil {
		a.Image = *r.Image
	}
	return domprop.Reconstruct(r.ID, a)
}

func propertiesFromRows(rows []sqldb.PropertyRow) []domprop.Property {
	out := make([]domprop.Property, 0, len(rows))
	for _, r := range rows {
		out = append(out, propertyFromRow(r))
	}
	return out
}
