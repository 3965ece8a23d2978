package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/estaterec/internal/domain"
)

const header = "Property Name,Location,Price (SGD),No. of Bedrooms,No. of Bathrooms,House Area (SQM)," +
	"Commute Time (mins),School Rating,Distance to Train Station (km),Distance to Grocery Store (km),Property Images\n"

func TestParse_Valid(t *testing.T) {
	in := header +
		"The Sail,Marina Bay,\"1,500,000\",3,2,110.5,25,4,0.4,0.2,https://img/1.jpg\n" +
		"Bishan Loft,Bishan,900000,2.0,1,70,35,5,1.2,0.5,\n"

	props, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}
	p := props[0]
	if p.Name() != "The Sail" || p.Price() != 1500000 || p.Bedrooms() != 3 || p.Area() != 110.5 {
		t.Errorf("unexpected first row: %+v", p.Attributes())
	}
	if p.Image() != "https://img/1.jpg" {
		t.Errorf("image = %q", p.Image())
	}
	if props[1].Bedrooms() != 2 || props[1].Image() != "" {
		t.Errorf("unexpected second row: %+v", props[1].Attributes())
	}
}

func TestParse_FreeOrderBOMAndExtraColumns(t *testing.T) {
	in := "\ufeff School Rating ,Extra,Property Name,Location,Price (SGD),No. of Bedrooms,No. of Bathrooms," +
		"House Area (SQM),Commute Time (mins),Distance to Train Station (km),Distance to Grocery Store (km)\n" +
		"3,ignored,Loft,Yishun,500000,1,1,45,50,2,1\n"

	props, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(props) != 1 || props[0].SchoolRating() != 3 || props[0].Name() != "Loft" {
		t.Fatalf("unexpected result: %+v", props)
	}
	if props[0].Image() != "" {
		t.Errorf("expected no image without the images column, got %q", props[0].Image())
	}
}

func TestParse_MissingColumns(t *testing.T) {
	in := "Property Name,Location,Price (SGD)\nA,B,1\n"

	_, err := Parse(strings.NewReader(in))
	if !errors.Is(err, domain.ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	var mc *domain.MissingColumnsError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingColumnsError, got %T", err)
	}
	if len(mc.Columns) != 7 || mc.Columns[0] != ColBedrooms {
		t.Errorf("unexpected missing columns: %v", mc.Columns)
	}
}

func TestParse_Empty(t *testing.T) {
	for name, in := range map[string]string{
		"no bytes":    "",
		"header only": header,
		"blank rows":  header + ",,,,,,,,,,\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(in)); !errors.Is(err, domain.ErrEmptyFile) {
				t.Errorf("expected ErrEmptyFile, got %v", err)
			}
		})
	}
}

func TestParse_CellErrors(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
	}{
		{"bad price", "A,B,cheap,3,2,80,20,4,1,1,", ColPrice},
		{"fractional bedrooms", "A,B,1,2.5,2,80,20,4,1,1,", ColBedrooms},
		{"negative commute", "A,B,1,2,2,80,-5,4,1,1,", ColCommuteTime},
		{"missing name", ",B,1,2,2,80,20,4,1,1,", ColName},
		{"missing distance", "A,B,1,2,2,80,20,4,,1,", ColDistanceTrain},
		{"infinite area", "A,B,1,2,2,Inf,20,4,1,1,", ColArea},
		{"long name", strings.Repeat("n", 151) + ",B,1,2,2,80,20,4,1,1,", ColName},
		{"long location", "A," + strings.Repeat("l", 151) + ",1,2,2,80,20,4,1,1,", ColLocation},
		{"long image", "A,B,1,2,2,80,20,4,1,1," + strings.Repeat("i", 251), ColImages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(header + "X,Y,1,1,1,1,1,1,1,1,\n" + tt.row + "\n"))
			if !errors.Is(err, domain.ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var pe *domain.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %T", err)
			}
			if pe.Line != 3 {
				t.Errorf("line = %d, want 3", pe.Line)
			}
			if pe.Column != tt.column {
				t.Errorf("column = %q, want %q", pe.Column, tt.column)
			}
		})
	}
}

func TestParse_TextAtColumnLimits(t *testing.T) {
	name := strings.Repeat("é", 150)
	image := strings.Repeat("i", 250)
	props, err := Parse(strings.NewReader(header + name + ",B,1,2,2,80,20,4,1,1," + image + "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if props[0].Name() != name || props[0].Image() != image {
		t.Errorf("unexpected row: %+v", props[0].Attributes())
	}
}

func TestParse_MalformedQuoting(t *testing.T) {
	_, err := Parse(strings.NewReader(header + "\"unterminated,B,1,1,1,1,1,1,1,1,\n"))
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}
