package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/estaterec/internal/domain"
	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
)

// CSV headers of a listing file.
const (
	ColName            = "Property Name"
	ColLocation        = "Location"
	ColPrice           = "Price (SGD)"
	ColBedrooms        = "No. of Bedrooms"
	ColBathrooms       = "No. of Bathrooms"
	ColArea            = "House Area (SQM)"
	ColCommuteTime     = "Commute Time (mins)"
	ColSchoolRating    = "School Rating"
	ColDistanceTrain   = "Distance to Train Station (km)"
	ColDistanceGrocery = "Distance to Grocery Store (km)"
	ColImages          = "Property Images"
)

// RequiredColumns lists the headers every upload must carry, in report order.
var RequiredColumns = []string{
	ColName,
	ColLocation,
	ColPrice,
	ColBedrooms,
	ColBathrooms,
	ColArea,
	ColCommuteTime,
	ColSchoolRating,
	ColDistanceTrain,
	ColDistanceGrocery,
}

const bom = "\ufeff"

// Parse decodes a listing CSV. Column order is free, unknown columns are ignored
// and the Property Images column is optional.
func Parse(r io.Reader) ([]domprop.Property, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrEmptyFile
	}
	if err != nil {
		return nil, readError(err)
	}

	cols := indexHeader(header)
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.MissingColumnsError{Columns: missing}
	}

	var props []domprop.Property
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(err)
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		p, err := parseRow(rec, cols, line)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	if len(props) == 0 {
		return nil, domain.ErrEmptyFile
	}
	return props, nil
}

func readError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &domain.ParseError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("read csv: %w", err)
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		h = strings.TrimSpace(h)
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// row reads typed cells of one record and remembers the first failure.
type row struct {
	rec  []string
	cols map[string]int
	line int
	err  error
}

func (r *row) cell(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *row) fail(col string, err error) {
	if r.err == nil {
		r.err = &domain.ParseError{Line: r.line, Column: col, Err: err}
	}
}

func (r *row) text(col string, maxLen int) string {
	v := r.cell(col)
	if v == "" {
		r.fail(col, errors.New("value is required"))
	}
	r.limit(col, v, maxLen)
	return v
}

// limit rejects values longer than the storage column allows.
func (r *row) limit(col, v string, maxLen int) {
	if n := utf8.RuneCountInString(v); n > maxLen {
		r.fail(col, fmt.Errorf("value is %d characters long, at most %d allowed", n, maxLen))
	}
}

func (r *row) float(col string) float64 {
	v := r.cell(col)
	if v == "" {
		r.fail(col, errors.New("value is required"))
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(col, fmt.Errorf("%q is not a number", v))
		return 0
	}
	if f < 0 {
		r.fail(col, fmt.Errorf("%q must not be negative", v))
		return 0
	}
	return f
}

// integer accepts whole numbers written as floats ("3.0") since spreadsheet exports do that.
func (r *row) integer(col string) int {
	v := r.cell(col)
	f := r.float(col)
	if r.err != nil {
		return 0
	}
	if f != math.Trunc(f) || f > math.MaxInt32 {
		r.fail(col, fmt.Errorf("%q is not a whole number", v))
		return 0
	}
	return int(f)
}

func parseRow(rec []string, cols map[string]int, line int) (domprop.Property, error) {
	r := &row{rec: rec, cols: cols, line: line}
	a := domprop.Attributes{
		Name:            r.text(ColName, domprop.MaxNameLength),
		Location:        r.text(ColLocation, domprop.MaxLocationLength),
		Price:           r.float(ColPrice),
		Bedrooms:        r.integer(ColBedrooms),
		Bathrooms:       r.integer(ColBathrooms),
		Area:            r.float(ColArea),
		CommuteTime:     r.integer(ColCommuteTime),
		SchoolRating:    r.integer(ColSchoolRating),
		DistanceTrain:   r.float(ColDistanceTrain),
		DistanceGrocery: r.float(ColDistanceGrocery),
		Image:           r.cell(ColImages),
	}
	r.limit(ColImages, a.Image, domprop.MaxImageLength)
	if r.err != nil {
		return domprop.Property{}, r.err
	}
	p, err := domprop.New(a)
	if err != nil {
		return domprop.Property{}, &domain.ParseError{Line: line, Err: err}
	}
	return p, nil
}
