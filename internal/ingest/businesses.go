package ingest

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-signals/internal/model"
)

// ReviewSeparator splits multiple reviews packed into one spreadsheet cell.
const ReviewSeparator = "||"

// Column names recognised in tabular lead lists.
const (
	ColName              = "name"
	ColWebsite           = "website"
	ColNiche             = "niche"
	ColReviewCount       = "review_count"
	ColRating            = "rating"
	ColHoursOpenPerWeek  = "hours_open_per_week"
	ColAverageOrderValue = "average_order_value"
	ColHTMLPath          = "html_path"
	ColReviews           = "reviews"
)

// aliases maps common export headings onto canonical column names.
var aliases = map[string]string{
	"business_name": ColName,
	"company":       ColName,
	"url":           ColWebsite,
	"category":      ColNiche,
	"reviews_count": ColReviewCount,
	"user_ratings":  ColReviewCount,
	"hours":         ColHoursOpenPerWeek,
	"aov":           ColAverageOrderValue,
}

type columns map[string]int

func mapColumns(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, h := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		if _, dup := cols[key]; dup || key == "" {
			continue
		}
		cols[key] = i
	}
	if _, ok := cols[ColName]; !ok {
		return nil, eris.Errorf("ingest: missing required column %q", ColName)
	}
	return cols, nil
}

func (c columns) get(row Row, col string) string {
	i, ok := c[col]
	if !ok || i >= len(row.Fields) {
		return ""
	}
	return row.Fields[i]
}

// BusinessesFromRows maps tabular records onto businesses using the header. Unknown
// columns are ignored; rows without a name are skipped.
func BusinessesFromRows(header []string, rows []Row) ([]model.Business, error) {
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	out := make([]model.Business, 0, len(rows))
	for _, row := range rows {
		b, ok, err := cols.business(row)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c columns) business(row Row) (model.Business, bool, error) {
	b := model.Business{
		Name:     c.get(row, ColName),
		Website:  c.get(row, ColWebsite),
		Niche:    c.get(row, ColNiche),
		HTMLPath: c.get(row, ColHTMLPath),
	}
	if b.Name == "" {
		return b, false, nil
	}

	var err error
	if b.ReviewCount, err = c.count(row, ColReviewCount); err != nil {
		return b, false, err
	}
	if b.Rating, err = c.float(row, ColRating); err != nil {
		return b, false, err
	}
	if b.HoursOpenPerWeek, err = c.float(row, ColHoursOpenPerWeek); err != nil {
		return b, false, err
	}
	if b.AverageOrderValue, err = c.float(row, ColAverageOrderValue); err != nil {
		return b, false, err
	}

	for _, r := range strings.Split(c.get(row, ColReviews), ReviewSeparator) {
		if r = strings.TrimSpace(r); r != "" {
			b.Reviews = append(b.Reviews, r)
		}
	}
	return b, true, nil
}

// float parses a numeric cell, tolerating currency symbols and thousands separators.
// Blank cells yield nil.
func (c columns) float(row Row, col string) (*float64, error) {
	raw := c.get(row, col)
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	if cleaned == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, eris.Errorf("ingest: line %d column %q: invalid number %q", row.Line, col, raw)
	}
	return &v, nil
}

// count parses a whole, non-negative tally that fits in 32 bits. Blank cells yield 0.
func (c columns) count(row Row, col string) (int, error) {
	v, err := c.float(row, col)
	if err != nil || v == nil {
		return 0, err
	}
	if *v < 0 || *v > math.MaxInt32 || *v != math.Trunc(*v) {
		return 0, eris.Errorf("ingest: line %d column %q: invalid count %q", row.Line, col, c.get(row, col))
	}
	return int(*v), nil
}

// LoadBusinesses reads a lead list, choosing the format from the file extension:
// .csv, .xlsx or .json (an array of business objects). Relative html_path values are
// resolved against the list's directory.
func LoadBusinesses(ctx context.Context, path string) ([]model.Business, error) {
	var (
		businesses []model.Business
		err        error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		businesses, err = loadCSV(ctx, path)
	case ".xlsx":
		var header []string
		var rows []Row
		header, rows, err = ReadXLSX(path, XLSXOptions{})
		if err == nil {
			businesses, err = BusinessesFromRows(header, rows)
		}
	case ".json":
		businesses, err = loadJSON(ctx, path)
	default:
		return nil, eris.Errorf("ingest: unsupported input format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: load %s", path)
	}

	dir := filepath.Dir(path)
	for i := range businesses {
		if p := businesses[i].HTMLPath; p != "" && !filepath.IsAbs(p) {
			businesses[i].HTMLPath = filepath.Join(dir, p)
		}
	}
	return businesses, nil
}

func loadCSV(ctx context.Context, path string) ([]model.Business, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open csv")
	}
	defer f.Close() //nolint:errcheck

	header, rowCh, errCh, err := ReadCSV(ctx, f, CSVOptions{LazyQuotes: true})
	if err != nil {
		return nil, err
	}
	rows, err := Drain(rowCh, errCh)
	if err != nil {
		return nil, err
	}
	return BusinessesFromRows(header, rows)
}

func loadJSON(ctx context.Context, path string) ([]model.Business, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open json")
	}
	defer f.Close() //nolint:errcheck

	outCh, errCh := DecodeJSONArray[model.Business](ctx, f)
	return Drain(outCh, errCh)
}
