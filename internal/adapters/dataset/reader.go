// Package dataset reads applicant tables from CSV and writes ranked results.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/scholar/internal/domain/model"
)

// Source dataset headers.
const (
	ColID                   = "id"
	ColHoursStudied         = "Hours Studied"
	ColPreviousScores       = "Previous Scores"
	ColExtracurricular      = "Extracurricular Activities"
	ColSleepHours           = "Sleep Hours"
	ColPracticePapers       = "Sample Question Papers Practiced"
	ColPerformanceIndex     = "Performance Index"
	ColFamilyIncome         = "family_income"
	ColParentEducation      = "parent_education"
	ColAttendancePercentage = "attendance_percentage"
	ColPreviousScholarship  = "previous_scholarship"
)

// Dataset is the content of one CSV file. Columns lists the normalized
// feature columns found in the header, if any; when it is empty the rows
// carry raw attributes only and need preprocessing.
type Dataset struct {
	Columns    model.FeatureSet
	Applicants []model.Applicant
}

// Table returns the dataset as a scoring table. Only meaningful when the
// file carried normalized feature columns.
func (d Dataset) Table() model.Table {
	return model.Table{Columns: d.Columns, Applicants: d.Applicants}
}

// Preprocessed reports whether the file carried any normalized features.
func (d Dataset) Preprocessed() bool {
	return d.Columns != 0
}

type numericCol struct {
	name string
	set  func(*model.Raw, float64)
}

var numericCols = []numericCol{
	{ColHoursStudied, func(r *model.Raw, v float64) { r.HoursStudied = v }},
	{ColPreviousScores, func(r *model.Raw, v float64) { r.PreviousScores = v }},
	{ColSleepHours, func(r *model.Raw, v float64) { r.SleepHours = v }},
	{ColPracticePapers, func(r *model.Raw, v float64) { r.PracticePapers = v }},
	{ColPerformanceIndex, func(r *model.Raw, v float64) { r.PerformanceIndex = v }},
	{ColFamilyIncome, func(r *model.Raw, v float64) { r.FamilyIncome = v }},
	{ColAttendancePercentage, func(r *model.Raw, v float64) { r.AttendancePercentage = v }},
}

type labelCol struct {
	name string
	set  func(*model.Raw, string)
}

var labelCols = []labelCol{
	{ColExtracurricular, func(r *model.Raw, v string) { r.Extracurricular = v }},
	{ColParentEducation, func(r *model.Raw, v string) { r.ParentEducation = v }},
	{ColPreviousScholarship, func(r *model.Raw, v string) { r.PreviousScholarship = v }},
}

// Read parses a CSV with a header row. Header names are matched
// case-insensitively; unknown columns are ignored and empty cells are
// missing values. A normalized feature column is present when the header
// declares it, even if every cell is empty. Non-finite numbers are
// rejected.
func Read(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	hdr, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Dataset{}, fmt.Errorf("%w: empty input", ErrMalformedCSV)
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: header: %w", ErrMalformedCSV, err)
	}
	idx := make(map[string]int, len(hdr))
	var out Dataset
	for i, h := range hdr {
		idx[normalizeHeader(h)] = i
		if f, ok := model.ParseFeature(h); ok {
			out.Columns = out.Columns.With(f)
		}
	}
	if !hasRaw(idx) && out.Columns == 0 {
		return Dataset{}, fmt.Errorf("%w: no recognised columns in header", ErrMalformedCSV)
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
		}

		a := model.Applicant{Raw: model.MissingRaw(), Features: model.MissingFeatures()}
		if i, ok := idx[normalizeHeader(ColID)]; ok {
			a.ID = strings.TrimSpace(rec[i])
		}
		for _, c := range numericCols {
			v, err := cell(rec, idx, c.name)
			if err != nil {
				return Dataset{}, fmt.Errorf("%w: line %d: %s: %w", ErrMalformedCSV, line, c.name, err)
			}
			c.set(&a.Raw, v)
		}
		for _, c := range labelCols {
			if i, ok := idx[normalizeHeader(c.name)]; ok {
				c.set(&a.Raw, strings.TrimSpace(rec[i]))
			}
		}
		for _, f := range model.AllFeatures() {
			v, err := cell(rec, idx, f.String())
			if err != nil {
				return Dataset{}, fmt.Errorf("%w: line %d: %s: %w", ErrMalformedCSV, line, f, err)
			}
			a.Features = a.Features.Set(f, v)
		}
		out.Applicants = append(out.Applicants, a)
	}
	return out, nil
}

func cell(rec []string, idx map[string]int, name string) (float64, error) {
	i, ok := idx[normalizeHeader(name)]
	if !ok {
		return math.NaN(), nil
	}
	s := strings.TrimSpace(rec[i])
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func hasRaw(idx map[string]int) bool {
	for _, c := range numericCols {
		if _, ok := idx[normalizeHeader(c.name)]; ok {
			return true
		}
	}
	for _, c := range labelCols {
		if _, ok := idx[normalizeHeader(c.name)]; ok {
			return true
		}
	}
	return false
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
