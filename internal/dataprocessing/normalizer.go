package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	apperrors "casestat/internal/errors"
	"casestat/internal/files"
	"casestat/internal/translation"
	"casestat/pkg/contracts/domain"
)

// ERColumns is the canonical ER schema, by position.
var ERColumns = []string{"Gender", "Age", "Diseases", "Patients"}

// CaseColumns are the disease-case columns the aggregator needs. Any other
// column of the export is carried in the input but ignored.
var CaseColumns = []string{"CountryExp", "CountryCode", "Source", "DateRep", "ConfCases"}

// VisitTable is the normalized ER table plus the labels that passed through untranslated.
type VisitTable struct {
	Records  []domain.VisitRecord
	Unmapped []translation.Unmapped
	Warnings []*apperrors.AppError
}

// Normalizer maps raw tables onto the canonical schemas.
type Normalizer struct {
	naming translation.BucketNaming
	logger *slog.Logger
}

// NewNormalizer creates a normalizer that names age buckets with naming.
func NewNormalizer(naming translation.BucketNaming, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{naming: naming, logger: logger}
}

// NormalizeVisits renames the four ER columns by position and translates the
// gender, age and diagnosis columns. Header text is not inspected; a table that
// is not exactly four columns wide is a SCHEMA_MISMATCH.
func (n *Normalizer) NormalizeVisits(ctx context.Context, table *files.Table) (*VisitTable, error) {
	if table.Width() != len(ERColumns) {
		return nil, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("ER table must have %d columns (%s)", len(ERColumns), strings.Join(ERColumns, ", ")),
			len(ERColumns), table.Width()).
			WithContext("header", table.Header).
			WithContext("source", table.Source)
	}

	rec := translation.NewRecorder()
	records := make([]domain.VisitRecord, 0, table.Len())

	for i, row := range table.Rows {
		line := i + 2
		if len(row) > len(ERColumns) {
			return nil, apperrors.NewSchemaMismatchError(
				fmt.Sprintf("row %d has %d cells", line, len(row)),
				len(ERColumns), len(row)).
				WithContext("line", line)
		}

		count, err := parseCount(cell(row, 3))
		if err != nil {
			return nil, apperrors.NewParsingError("invalid patient count", err).
				WithContext("line", line).
				WithContext("value", cell(row, 3))
		}

		age, known := n.naming.CanonicalAge(cell(row, 1))
		if !known {
			rec.Miss(translation.Age.Name(), age, line)
		}

		records = append(records, domain.VisitRecord{
			Gender:       rec.Translate(translation.Gender, translation.Clean(cell(row, 0)), line),
			AgeBucket:    age,
			Diagnosis:    rec.Translate(translation.Diagnosis, translation.Clean(cell(row, 2)), line),
			PatientCount: count,
		})
	}

	result := &VisitTable{
		Records:  records,
		Unmapped: rec.Unmapped(),
		Warnings: rec.Warnings(),
	}

	for _, u := range result.Unmapped {
		n.logger.WarnContext(ctx, "Label passed through untranslated",
			slog.String("error_type", string(apperrors.ErrTypeUnmappedLabel)),
			slog.String("column", u.Column),
			slog.String("value", u.Value),
			slog.Int("count", u.Count),
			slog.Int("first_line", u.FirstRow))
	}

	n.logger.InfoContext(ctx, "Normalized ER table",
		slog.Int("rows", len(records)),
		slog.Int("unmapped_labels", len(result.Unmapped)))

	return result, nil
}

// NormalizeCases extracts the case columns by header name.
func (n *Normalizer) NormalizeCases(ctx context.Context, table *files.Table) ([]domain.CaseRecord, error) {
	idx := make([]int, len(CaseColumns))
	for i, name := range CaseColumns {
		idx[i] = table.ColumnIndex(name)
		if idx[i] < 0 {
			return nil, apperrors.NewSchemaMismatchError(
				fmt.Sprintf("case table is missing column %s", name),
				len(CaseColumns), table.Width()).
				WithContext("missing_column", name).
				WithContext("header", table.Header).
				WithContext("source", table.Source)
		}
	}

	records := make([]domain.CaseRecord, 0, table.Len())
	for i, row := range table.Rows {
		line := i + 2
		cases, err := parseCount(cell(row, idx[4]))
		if err != nil {
			return nil, apperrors.NewParsingError("invalid confirmed case count", err).
				WithContext("line", line).
				WithContext("value", cell(row, idx[4]))
		}
		records = append(records, domain.CaseRecord{
			Country:        strings.TrimSpace(cell(row, idx[0])),
			CountryCode:    strings.TrimSpace(cell(row, idx[1])),
			Source:         strings.TrimSpace(cell(row, idx[2])),
			DateRange:      strings.TrimSpace(cell(row, idx[3])),
			ConfirmedCases: cases,
		})
	}

	n.logger.InfoContext(ctx, "Normalized case table",
		slog.Int("rows", len(records)),
		slog.Int("passthrough_columns", table.Width()-len(CaseColumns)))

	return records, nil
}

// cell returns row[i], or "" when a short row (trailing empty cells trimmed by
// the reader) does not reach column i.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// parseCount parses a non-negative count. Thousands separators are accepted,
// an empty cell counts as zero, and integral floats ("12.0") are accepted.
func parseCount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, err
		}
		v = int64(f)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative count %d", v)
	}
	return v, nil
}
