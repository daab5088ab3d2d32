package dataprocessing

import (
	"fmt"
	"sort"

	apperrors "casestat/internal/errors"
	"casestat/pkg/contracts/domain"
)

// DefaultRank is the number of diagnoses kept when RankOptions.N is zero.
const DefaultRank = 10

// RankOptions configures RankVisits.
type RankOptions struct {
	// N is the number of rows returned after the Total row. Zero means DefaultRank.
	N int
	// TotalLabel, when set, is the diagnosis the largest row must carry before it
	// is dropped as the Total aggregate.
	TotalLabel string
}

// Ranking is the output of RankVisits.
type Ranking struct {
	// Total is the dropped aggregate row, with its rate of 100.
	Total domain.VisitRecord
	// Rows are the ranked diagnoses, largest first.
	Rows []domain.VisitRecord
}

// RankVisits computes consultation rates and returns the top diagnoses.
//
// Rows are sorted by patient count, descending, ties kept in input order. Every
// rate is count / max * 100 where max is taken over the whole filtered set,
// i.e. from the Total row, which sorts first and is then dropped. Rows 1..N of
// the sorted set are returned; rows with no patients are left out since they
// have no consultation rate to show.
func RankVisits(filtered []domain.VisitRecord, opts RankOptions) (*Ranking, error) {
	n := opts.N
	if n == 0 {
		n = DefaultRank
	}
	if n < 0 {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("rank must be positive, got %d", n)).
			WithContext("rank", n)
	}
	if len(filtered) == 0 {
		return nil, apperrors.NewEmptyResultError("no rows match the requested gender and age bucket").
			WithContext("rows", 0)
	}

	sorted := make([]domain.VisitRecord, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PatientCount > sorted[j].PatientCount
	})

	top := sorted[0].PatientCount
	if top <= 0 {
		return nil, apperrors.NewEmptyResultError("largest patient count is zero; consultation rate is undefined").
			WithContext("rows", len(sorted))
	}
	if opts.TotalLabel != "" && sorted[0].Diagnosis != opts.TotalLabel {
		return nil, apperrors.NewEmptyResultError(
			fmt.Sprintf("largest row is %q, not the %q aggregate; refusing to drop it", sorted[0].Diagnosis, opts.TotalLabel)).
			WithContext("reason", "total_row_mismatch").
			WithContext("top_diagnosis", sorted[0].Diagnosis)
	}

	for i := range sorted {
		sorted[i].ConsultationRate = float64(sorted[i].PatientCount) / float64(top) * 100
	}

	rows := make([]domain.VisitRecord, 0, n)
	for _, r := range sorted[1:] {
		if len(rows) == n {
			break
		}
		if r.PatientCount == 0 {
			continue
		}
		rows = append(rows, r)
	}

	return &Ranking{Total: sorted[0], Rows: rows}, nil
}
