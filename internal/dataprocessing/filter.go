package dataprocessing

import (
	"fmt"

	apperrors "casestat/internal/errors"
	"casestat/internal/translation"
	"casestat/pkg/contracts/domain"
)

// BucketLabel returns the age-bucket label a request selects.
//
// nil selects the Total bucket. A range below the open floor selects "<low>~<high>".
// A range starting at the floor selects the open-ended bucket regardless of its
// upper bound, so (85, 85) never looks for a literal "85~85".
func BucketLabel(ageRange *domain.AgeRange, naming translation.BucketNaming) (string, error) {
	if ageRange == nil {
		return domain.TotalLabel, nil
	}
	if ageRange.Low < 0 || ageRange.High < ageRange.Low {
		return "", apperrors.NewAppValidationError(
			fmt.Sprintf("invalid age range %d~%d", ageRange.Low, ageRange.High)).
			WithContext("low", ageRange.Low).
			WithContext("high", ageRange.High)
	}

	floor := naming.OpenFloor
	if floor <= 0 {
		floor = translation.DefaultOpenFloor
	}

	switch {
	case ageRange.Low < floor:
		return naming.RangeLabel(ageRange.Low, ageRange.High), nil
	case ageRange.Low == floor:
		return naming.OpenLabel(), nil
	default:
		return "", apperrors.NewAppValidationError(
			fmt.Sprintf("no age bucket starts at %d; the oldest bucket starts at %d", ageRange.Low, floor)).
			WithContext("low", ageRange.Low).
			WithContext("open_floor", floor)
	}
}

// FilterVisits keeps the records in the requested age bucket whose gender equals
// gender exactly. Input order is preserved. An empty result is not an error here.
func FilterVisits(records []domain.VisitRecord, gender string, ageRange *domain.AgeRange, naming translation.BucketNaming) ([]domain.VisitRecord, error) {
	bucket, err := BucketLabel(ageRange, naming)
	if err != nil {
		return nil, err
	}

	out := make([]domain.VisitRecord, 0)
	for _, r := range records {
		if r.AgeBucket != bucket {
			continue
		}
		if r.Gender != gender {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
