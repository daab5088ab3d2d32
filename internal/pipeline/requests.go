package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "casestat/internal/errors"
	"casestat/internal/translation"
	"casestat/pkg/contracts/domain"
)

// ERRequest describes one ER ranking run.
type ERRequest struct {
	// Input is a table file or a directory holding exactly one.
	Input string `validate:"required"`
	// Output is the CSV path. Empty means "<Gender>_ER_visits.csv".
	Output string
	Gender string `validate:"required,oneof=Females Males Total"`
	// AgeRange selects an age bucket; nil selects Total.
	AgeRange *domain.AgeRange `validate:"omitempty"`
	// Rank is the number of diagnoses kept. Zero uses the configured default.
	Rank int `validate:"gte=0"`
	// ChartPath, when set, receives an XLSX workbook with a column chart.
	ChartPath string `validate:"omitempty,endswith=.xlsx"`
	// Title overrides the default chart title.
	Title string
}

// CasesRequest describes one disease-case summary run.
type CasesRequest struct {
	Input  string `validate:"required"`
	Output string `validate:"required"`
}

var validate = validator.New()

// validateRequest checks req against its validate tags.
func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		appErr := apperrors.NewAppValidationError("invalid request")
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
			}
			appErr = appErr.WithContext("fields", strings.Join(fields, ", "))
		}
		appErr.Cause = err
		return appErr
	}
	return nil
}

// DefaultEROutput is the output file name used when an ERRequest names none.
func DefaultEROutput(gender string) string {
	return fmt.Sprintf("%s_ER_visits.csv", gender)
}

// ParseAgeRange parses "lo-hi" or "lo~hi" (e.g. "15-24"). An empty string
// returns nil, which selects the Total bucket. A single number "85" is read as
// (85, 85).
func ParseAgeRange(s string) (*domain.AgeRange, error) {
	s = translation.Fold(s)
	if s == "" {
		return nil, nil
	}

	lo, hi, found := strings.Cut(s, "-")
	if !found {
		lo, hi, found = strings.Cut(s, "~")
	}
	if !found {
		hi = lo
	}

	low, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("invalid age range %q", s)).
			WithContext("value", s)
	}
	high, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("invalid age range %q", s)).
			WithContext("value", s)
	}
	return &domain.AgeRange{Low: low, High: high}, nil
}
