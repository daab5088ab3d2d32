package dataprocessing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "casestat/internal/errors"
	"casestat/pkg/contracts/domain"
)

// DateLayouts are the report-date formats AggregateCases accepts, tried in order.
// Slash dates are read month first ("05/06/2022" is May 6). A day-first export
// needs Cases.DateLayout set to "02/01/2006".
var DateLayouts = []string{
	domain.DateRangeLayout,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

const rangeSeparator = " to "

// ParseReportDate parses a single report date. The extra layouts are tried
// before DateLayouts.
func ParseReportDate(s string, extra ...string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := make([]string, 0, len(extra)+len(DateLayouts))
	layouts = append(append(layouts, extra...), DateLayouts...)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// dateBounds returns the dates a DateRep cell contributes: one date for a raw
// report date, both ends for an already-collapsed "<min> to <max>" label.
func dateBounds(s string, layouts []string) (time.Time, time.Time, error) {
	if lo, hi, ok := strings.Cut(s, rangeSeparator); ok {
		from, err := ParseReportDate(lo, layouts...)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to, err := ParseReportDate(hi, layouts...)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return from, to, nil
	}
	t, err := ParseReportDate(s, layouts...)
	return t, t, err
}

// AggregateCases collapses every report date to the table-wide date range and
// sums confirmed cases per (country, code, source, range).
//
// The table is first stable-sorted by country, descending. Groups are emitted in
// ascending key order (country, code, source, range), as a group-by over that
// table lists them. Running the result through AggregateCases again yields the
// same rows. Extra date layouts are tried before DateLayouts.
func AggregateCases(records []domain.CaseRecord, layouts ...string) ([]domain.CaseRecord, error) {
	if len(records) == 0 {
		return []domain.CaseRecord{}, nil
	}

	sorted := make([]domain.CaseRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Country > sorted[j].Country
	})

	var earliest, latest time.Time
	for i, r := range sorted {
		lo, hi, err := dateBounds(r.DateRange, layouts)
		if err != nil {
			return nil, apperrors.NewParsingError("invalid report date", err).
				WithContext("value", r.DateRange).
				WithContext("country", r.Country)
		}
		if i == 0 || lo.Before(earliest) {
			earliest = lo
		}
		if i == 0 || hi.After(latest) {
			latest = hi
		}
	}
	label := domain.FormatDateRange(earliest, latest)

	index := make(map[domain.AggregationKey]int)
	out := make([]domain.CaseRecord, 0)
	for _, r := range sorted {
		r.DateRange = label
		key := r.Key()
		if i, ok := index[key]; ok {
			out[i].ConfirmedCases += r.ConfirmedCases
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key().Less(out[j].Key())
	})
	return out, nil
}
