package domain

import "time"

// DateRangeLayout is the day format used inside a collapsed date range.
const DateRangeLayout = "2006-01-02"

// CaseRecord is one row of a disease-case export after column lookup.
// Before aggregation DateRange holds the raw report date.
type CaseRecord struct {
	Country        string `json:"country" csv:"CountryExp" validate:"required"`
	CountryCode    string `json:"country_code" csv:"CountryCode"`
	Source         string `json:"source" csv:"Source"`
	DateRange      string `json:"date_range" csv:"DateRep"`
	ConfirmedCases int64  `json:"confirmed_cases" csv:"ConfCases"`
}

// Key returns the aggregation key of the record.
func (r CaseRecord) Key() AggregationKey {
	return AggregationKey{
		Country:     r.Country,
		CountryCode: r.CountryCode,
		Source:      r.Source,
		DateRange:   r.DateRange,
	}
}

// AggregationKey identifies a group whose confirmed cases are summed.
type AggregationKey struct {
	Country     string
	CountryCode string
	Source      string
	DateRange   string
}

// Less orders keys by country, then code, source and date range.
func (k AggregationKey) Less(o AggregationKey) bool {
	if k.Country != o.Country {
		return k.Country < o.Country
	}
	if k.CountryCode != o.CountryCode {
		return k.CountryCode < o.CountryCode
	}
	if k.Source != o.Source {
		return k.Source < o.Source
	}
	return k.DateRange < o.DateRange
}

// FormatDateRange renders the "<min> to <max>" label shared by every aggregated row.
func FormatDateRange(from, to time.Time) string {
	return from.Format(DateRangeLayout) + " to " + to.Format(DateRangeLayout)
}
