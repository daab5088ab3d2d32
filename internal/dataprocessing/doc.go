// Package dataprocessing turns located tables into the two reports casestat
// produces.
//
// # ER visits
//
// The ER path runs in four steps:
//
//	files.Table → Normalizer.NormalizeVisits → FilterVisits → RankVisits
//
// NormalizeVisits maps the four positional columns onto domain.VisitRecord and
// translates their labels. FilterVisits selects one gender and one age bucket.
// RankVisits sorts by patient count, derives each row's consultation rate
// relative to the Total row and keeps the top N diagnoses.
//
// Age-bucket labels come from a single translation.BucketNaming, so the label
// the normalizer writes for the open-ended bucket is the label the filter asks
// for.
//
// # Disease cases
//
//	files.Table → Normalizer.NormalizeCases → AggregateCases
//
// AggregateCases collapses all report dates to one "<min> to <max>" range and
// sums confirmed cases per country, code, source and range.
//
// # Errors
//
// Failures are *errors.AppError values: SCHEMA_MISMATCH for a table of the wrong
// shape, PARSING for unreadable counts or dates, VALIDATION for requests no
// bucket can satisfy and EMPTY_RESULT when nothing is left to rank. Labels that
// have no translation are not errors; they pass through unchanged and are
// reported as UNMAPPED_LABEL warnings on the VisitTable.
package dataprocessing
