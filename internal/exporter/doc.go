// Package exporter writes casestat reports as CSV.
//
// CSVWriter is the core writer: headers, append and streaming modes, and an
// optional UTF-8 BOM so spreadsheet applications detect the encoding. Both
// reports are written with the BOM.
//
// VisitExporter writes the ranked ER report:
//
//	Gender,Age,Diseases,Patients,Consultation rate(%)
//
// CaseExporter streams the aggregated case report:
//
//	CountryExp,CountryCode,Source,DateRep,ConfCases
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("")
//	err := exporter.NewVisitExporter(writer).ExportVisits("Females_ER_visits.csv", ranking.Rows)
package exporter
