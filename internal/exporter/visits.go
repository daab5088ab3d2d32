package exporter

import (
	"casestat/pkg/contracts/domain"
)

// VisitHeaders is the header of the ranked ER report.
var VisitHeaders = []string{"Gender", "Age", "Diseases", "Patients", "Consultation rate(%)"}

// VisitExporter writes ranked ER rows
type VisitExporter struct {
	csvWriter *CSVWriter
}

// NewVisitExporter creates a new ER report exporter
func NewVisitExporter(writer *CSVWriter) *VisitExporter {
	return &VisitExporter{csvWriter: writer}
}

// ExportVisits writes rows, in the given order, to a BOM-prefixed CSV file.
func (v *VisitExporter) ExportVisits(outputPath string, rows []domain.VisitRecord) error {
	csvRecords := make([][]string, 0, len(rows))
	for _, row := range rows {
		csvRecords = append(csvRecords, visitToCSVRow(row))
	}
	return v.csvWriter.WriteSimpleCSV(outputPath, VisitHeaders, csvRecords)
}

func visitToCSVRow(record domain.VisitRecord) []string {
	return []string{
		record.Gender,
		record.AgeBucket,
		record.Diagnosis,
		formatInt(record.PatientCount),
		formatFloat(record.ConsultationRate),
	}
}
