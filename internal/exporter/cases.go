package exporter

import (
	"casestat/pkg/contracts/domain"
)

// CaseHeaders is the header of the aggregated case report.
var CaseHeaders = []string{"CountryExp", "CountryCode", "Source", "DateRep", "ConfCases"}

// CaseExporter writes aggregated disease-case rows
type CaseExporter struct {
	csvWriter *CSVWriter
}

// NewCaseExporter creates a new case report exporter
func NewCaseExporter(writer *CSVWriter) *CaseExporter {
	return &CaseExporter{csvWriter: writer}
}

// ExportCases streams rows to a BOM-prefixed CSV file and returns the number written.
func (c *CaseExporter) ExportCases(outputPath string, rows []domain.CaseRecord) (int, error) {
	stream, err := c.csvWriter.CreateStreamWriter(outputPath, CaseHeaders)
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		if err := stream.WriteRecord(caseToCSVRow(row)); err != nil {
			stream.Close()
			return stream.Rows(), err
		}
	}

	if err := stream.Close(); err != nil {
		return stream.Rows(), err
	}
	return stream.Rows(), nil
}

func caseToCSVRow(record domain.CaseRecord) []string {
	return []string{
		record.Country,
		record.CountryCode,
		record.Source,
		record.DateRange,
		formatInt(record.ConfirmedCases),
	}
}
