package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casestat/pkg/contracts/domain"
)

func TestCaseExporter_ExportCases(t *testing.T) {
	dir := t.TempDir()
	rows := []domain.CaseRecord{
		{Country: "Spain", CountryCode: "ES", Source: "TESSy", DateRange: "2022-05-01 to 2022-06-15", ConfirmedCases: 7},
		{Country: "Portugal", CountryCode: "PT", Source: "TESSy", DateRange: "2022-05-01 to 2022-06-15", ConfirmedCases: 1},
	}

	n, err := NewCaseExporter(NewCSVWriter(dir)).ExportCases("summary.csv", rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, []string{
		"CountryExp,CountryCode,Source,DateRep,ConfCases",
		"Spain,ES,TESSy,2022-05-01 to 2022-06-15,7",
		"Portugal,PT,TESSy,2022-05-01 to 2022-06-15,1",
	}, readLines(t, filepath.Join(dir, "summary.csv")))
}
