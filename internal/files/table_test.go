package files

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "casestat/internal/errors"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader []string
		wantRows   int
		wantErr    apperrors.ErrorType
	}{
		{
			name:       "plain table",
			input:      "a,b\n1,2\n3,4\n",
			wantHeader: []string{"a", "b"},
			wantRows:   2,
		},
		{
			name:       "byte order mark is stripped",
			input:      "\xEF\xBB\xBFCountryExp,ConfCases\nSpain,3\n",
			wantHeader: []string{"CountryExp", "ConfCases"},
			wantRows:   1,
		},
		{
			name:       "blank rows skipped",
			input:      "a,b\n1,2\n,\n\n3,4\n",
			wantHeader: []string{"a", "b"},
			wantRows:   2,
		},
		{
			name:       "ragged rows kept",
			input:      "a,b,c\n1,2\n3,4,5,6\n",
			wantHeader: []string{"a", "b", "c"},
			wantRows:   2,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: apperrors.ErrTypeParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseCSV(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				assert.True(t, apperrors.IsType(err, tt.wantErr))
				assert.Nil(t, table)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, table.Header)
			assert.Equal(t, tt.wantRows, table.Len())
		})
	}
}

func TestTable_ColumnIndex(t *testing.T) {
	table := &Table{Header: []string{"CountryExp", "CountryCode", "DateRep"}}

	assert.Equal(t, 0, table.ColumnIndex("CountryExp"))
	assert.Equal(t, 2, table.ColumnIndex("DateRep"))
	assert.Equal(t, -1, table.ColumnIndex("ConfCases"))
	assert.Equal(t, 3, table.Width())
}

func TestReadTable_Workbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "er_visits.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"性別", "年齡", "疾病", "人數"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"女", "總計", "總計", 300}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"男", "0~4歲", "肺炎", 12}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, path, table.Source)
	assert.Equal(t, []string{"性別", "年齡", "疾病", "人數"}, table.Header)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"男", "0~4歲", "肺炎", "12"}, table.Rows[1])
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "gone.csv"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
