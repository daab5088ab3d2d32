package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ERTable is a raw ER visits table: Chinese headers and labels, thousands
// separators, full-width digits and one diagnosis missing from the lookup.
const ERTable = `性別,年齡層,疾病分類,人次
女,總計,總計,"1,000"
女,總計,肺炎,400
女,總計,其他損傷,200
女,總計,罕見疾病,100
男,總計,總計,500
男,總計,肺炎,500
女,１５～２４歲,總計,30
女,１５～２４歲,肺炎,6
女,85歲以上,總計,8
女,85歲以上,肺炎,2
`

// CaseTable is a raw disease-case export with an extra column the summary ignores.
const CaseTable = `DateRep,CountryExp,CountryCode,ConfCases,Source,Notes
2022-05-01,Spain,ES,3,TESSy,a
2022-06-15,Portugal,PT,7,TESSy,b
2022-05-20,Spain,ES,4,TESSy,c
2022-05-10,Austria,AT,1,Media,d
`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
