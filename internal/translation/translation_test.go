package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "casestat/internal/errors"
	"casestat/pkg/contracts/domain"
)

func TestTable_KnownLabelsTranslate(t *testing.T) {
	tables := []*Table{Gender, Age, Diagnosis}

	for _, table := range tables {
		t.Run(table.Name(), func(t *testing.T) {
			require.Greater(t, table.Len(), 0)
			for _, raw := range table.Raw() {
				canonical, ok := table.Lookup(raw)
				assert.True(t, ok, "raw label %q must be known", raw)
				assert.NotEmpty(t, canonical)
				assert.Equal(t, canonical, table.Translate(raw))
			}
		})
	}
}

func TestTable_PassthroughOnMiss(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		raw   string
	}{
		{name: "unknown gender", table: Gender, raw: "其他"},
		{name: "english diagnosis", table: Diagnosis, raw: "Pneumonia"},
		{name: "empty value", table: Diagnosis, raw: ""},
		{name: "numeric age", table: Age, raw: "0~4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.table.Lookup(tt.raw)
			assert.False(t, ok)
			assert.Equal(t, tt.raw, tt.table.Translate(tt.raw))
		})
	}
}

func TestTable_GenderLabels(t *testing.T) {
	assert.Equal(t, domain.GenderFemales, Gender.Translate("女"))
	assert.Equal(t, domain.GenderMales, Gender.Translate("男"))
	assert.Equal(t, domain.GenderTotal, Gender.Translate("總計"))
	assert.ElementsMatch(t, []string{"Females", "Males", "Total"}, Gender.Canonical())
}

func TestTable_ResolveAcceptsCanonical(t *testing.T) {
	got, ok := Diagnosis.Resolve("Pneumonia")
	assert.True(t, ok)
	assert.Equal(t, "Pneumonia", got)

	got, ok = Diagnosis.Resolve("肺炎")
	assert.True(t, ok)
	assert.Equal(t, "Pneumonia", got)

	got, ok = Diagnosis.Resolve("肺結核")
	assert.False(t, ok)
	assert.Equal(t, "肺結核", got)
}

func TestNewTable_CopiesEntries(t *testing.T) {
	src := map[string]string{"a": "A"}
	table := NewTable("letters", src)
	src["b"] = "B"

	_, ok := table.Lookup("b")
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())
}

func TestBucketNaming_OpenLabel(t *testing.T) {
	tests := []struct {
		name   string
		naming BucketNaming
		want   string
	}{
		{name: "default style", naming: DefaultBucketNaming(), want: "85 above 85 year-old"},
		{name: "greater than style", naming: BucketNaming{Style: StyleGreaterThan, OpenFloor: 85}, want: "85 greater than 85 year-old"},
		{name: "zero floor falls back", naming: BucketNaming{Style: StyleAbove}, want: "85 above 85 year-old"},
		{name: "custom floor", naming: BucketNaming{Style: StyleAbove, OpenFloor: 90}, want: "90 above 90 year-old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.naming.OpenLabel())
		})
	}
}

func TestBucketNaming_CanonicalAge(t *testing.T) {
	naming := DefaultBucketNaming()

	tests := []struct {
		name   string
		raw    string
		want   string
		mapped bool
	}{
		{name: "total", raw: "總計", want: "Total", mapped: true},
		{name: "range with unit", raw: "0~4歲", want: "0~4", mapped: true},
		{name: "full width range", raw: "１５～２４歲", want: "15~24", mapped: true},
		{name: "padded range", raw: " 25~34 歲 ", want: "25~34", mapped: true},
		{name: "open bucket", raw: "85歲以上", want: "85 above 85 year-old", mapped: true},
		{name: "already canonical open bucket", raw: "85 above 85 year-old", want: "85 above 85 year-old", mapped: true},
		{name: "english total", raw: "Total", want: "Total", mapped: true},
		{name: "unknown label", raw: "不詳", want: "不詳", mapped: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mapped := naming.CanonicalAge(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.mapped, mapped)
		})
	}
}

func TestBucketNaming_CanonicalAge_OpenBucketFloor(t *testing.T) {
	naming := BucketNaming{Style: StyleAbove, OpenFloor: 90}

	got, mapped := naming.CanonicalAge("90歲以上")
	assert.True(t, mapped)
	assert.Equal(t, "90 above 90 year-old", got)

	got, mapped = naming.CanonicalAge("85歲以上")
	assert.False(t, mapped, "a different floor is not the configured open bucket")
	assert.Equal(t, "85歲以上", got)

	got, mapped = DefaultBucketNaming().CanonicalAge("６５歲以上")
	assert.False(t, mapped)
	assert.Equal(t, "65歲以上", got)
}

func TestStripAgeUnit(t *testing.T) {
	assert.Equal(t, "65~74", StripAgeUnit("65~74歲"))
	assert.Equal(t, "65~74", StripAgeUnit("65~74"))
	assert.Equal(t, "Total", StripAgeUnit("Total"))
}

func TestFold_KeepsDiagnosisPunctuationWithClean(t *testing.T) {
	raw := "內分泌、營養和代謝疾病"
	assert.Equal(t, "Endocrine, nutritional and metabolic disease", Diagnosis.Translate(Clean(raw)))
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()

	assert.Equal(t, "Pneumonia", rec.Translate(Diagnosis, "肺炎", 1))
	assert.Equal(t, "肺結核", rec.Translate(Diagnosis, "肺結核", 2))
	assert.Equal(t, "肺結核", rec.Translate(Diagnosis, "肺結核", 5))
	assert.Equal(t, "X", rec.Translate(Gender, "X", 3))

	unmapped := rec.Unmapped()
	require.Len(t, unmapped, 2)
	assert.Equal(t, Unmapped{Column: "diagnosis", Value: "肺結核", Count: 2, FirstRow: 2}, unmapped[0])
	assert.Equal(t, Unmapped{Column: "gender", Value: "X", Count: 1, FirstRow: 3}, unmapped[1])

	warnings := rec.Warnings()
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, apperrors.ErrTypeUnmappedLabel, w.Type)
		assert.True(t, w.IsWarning())
	}
	assert.Equal(t, 2, warnings[0].Context["count"])
}
