package translation

import (
	"sort"

	"casestat/pkg/contracts/domain"
)

// Table is an immutable raw-label to canonical-label mapping.
//
// Lookups are exact-string matches. A miss is not an error: Translate hands the
// raw value back unchanged so that labels the table does not know survive into
// the output, and callers that care can detect the miss through Lookup.
type Table struct {
	name      string
	entries   map[string]string
	canonical map[string]bool
}

// NewTable copies entries into a new Table. Later changes to entries are not observed.
func NewTable(name string, entries map[string]string) *Table {
	m := make(map[string]string, len(entries))
	c := make(map[string]bool, len(entries))
	for raw, canonical := range entries {
		m[raw] = canonical
		c[canonical] = true
	}
	return &Table{name: name, entries: m, canonical: c}
}

// Name identifies the column the table applies to.
func (t *Table) Name() string { return t.name }

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the canonical label for raw and whether an entry exists.
func (t *Table) Lookup(raw string) (string, bool) {
	canonical, ok := t.entries[raw]
	return canonical, ok
}

// Resolve is Lookup that also accepts a value already in canonical form.
func (t *Table) Resolve(raw string) (string, bool) {
	if canonical, ok := t.entries[raw]; ok {
		return canonical, true
	}
	return raw, t.canonical[raw]
}

// Translate returns the canonical label for raw, or raw itself on a miss.
func (t *Table) Translate(raw string) string {
	if canonical, ok := t.entries[raw]; ok {
		return canonical
	}
	return raw
}

// Canonical returns the distinct canonical labels in sorted order.
func (t *Table) Canonical() []string {
	out := make([]string, 0, len(t.canonical))
	for c := range t.canonical {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Raw returns the raw labels the table knows, in sorted order.
func (t *Table) Raw() []string {
	out := make([]string, 0, len(t.entries))
	for raw := range t.entries {
		out = append(out, raw)
	}
	sort.Strings(out)
	return out
}

// Gender translates the gender column of ER exports.
var Gender = NewTable("gender", map[string]string{
	"女":  domain.GenderFemales,
	"男":  domain.GenderMales,
	"總計": domain.GenderTotal,
})

// Age translates the non-numeric age labels. Numeric ranges and the open-ended
// bucket are handled by BucketNaming.
var Age = NewTable("age", map[string]string{
	"總計": domain.TotalLabel,
})

// Diagnosis translates ER diagnosis categories.
var Diagnosis = NewTable("diagnosis", map[string]string{
	"總計":                       domain.TotalLabel,
	"呼吸系統疾病":                   "Respiratory Disease",
	"消化系統疾病":                   "Digestive system disease",
	"急性上呼吸道感染和流行性感冒":           "Acute upper respiratory tract infection & Influenza",
	"腹痛及骨盆痛":                   "Abdominal and Pelvic pain",
	"生殖泌尿系統疾病":                 "Genitourinary disease",
	"循環系統疾病":                   "Circulatory system disease",
	"其他頭部損傷":                   "Head injury",
	"其他泌尿系統疾病":                 "Other urinary system disease",
	"其他及未明示非傳染性胃腸炎及結腸炎":        "Unknown noninfective enteritis and colitis",
	"內分泌、營養和代謝疾病":              "Endocrine, nutritional and metabolic disease",
	"皮膚及皮下組織疾病":                "Skin and subcutaneous tissue disease",
	"感染症及寄生蟲病":                 "Infectious disease & Parasite infection",
	"症狀、徵候與臨床和實驗室的異常發現，他處未歸類者": "Abnormal findings, unclassified",
	"其他症狀、徵候與臨床和實驗室的異常發現":      "abnormal findings on clinical and laboratory examination",
	"傷害、中毒與其它外因造成的特定影響":        "Injuries, poisoning, and specific effects caused by other external factors",
	"其他損傷":                     "Other injuries",
	"肺炎":                       "Pneumonia",
	"其他急性下呼吸道感染":               "Other Acute Lower Respiratory Tract Infections",
})
